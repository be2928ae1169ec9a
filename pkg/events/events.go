// Package events defines the notifications emitted while scenarios run.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every timely event.
const Topic = "timely.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Execution lifecycle events.
	ExecutionStartedEvent   EventType = "execution.started"
	ExecutionCompletedEvent EventType = "execution.completed"
	ExecutionFailedEvent    EventType = "execution.failed"

	// Per-token dispatch result.
	NotificationDispatchedEvent EventType = "execution.dispatched"

	// Scenario record changes.
	ScenarioPromotedEvent EventType = "scenario.promoted"

	// Status board changes.
	StatusChangedEvent EventType = "status.changed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	ScenarioID string         `json:"scenario_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, scenarioID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		ScenarioID: scenarioID,
	}
}

type ExecutionStarted struct {
	BaseEvent

	Total int `json:"total"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type NotificationDispatched struct {
	BaseEvent

	TokenIndex int    `json:"token_index"`
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (e NotificationDispatched) GetType() EventType {
	return NotificationDispatchedEvent
}

type ExecutionCompleted struct {
	BaseEvent

	Sent     int           `json:"sent"`
	Total    int           `json:"total"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	Reason  string `json:"reason"`
	Message string `json:"message"`
	Sent    int    `json:"sent"`
	Total   int    `json:"total"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

type ScenarioPromoted struct {
	BaseEvent
}

func (e ScenarioPromoted) GetType() EventType {
	return ScenarioPromotedEvent
}

type StatusChanged struct {
	BaseEvent

	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e StatusChanged) GetType() EventType {
	return StatusChangedEvent
}
