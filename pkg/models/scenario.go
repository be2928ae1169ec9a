package models

import "time"

// ScenarioStatus represents the lifecycle state of a scenario.
type ScenarioStatus string

const (
	ScenarioStatusDraft  ScenarioStatus = "draft"  // Never successfully run
	ScenarioStatusActive ScenarioStatus = "active" // At least one run delivered a notification
)

// Scenario is the metadata record of a named automation. Its node graph is
// stored separately under the same ID.
type Scenario struct {
	ID        string         `json:"id"        validate:"required"`
	Name      string         `json:"name"      validate:"required"`
	CreatedAt time.Time      `json:"createdAt"`
	Status    ScenarioStatus `json:"status"    validate:"required,oneof=draft active"`
}

// IsDraft reports whether the scenario has never been promoted.
func (s *Scenario) IsDraft() bool {
	return s.Status == ScenarioStatusDraft
}
