package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// EventKind names a recorded input event.
type EventKind string

const (
	EventPointerDown  EventKind = "pointerdown"
	EventPointerMove  EventKind = "pointermove"
	EventPointerUp    EventKind = "pointerup"
	EventPointerLeave EventKind = "pointerleave"
	EventClick        EventKind = "click"
	EventDoubleClick  EventKind = "dblclick"
	EventKeyDown      EventKind = "keydown"
)

// Event is one recorded canvas input.
type Event struct {
	Kind      EventKind `json:"kind"`
	Target    Target    `json:"target"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Key       string    `json:"key,omitempty"`
	TextFocus bool      `json:"textFocus,omitempty"`
}

// DecodeEvents reads a JSON array of events.
func DecodeEvents(r io.Reader) ([]Event, error) {
	var events []Event

	err := json.NewDecoder(r).Decode(&events)
	if err != nil {
		return nil, fmt.Errorf("failed to decode canvas events: %w", err)
	}

	return events, nil
}

// Replay feeds events through the controller in order.
func (c *Controller) Replay(ctx context.Context, events []Event) error {
	for i, event := range events {
		at := Point{X: event.X, Y: event.Y}

		switch event.Kind {
		case EventPointerDown:
			c.PointerDown(ctx, event.Target, at)
		case EventPointerMove:
			c.PointerMove(ctx, at)
		case EventPointerUp:
			c.PointerUp(ctx, at)
		case EventPointerLeave:
			c.PointerLeave(ctx)
		case EventClick:
			c.Click(ctx, event.Target)
		case EventDoubleClick:
			c.DoubleClick(ctx, event.Target)
		case EventKeyDown:
			c.KeyDown(ctx, event.Key, event.TextFocus)
		default:
			return fmt.Errorf("event %d: unknown kind %q", i, event.Kind)
		}
	}

	return nil
}
