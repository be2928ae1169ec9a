package eventbus_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/timely/pkg/channels/gochannel"
	"github.com/dukex/timely/pkg/eventbus"
	"github.com/dukex/timely/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillEventBus_RoundTrip(t *testing.T) {
	pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(slog.Default()))
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	defer func() { _ = bus.Close() }()

	received := make(chan *events.ExecutionCompleted, 1)

	require.NoError(t, bus.Handle(events.ExecutionCompletedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.ExecutionCompleted)

		return nil
	}))
	require.NoError(t, bus.Subscribe(t.Context()))

	// Events without a handler are acknowledged and dropped.
	require.NoError(t, bus.Publish(t.Context(), "s1", events.ExecutionStarted{
		BaseEvent: events.NewBaseEvent(events.ExecutionStartedEvent, "s1"),
		Total:     3,
	}))
	require.NoError(t, bus.Publish(t.Context(), "s1", events.ExecutionCompleted{
		BaseEvent: events.NewBaseEvent(events.ExecutionCompletedEvent, "s1"),
		Sent:      1,
		Total:     3,
		Message:   "1/3 notifications sent",
	}))

	select {
	case event := <-received:
		assert.Equal(t, "s1", event.ScenarioID)
		assert.Equal(t, events.ExecutionCompletedEvent, event.Type)
		assert.Equal(t, 1, event.Sent)
		assert.Equal(t, "1/3 notifications sent", event.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)

	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}
