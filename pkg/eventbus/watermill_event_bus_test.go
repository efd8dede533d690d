package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/postforge/pkg/channels/gochannel"
	"github.com/dukex/postforge/pkg/eventbus"
	"github.com/dukex/postforge/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestPublishDispatchesToRegisteredHandler(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)

	received := make(chan *events.GenerationCompleted, 1)

	err := bus.Handle(events.GenerationCompletedEvent, func(_ context.Context, event any) error {
		completed, ok := event.(*events.GenerationCompleted)
		require.True(t, ok)
		received <- completed

		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	published := events.GenerationCompleted{
		BaseEvent: events.NewBaseEvent(events.GenerationCompletedEvent, "gen-abc123", "biz-1"),
		PostCount: 7,
		Duration:  3 * time.Second,
	}
	require.NoError(t, bus.Publish(ctx, "gen-abc123", published))

	select {
	case completed := <-received:
		assert.Equal(t, "gen-abc123", completed.RunID)
		assert.Equal(t, "biz-1", completed.BusinessID)
		assert.Equal(t, 7, completed.PostCount)
		assert.Equal(t, 3*time.Second, completed.Duration)
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not dispatched")
	}
}

func TestPublishSkipsUnregisteredEventTypes(t *testing.T) {
	t.Parallel()

	bus := newTestBus(t)

	received := make(chan *events.GenerationFailed, 2)

	err := bus.Handle(events.GenerationFailedEvent, func(_ context.Context, event any) error {
		failed, ok := event.(*events.GenerationFailed)
		require.True(t, ok)
		received <- failed

		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	// No handler for started events; it must be acked and skipped without
	// blocking later dispatches.
	startedEvent := events.GenerationStarted{
		BaseEvent:   events.NewBaseEvent(events.GenerationStartedEvent, "gen-abc123", "biz-1"),
		TargetCount: 5,
	}
	require.NoError(t, bus.Publish(ctx, "gen-abc123", startedEvent))

	failedEvent := events.GenerationFailed{
		BaseEvent: events.NewBaseEvent(events.GenerationFailedEvent, "gen-abc123", "biz-1"),
		Error:     "target count out of range",
	}
	require.NoError(t, bus.Publish(ctx, "gen-abc123", failedEvent))

	select {
	case failed := <-received:
		assert.Equal(t, "target count out of range", failed.Error)
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not dispatched")
	}
}
