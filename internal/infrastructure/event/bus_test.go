package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/debtbook/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), uuid.New(), testNow),
		Data:            "test data",
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	err, p := h.err, h.panicWith
	h.mu.Unlock()
	if p != nil {
		panic(p)
	}
	return err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("typed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestHandler("DebtOpened")
		bus.Subscribe(handler)

		event := newTestEvent("DebtOpened")
		require.NoError(t, bus.Publish(ctx, event))
		require.Len(t, handler.getHandled(), 1)
		assert.Equal(t, event, handler.getHandled()[0])
	})

	t.Run("multiple events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestHandler("DebtOpened")
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newTestEvent("DebtOpened"), newTestEvent("DebtOpened")))
		assert.Len(t, handler.getHandled(), 2)
	})

	t.Run("wildcard handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		all := newTestHandler()
		bus.Subscribe(all)

		require.NoError(t, bus.Publish(ctx, newTestEvent("DebtOpened"), newTestEvent("PaymentApplied")))
		assert.Len(t, all.getHandled(), 2)
	})

	t.Run("explicit types override the handler's own", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestHandler("DebtOpened")
		bus.Subscribe(handler, "PaymentApplied")

		require.NoError(t, bus.Publish(ctx, newTestEvent("DebtOpened"), newTestEvent("PaymentApplied")))
		require.Len(t, handler.getHandled(), 1)
		assert.Equal(t, "PaymentApplied", handler.getHandled()[0].EventType())
	})

	t.Run("no matching handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		handler := newTestHandler("Other")
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newTestEvent("DebtOpened")))
		assert.Empty(t, handler.getHandled())
	})

	t.Run("double subscribe delivers once", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestHandler("DebtOpened")
		bus.Subscribe(handler)
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newTestEvent("DebtOpened")))
		assert.Len(t, handler.getHandled(), 1)
	})
}

func TestInMemoryEventBus_HandlerFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("error does not stop other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := newTestHandler("DebtOpened")
		failing.err = errors.New("handler error")
		healthy := newTestHandler("DebtOpened")
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(ctx, newTestEvent("DebtOpened"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "handler error")
		assert.Len(t, failing.getHandled(), 1)
		assert.Len(t, healthy.getHandled(), 1)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := newTestHandler("DebtOpened")
		panicking.panicWith = "boom"
		healthy := newTestHandler("DebtOpened")
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		err := bus.Publish(ctx, newTestEvent("DebtOpened"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
		assert.Len(t, healthy.getHandled(), 1)
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())

	typed := newTestHandler("DebtOpened")
	all := newTestHandler()
	bus.Subscribe(typed)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(ctx, newTestEvent("DebtOpened")))
	bus.Unsubscribe(typed)
	bus.Unsubscribe(all)
	require.NoError(t, bus.Publish(ctx, newTestEvent("DebtOpened")))

	assert.Len(t, typed.getHandled(), 1)
	assert.Len(t, all.getHandled(), 1)
	assert.Equal(t, 0, bus.registry.Len())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("DebtOpened")
	bus.Subscribe(handler)

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("DebtOpened")))
	require.NoError(t, bus.Stop(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("DebtOpened")))

	assert.Len(t, handler.getHandled(), 1)
}
