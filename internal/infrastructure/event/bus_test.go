package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ferrepos/backend/internal/domain/shared"
)

type stockEvent struct {
	shared.BaseDomainEvent
	ProductName string
}

func newStockEvent(eventType string) *stockEvent {
	return &stockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Product", uuid.New(), uuid.New()),
		ProductName:     "Tornillo 1/4",
	}
}

// recordingHandler collects every event it receives and can be primed
// to fail or panic.
type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newObservedBus() (*InMemoryEventBus, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewInMemoryEventBus(zap.New(core)), logs
}

func TestInMemoryEventBus_PublishToTypedHandler(t *testing.T) {
	bus, _ := newObservedBus()

	handler := &recordingHandler{types: []string{"ProductLowStock"}}
	bus.Subscribe(handler)

	evt := newStockEvent("ProductLowStock")
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Len(t, handler.received, 1)
	assert.Equal(t, evt.EventID(), handler.received[0].EventID())
}

func TestInMemoryEventBus_TypeFiltering(t *testing.T) {
	bus, _ := newObservedBus()

	lowStock := &recordingHandler{types: []string{"ProductLowStock"}}
	created := &recordingHandler{types: []string{"ProductCreated"}}
	bus.Subscribe(lowStock)
	bus.Subscribe(created)

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("ProductLowStock")))

	assert.Len(t, lowStock.received, 1)
	assert.Empty(t, created.received)
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	bus, _ := newObservedBus()

	audit := &recordingHandler{}
	bus.Subscribe(audit)

	require.NoError(t, bus.Publish(context.Background(),
		newStockEvent("ProductLowStock"),
		newStockEvent("ProductCreated"),
	))

	assert.Len(t, audit.received, 2)
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus, _ := newObservedBus()

	handler := &recordingHandler{types: []string{"ProductCreated"}}
	bus.Subscribe(handler, "ProductLowStock")

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("ProductLowStock")))
	require.NoError(t, bus.Publish(context.Background(), newStockEvent("ProductCreated")))

	// Only the explicit subscription counts.
	assert.Len(t, handler.received, 1)
	assert.Equal(t, "ProductLowStock", handler.received[0].EventType())
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus, logs := newObservedBus()

	failing := &recordingHandler{types: []string{"ProductLowStock"}, err: assert.AnError}
	healthy := &recordingHandler{types: []string{"ProductLowStock"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newStockEvent("ProductLowStock")))

	assert.Len(t, healthy.received, 1)
	require.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
	entry := logs.FilterMessage("event handler failed").All()[0]
	assert.Equal(t, "ProductLowStock", entry.ContextMap()["event_type"])
}

func TestInMemoryEventBus_HandlerPanicIsContained(t *testing.T) {
	bus, logs := newObservedBus()

	exploding := &recordingHandler{types: []string{"ProductLowStock"}, panics: true}
	healthy := &recordingHandler{types: []string{"ProductLowStock"}}
	bus.Subscribe(exploding)
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newStockEvent("ProductLowStock"))
	})

	assert.Len(t, healthy.received, 1)
	assert.Equal(t, 1, logs.FilterMessage("event handler panicked").Len())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus, _ := newObservedBus()

	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.running.Load())
	require.NoError(t, bus.Stop(context.Background()))
	assert.False(t, bus.running.Load())
}
