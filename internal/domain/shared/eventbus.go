package shared

import "context"

// EventHandler consumes domain events. EventTypes lists the types the
// handler wants; an empty slice subscribes it to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is the side of the bus application services depend on.
// Services collect events from their aggregates and publish them after
// the owning transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus adds subscription and lifecycle control on top of
// publishing. The composition root wires handlers through it at
// startup.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
