package shared

import "context"

// EventHandler reacts to domain events after the unit of work that raised
// them has committed.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types the handler wants; empty means all of them.
	EventTypes() []string
}

// EventPublisher hands committed events to whoever listens.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is an EventPublisher that handlers can attach to and detach from.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
