package shared

import "context"

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in
	// An empty slice means the handler receives all events
	EventTypes() []string
}

// EventPublisher publishes domain events
type EventPublisher interface {
	// Publish publishes one or more domain events
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is a publisher with a managed lifecycle
type EventBus interface {
	EventPublisher
	// Start starts the event bus (e.g., background processing)
	Start(ctx context.Context) error
	// Stop gracefully stops the event bus
	Stop(ctx context.Context) error
}

// EventRecorder appends domain events to the outbox inside the current
// storage transaction, so events become visible only if the transaction commits.
type EventRecorder interface {
	Record(ctx context.Context, events ...DomainEvent) error
}
