package events

import "context"

// EventService defines the application operations over events.
type EventService interface {
	// Create records a new event. ID and timestamp are assigned when unset.
	// It returns the stored event and any error encountered.
	Create(ctx context.Context, event *Event) (*Event, error)

	// List retrieves events matching the query, newest first.
	List(ctx context.Context, query *EventQuery) ([]*Event, error)

	// GetByID retrieves a single event by ID.
	GetByID(ctx context.Context, eventID string) (*Event, error)

	// DeleteByID deletes an event by ID.
	DeleteByID(ctx context.Context, eventID string) error
}

// EventRepository defines the interface for Event-related persistence operations
type EventRepository interface {
	// Create adds a new Event to the database
	Create(ctx context.Context, event *Event) error
	// List lists Events in the database with optional filter, newest first
	List(ctx context.Context, query *EventQuery) ([]*Event, error)
	// GetByID retrieves an Event from the database by ID
	GetByID(ctx context.Context, eventID string) (*Event, error)
	// DeleteByID deletes an Event in the database by ID
	DeleteByID(ctx context.Context, eventID string) error
}
