package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leonemendes/dw-mini/internal/domain/events"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"
)

// eventService implements the EventService interface for event tracking
type eventService struct {
	eventRepo events.EventRepository
	logger    logger.Logger
}

// NewEventService creates a new instance of EventService
func NewEventService(eventRepo events.EventRepository, logger logger.Logger) (events.EventService, error) {
	return &eventService{
		eventRepo: eventRepo,
		logger:    logger,
	}, nil
}

// Create records a new event. ID and timestamp are assigned when unset.
func (s *eventService) Create(ctx context.Context, event *events.Event) (*events.Event, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return event, nil
}

// List retrieves events matching the query, newest first.
func (s *eventService) List(ctx context.Context, query *events.EventQuery) ([]*events.Event, error) {
	return s.eventRepo.List(ctx, query)
}

// GetByID retrieves a single event by ID.
func (s *eventService) GetByID(ctx context.Context, eventID string) (*events.Event, error) {
	return s.eventRepo.GetByID(ctx, eventID)
}

// DeleteByID deletes an event by ID. Deleting an unknown event is an error.
func (s *eventService) DeleteByID(ctx context.Context, eventID string) error {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return err
	}

	if err := s.eventRepo.DeleteByID(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return nil
}
