package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Event entity: a single tracked user event with free-form properties
type Event struct {
	ID         string                 `validate:"required,uuid4"`
	Name       string                 `validate:"required,min=1,max=100"`
	UserID     int64                  `validate:"required,min=1"`
	Properties map[string]interface{} `validate:"-"`
	Timestamp  time.Time              `validate:"required"`
}

// Validate for validating Event struct
func (e *Event) Validate() error {
	validate := validator.New()

	err := validate.Struct(e)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// EventQuery defines filter, sorting and pagination options for listing events
type EventQuery struct {
	Name   string `validate:"omitempty,max=100"`
	UserID int64  `validate:"omitempty,min=1"`
	Limit  int    `validate:"omitempty,min=1,max=1000"`
	Offset int    `validate:"omitempty,min=0"`
}

// NewEventQuery creates an EventQuery with default pagination
func NewEventQuery() *EventQuery {
	return &EventQuery{
		Limit:  100,
		Offset: 0,
	}
}

// Validate for validating EventQuery struct
func (q *EventQuery) Validate() error {
	validate := validator.New()

	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("validation failed for EventQuery: %w", err)
	}

	return nil
}
