package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/leonemendes/dw-mini/internal/domain/events"
)

// EventModel is the GORM database model for events (infrastructure concern)
type EventModel struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	Name       string    `gorm:"not null;index;type:varchar(100)"`
	UserID     int64     `gorm:"not null;index"`
	Properties string    `gorm:"type:jsonb"`
	Timestamp  time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (EventModel) TableName() string {
	return "events"
}

// ToDomain converts GORM model to domain entity
func (m *EventModel) ToDomain() (*events.Event, error) {
	var properties map[string]interface{}
	if m.Properties != "" {
		if err := json.Unmarshal([]byte(m.Properties), &properties); err != nil {
			return nil, fmt.Errorf("failed to decode event properties: %w", err)
		}
	}

	return &events.Event{
		ID:         m.ID,
		Name:       m.Name,
		UserID:     m.UserID,
		Properties: properties,
		Timestamp:  m.Timestamp,
	}, nil
}

// FromDomain converts domain entity to GORM model
func (m *EventModel) FromDomain(e *events.Event) error {
	properties := "{}"
	if e.Properties != nil {
		raw, err := json.Marshal(e.Properties)
		if err != nil {
			return fmt.Errorf("failed to encode event properties: %w", err)
		}
		properties = string(raw)
	}

	m.ID = e.ID
	m.Name = e.Name
	m.UserID = e.UserID
	m.Properties = properties
	m.Timestamp = e.Timestamp
	return nil
}
