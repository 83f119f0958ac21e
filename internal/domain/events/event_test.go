//go:build unit
// +build unit

package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name      string
		event     Event
		shouldErr bool
	}{
		{"Valid event", Event{
			ID:        uuid.NewString(),
			Name:      "page_view",
			UserID:    42,
			Timestamp: time.Now().UTC(),
		}, false},
		{"Valid event with properties", Event{
			ID:         uuid.NewString(),
			Name:       "purchase",
			UserID:     1,
			Properties: map[string]interface{}{"amount": 9.99},
			Timestamp:  time.Now().UTC(),
		}, false},
		{"Missing ID", Event{
			Name:      "page_view",
			UserID:    42,
			Timestamp: time.Now().UTC(),
		}, true},
		{"Non-UUID ID", Event{
			ID:        "not-a-uuid",
			Name:      "page_view",
			UserID:    42,
			Timestamp: time.Now().UTC(),
		}, true},
		{"Missing name", Event{
			ID:        uuid.NewString(),
			UserID:    42,
			Timestamp: time.Now().UTC(),
		}, true},
		{"Zero user ID", Event{
			ID:        uuid.NewString(),
			Name:      "page_view",
			Timestamp: time.Now().UTC(),
		}, true},
		{"Missing timestamp", Event{
			ID:     uuid.NewString(),
			Name:   "page_view",
			UserID: 42,
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.shouldErr {
				require.Error(t, err, "expected validation error")
			} else {
				require.NoError(t, err, "expected no validation error")
			}
		})
	}
}

func TestEventQuery_Validate(t *testing.T) {
	tests := []struct {
		name      string
		query     EventQuery
		shouldErr bool
	}{
		{"Defaults", *NewEventQuery(), false},
		{"Filter by name and user", EventQuery{Name: "page_view", UserID: 42, Limit: 10}, false},
		{"Limit above maximum", EventQuery{Limit: 100000}, true},
		{"Negative offset", EventQuery{Limit: 10, Offset: -1}, true},
		{"Negative user ID", EventQuery{UserID: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.shouldErr {
				require.Error(t, err, "expected validation error")
			} else {
				require.NoError(t, err, "expected no validation error")
			}
		})
	}
}

func TestNewEventQuery_Defaults(t *testing.T) {
	query := NewEventQuery()
	require.Equal(t, 100, query.Limit)
	require.Equal(t, 0, query.Offset)
}
