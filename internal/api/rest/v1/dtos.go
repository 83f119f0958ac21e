package v1

import (
	"encoding/json"
	"time"

	"github.com/leonemendes/dw-mini/internal/domain/events"
	"github.com/leonemendes/dw-mini/internal/domain/sources"
)

// ErrorResponse carries an error message back to the client
type ErrorResponse struct {
	Message *string `json:"message,omitempty"`
}

func errorResponse(message string) ErrorResponse {
	return ErrorResponse{Message: &message}
}

// CreateEventRequest is the request body for recording an event
type CreateEventRequest struct {
	Name       string                 `json:"name" binding:"required"`
	UserID     int64                  `json:"user_id" binding:"required"`
	Properties map[string]interface{} `json:"properties"`
}

// EventResponse is the API representation of an event
type EventResponse struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	UserID     int64                  `json:"user_id"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

func newEventResponse(event *events.Event) EventResponse {
	return EventResponse{
		ID:         event.ID,
		Name:       event.Name,
		UserID:     event.UserID,
		Properties: event.Properties,
		Timestamp:  event.Timestamp,
	}
}

// CreateSourceRequest is the request body for registering a data source
type CreateSourceRequest struct {
	Name             string                   `json:"name" binding:"required"`
	SourceType       string                   `json:"source_type"`
	ConnectionConfig sources.ConnectionConfig `json:"connection_config" binding:"required"`
}

// SourceResponse is the API representation of a data source.
// The connection password is never echoed back.
type SourceResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SourceType string    `json:"source_type"`
	Host       string    `json:"host"`
	Port       int       `json:"port"`
	Database   string    `json:"database"`
	TableName  string    `json:"table_name,omitempty"`
	Query      string    `json:"query,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func newSourceResponse(source *sources.DataSource) SourceResponse {
	return SourceResponse{
		ID:         source.ID,
		Name:       source.Name,
		SourceType: source.SourceType,
		Host:       source.ConnectionConfig.Host,
		Port:       source.ConnectionConfig.Port,
		Database:   source.ConnectionConfig.Database,
		TableName:  source.ConnectionConfig.TableName,
		Query:      source.ConnectionConfig.Query,
		CreatedAt:  source.CreatedAt,
	}
}

// StartPipelineRequest is the request body for starting a pipeline run
type StartPipelineRequest struct {
	SourceID string `json:"source_id" binding:"required"`
}

// QueuedResponse acknowledges an accepted asynchronous task
type QueuedResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// TaskStatusResponse reports the state of an asynchronous task
type TaskStatusResponse struct {
	TaskID string          `json:"task_id"`
	Status string          `json:"status"`
	Detail string          `json:"detail,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// TableListResponse lists the tables of a source database
type TableListResponse struct {
	Tables []string `json:"tables"`
}
