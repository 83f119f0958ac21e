package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/leonemendes/dw-mini/internal/domain/events"
	"github.com/leonemendes/dw-mini/internal/pkg/strutil"
)

// EventHandler defines the interface for handling event-related operations
type EventHandler interface {
	Create(ctx *gin.Context)
	List(ctx *gin.Context)
	GetByID(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
}

// eventHandler struct holds the services
type eventHandler struct {
	eventService events.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService events.EventService) EventHandler {
	return &eventHandler{
		eventService: eventService,
	}
}

// Create records a new event
func (handler *eventHandler) Create(ctx *gin.Context) {
	var request CreateEventRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("invalid request body: %v", err)))
		return
	}

	event := &events.Event{
		Name:       request.Name,
		UserID:     request.UserID,
		Properties: request.Properties,
	}

	created, err := handler.eventService.Create(ctx, event)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("error creating event: %v", err)))
		return
	}

	ctx.JSON(http.StatusCreated, newEventResponse(created))
}

// List fetches events, newest first, optionally with query parameters
func (handler *eventHandler) List(ctx *gin.Context) {
	query := events.NewEventQuery()

	if name := ctx.Query("name"); len(name) > 0 {
		query.Name = name
	}

	if userID := ctx.Query("user_id"); len(userID) > 0 {
		value, err := strutil.ConvertToInt64(userID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("invalid user_id parameter: %v", err)))
			return
		}
		query.UserID = value
	}

	if limit := ctx.Query("limit"); len(limit) > 0 {
		value, err := strutil.ConvertToInt(limit)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("invalid limit parameter: %v", err)))
			return
		}
		query.Limit = value
	}

	if offset := ctx.Query("offset"); len(offset) > 0 {
		value, err := strutil.ConvertToInt(offset)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("invalid offset parameter: %v", err)))
			return
		}
		query.Offset = value
	}

	if err := query.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("validation failed: %v", err)))
		return
	}

	eventList, err := handler.eventService.List(ctx, query)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, errorResponse(fmt.Sprintf("error listing events: %v", err)))
		return
	}

	responses := make([]EventResponse, len(eventList))
	for i, event := range eventList {
		responses[i] = newEventResponse(event)
	}

	ctx.JSON(http.StatusOK, responses)
}

// GetByID fetches a single event by ID
func (handler *eventHandler) GetByID(ctx *gin.Context) {
	eventID := ctx.Param("id")

	event, err := handler.eventService.GetByID(ctx, eventID)
	if err != nil {
		status := http.StatusInternalServerError
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, errorResponse(err.Error()))
		return
	}

	ctx.JSON(http.StatusOK, newEventResponse(event))
}

// DeleteByID deletes an event by ID
func (handler *eventHandler) DeleteByID(ctx *gin.Context) {
	eventID := ctx.Param("id")

	if err := handler.eventService.DeleteByID(ctx, eventID); err != nil {
		status := http.StatusInternalServerError
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		ctx.JSON(status, errorResponse(err.Error()))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// isNotFound reports whether an error is a missing-record error from the
// repositories.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}
