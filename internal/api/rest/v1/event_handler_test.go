//go:build unit
// +build unit

package v1

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/leonemendes/dw-mini/internal/domain/events"
)

func TestEventHandler_Create_Success(t *testing.T) {
	mockEventService := new(MockEventService)

	handler := NewEventHandler(mockEventService)

	created := &events.Event{
		ID:        "5a3c1f2e-9d2b-4a7e-8f61-0c2d9e4b1a55",
		Name:      "page_view",
		UserID:    42,
		Timestamp: time.Now().UTC(),
	}

	requestBody := `{"name": "page_view", "user_id": 42, "properties": {"path": "/home"}}`

	mockEventService.
		On("Create", mock.Anything, mock.AnythingOfType("*events.Event")).
		Return(created, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/events", bytes.NewBufferString(requestBody))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "5a3c1f2e-9d2b-4a7e-8f61-0c2d9e4b1a55")
	mockEventService.AssertExpectations(t)
}

func TestEventHandler_Create_InvalidBody(t *testing.T) {
	mockEventService := new(MockEventService)

	handler := NewEventHandler(mockEventService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/events", bytes.NewBufferString(`{"user_id": 42}`))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockEventService.AssertNotCalled(t, "Create")
}

func TestEventHandler_List_Success(t *testing.T) {
	mockEventService := new(MockEventService)

	handler := NewEventHandler(mockEventService)

	eventList := []*events.Event{
		{ID: "id-newest", Name: "page_view", UserID: 1, Timestamp: time.Now().UTC()},
		{ID: "id-oldest", Name: "page_view", UserID: 1, Timestamp: time.Now().UTC().Add(-time.Hour)},
	}

	mockEventService.
		On("List", mock.Anything, mock.AnythingOfType("*events.EventQuery")).
		Return(eventList, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/events?name=page_view&limit=10", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "id-newest")
	assert.Contains(t, w.Body.String(), "id-oldest")
	mockEventService.AssertExpectations(t)
}

func TestEventHandler_List_InvalidLimit(t *testing.T) {
	mockEventService := new(MockEventService)

	handler := NewEventHandler(mockEventService)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/events?limit=100000", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockEventService.AssertNotCalled(t, "List")
}

func TestEventHandler_List_NonNumericParams(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"non-numeric limit", "/events?limit=abc"},
		{"non-numeric offset", "/events?offset=1.5"},
		{"non-numeric user_id", "/events?user_id=bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockEventService := new(MockEventService)

			handler := NewEventHandler(mockEventService)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", tt.url, nil)

			c, _ := gin.CreateTestContext(w)
			c.Request = req

			handler.List(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockEventService.AssertNotCalled(t, "List")
		})
	}
}

func TestEventHandler_GetByID_Success(t *testing.T) {
	mockEventService := new(MockEventService)

	handler := NewEventHandler(mockEventService)

	event := &events.Event{
		ID:        "abc-123",
		Name:      "signup",
		UserID:    7,
		Timestamp: time.Now().UTC(),
	}

	mockEventService.
		On("GetByID", mock.Anything, "abc-123").
		Return(event, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/events/abc-123", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: "abc-123"}}

	handler.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signup")
	mockEventService.AssertExpectations(t)
}

func TestEventHandler_GetByID_NotFound(t *testing.T) {
	mockEventService := new(MockEventService)

	handler := NewEventHandler(mockEventService)

	mockEventService.
		On("GetByID", mock.Anything, "missing-id").
		Return(nil, errors.New("event with ID missing-id not found"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/events/missing-id", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: "missing-id"}}

	handler.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockEventService.AssertExpectations(t)
}

func TestEventHandler_DeleteByID_Success(t *testing.T) {
	mockEventService := new(MockEventService)

	handler := NewEventHandler(mockEventService)

	mockEventService.
		On("DeleteByID", mock.Anything, "abc-123").
		Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/events/abc-123", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: "abc-123"}}

	handler.DeleteByID(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockEventService.AssertExpectations(t)
}

func TestEventHandler_DeleteByID_NotFound(t *testing.T) {
	mockEventService := new(MockEventService)

	handler := NewEventHandler(mockEventService)

	mockEventService.
		On("DeleteByID", mock.Anything, "missing-id").
		Return(errors.New("event with ID missing-id not found"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/events/missing-id", nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: "missing-id"}}

	handler.DeleteByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockEventService.AssertExpectations(t)
}
