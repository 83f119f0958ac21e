//go:build integration
// +build integration

package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonemendes/dw-mini/internal/domain/events"
	"github.com/leonemendes/dw-mini/internal/infrastructure/persistence"
	"github.com/leonemendes/dw-mini/internal/pkg/config"
	"github.com/leonemendes/dw-mini/internal/pkg/testutil"
)

func setupEventService(t *testing.T) (events.EventService, *persistence.TestContext) {
	t.Helper()

	dbContext := persistence.SetupTestDB(t, config.SqliteDbType)

	service, err := NewEventService(dbContext.EventRepo, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	return service, dbContext
}

func TestEventService_Create_AssignsIDAndTimestamp(t *testing.T) {
	service, _ := setupEventService(t)

	event := &events.Event{
		Name:       "page_view",
		UserID:     42,
		Properties: map[string]interface{}{"path": "/home"},
	}

	created, err := service.Create(context.Background(), event)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Timestamp.IsZero())
}

func TestEventService_Create_KeepsProvidedID(t *testing.T) {
	service, _ := setupEventService(t)

	eventID := uuid.NewString()
	event := persistence.CreateTestEvent(t, "signup")
	event.ID = eventID

	created, err := service.Create(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, eventID, created.ID)
}

func TestEventService_Create_RejectsInvalidEvent(t *testing.T) {
	service, _ := setupEventService(t)

	event := &events.Event{Name: "page_view"}

	_, err := service.Create(context.Background(), event)
	require.Error(t, err)
}

func TestEventService_GetByID(t *testing.T) {
	service, _ := setupEventService(t)

	created, err := service.Create(context.Background(), persistence.CreateTestEvent(t, "signup"))
	require.NoError(t, err)

	fetched, err := service.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
}

func TestEventService_List(t *testing.T) {
	service, _ := setupEventService(t)

	_, err := service.Create(context.Background(), persistence.CreateTestEvent(t, "page_view"))
	require.NoError(t, err)
	_, err = service.Create(context.Background(), persistence.CreateTestEvent(t, "signup"))
	require.NoError(t, err)

	eventList, err := service.List(context.Background(), events.NewEventQuery())
	require.NoError(t, err)
	assert.Len(t, eventList, 2)
}

func TestEventService_DeleteByID(t *testing.T) {
	service, _ := setupEventService(t)

	created, err := service.Create(context.Background(), persistence.CreateTestEvent(t, "page_view"))
	require.NoError(t, err)

	require.NoError(t, service.DeleteByID(context.Background(), created.ID))

	_, err = service.GetByID(context.Background(), created.ID)
	assert.Error(t, err)
}

func TestEventService_DeleteByID_UnknownEvent(t *testing.T) {
	service, _ := setupEventService(t)

	err := service.DeleteByID(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
