//go:build unit
// +build unit

package v1

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/leonemendes/dw-mini/internal/domain/events"
	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/domain/tasks"
)

// MockEventService is a mock implementation of EventService
type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, event *events.Event) (*events.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.Event), args.Error(1)
}

func (m *MockEventService) List(ctx context.Context, query *events.EventQuery) ([]*events.Event, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*events.Event), args.Error(1)
}

func (m *MockEventService) GetByID(ctx context.Context, eventID string) (*events.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.Event), args.Error(1)
}

func (m *MockEventService) DeleteByID(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

// MockSourceService is a mock implementation of SourceService
type MockSourceService struct {
	mock.Mock
}

func (m *MockSourceService) Create(ctx context.Context, source *sources.DataSource) (*sources.DataSource, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sources.DataSource), args.Error(1)
}

func (m *MockSourceService) List(ctx context.Context) ([]*sources.DataSource, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sources.DataSource), args.Error(1)
}

func (m *MockSourceService) GetByID(ctx context.Context, sourceID string) (*sources.DataSource, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sources.DataSource), args.Error(1)
}

func (m *MockSourceService) DeleteByID(ctx context.Context, sourceID string) error {
	args := m.Called(ctx, sourceID)
	return args.Error(0)
}

func (m *MockSourceService) ListTables(ctx context.Context, sourceID string) ([]string, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSourceService) GetTableSchema(ctx context.Context, sourceID string, tableName string) (sources.TableSchema, error) {
	args := m.Called(ctx, sourceID, tableName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sources.TableSchema), args.Error(1)
}

// MockPipelineService is a mock implementation of PipelineService
type MockPipelineService struct {
	mock.Mock
}

func (m *MockPipelineService) StartPipeline(ctx context.Context, sourceID string) (string, error) {
	args := m.Called(ctx, sourceID)
	return args.String(0), args.Error(1)
}

func (m *MockPipelineService) DiscoverSchema(ctx context.Context, sourceID string, tableName string) (string, error) {
	args := m.Called(ctx, sourceID, tableName)
	return args.String(0), args.Error(1)
}

func (m *MockPipelineService) TaskStatus(ctx context.Context, taskID string) (*tasks.Status, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasks.Status), args.Error(1)
}
