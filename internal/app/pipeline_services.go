package app

import (
	"context"
	"fmt"

	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/domain/tasks"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"
)

// pipelineService implements the PipelineService interface for queueing
// asynchronous pipeline work
type pipelineService struct {
	sourceRepo sources.DataSourceRepository
	taskQueue  tasks.TaskQueue
	statuses   tasks.StatusStore
	logger     logger.Logger
}

// NewPipelineService creates a new instance of PipelineService
func NewPipelineService(
	sourceRepo sources.DataSourceRepository,
	taskQueue tasks.TaskQueue,
	statuses tasks.StatusStore,
	logger logger.Logger,
) (tasks.PipelineService, error) {
	return &pipelineService{
		sourceRepo: sourceRepo,
		taskQueue:  taskQueue,
		statuses:   statuses,
		logger:     logger,
	}, nil
}

// StartPipeline queues a full extract/load run for a data source.
func (s *pipelineService) StartPipeline(ctx context.Context, sourceID string) (string, error) {
	// Reject unknown sources before queueing anything
	if _, err := s.sourceRepo.GetByID(ctx, sourceID); err != nil {
		return "", err
	}

	task, err := tasks.NewTask(tasks.KindPipeline, tasks.PipelinePayload{SourceID: sourceID})
	if err != nil {
		return "", fmt.Errorf("failed to build pipeline task: %w", err)
	}

	if err := s.taskQueue.Enqueue(ctx, tasks.QueuePipeline, task); err != nil {
		return "", err
	}

	if err := s.statuses.Set(ctx, &tasks.Status{TaskID: task.ID, State: tasks.StatePending}); err != nil {
		s.logger.Warn("Failed to record initial status for task ", task.ID, ": ", err)
	}

	s.logger.Info("Queued pipeline task ", task.ID, " for source ", sourceID)
	return task.ID, nil
}

// DiscoverSchema queues schema discovery for one table of a data source.
func (s *pipelineService) DiscoverSchema(ctx context.Context, sourceID string, tableName string) (string, error) {
	source, err := s.sourceRepo.GetByID(ctx, sourceID)
	if err != nil {
		return "", err
	}

	task, err := tasks.NewTask(tasks.KindSchemaDiscovery, tasks.SchemaDiscoveryPayload{
		Source:    source.ConnectionConfig,
		TableName: tableName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build schema discovery task: %w", err)
	}

	if err := s.taskQueue.Enqueue(ctx, tasks.QueueExtraction, task); err != nil {
		return "", err
	}

	if err := s.statuses.Set(ctx, &tasks.Status{TaskID: task.ID, State: tasks.StatePending}); err != nil {
		s.logger.Warn("Failed to record initial status for task ", task.ID, ": ", err)
	}

	return task.ID, nil
}

// TaskStatus reports the current state of a task.
func (s *pipelineService) TaskStatus(ctx context.Context, taskID string) (*tasks.Status, error) {
	return s.statuses.Get(ctx, taskID)
}
