// Package worker consumes the task queues and executes pipeline work:
// extraction, loading, full pipeline runs and schema discovery. Failed
// extract and load tasks are retried with exponential backoff; task states
// are published to the status store throughout.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/leonemendes/dw-mini/internal/domain/jobs"
	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/domain/tasks"
	"github.com/leonemendes/dw-mini/internal/domain/warehouse"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"
)

// Worker processes tasks from the named queues.
type Worker struct {
	taskQueue  tasks.TaskQueue
	statuses   tasks.StatusStore
	stages     tasks.StageStore
	extractor  sources.Extractor
	loader     warehouse.Loader
	sourceRepo sources.DataSourceRepository
	jobRepo    jobs.ImportJobRepository
	logger     logger.Logger
}

// NewWorker creates a Worker over the given infrastructure.
func NewWorker(
	taskQueue tasks.TaskQueue,
	statuses tasks.StatusStore,
	stages tasks.StageStore,
	extractor sources.Extractor,
	loader warehouse.Loader,
	sourceRepo sources.DataSourceRepository,
	jobRepo jobs.ImportJobRepository,
	logger logger.Logger,
) (*Worker, error) {
	return &Worker{
		taskQueue:  taskQueue,
		statuses:   statuses,
		stages:     stages,
		extractor:  extractor,
		loader:     loader,
		sourceRepo: sourceRepo,
		jobRepo:    jobRepo,
		logger:     logger,
	}, nil
}

// Run consumes all queues until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	queues := []string{tasks.QueuePipeline, tasks.QueueExtraction, tasks.QueueLoading}

	var wg sync.WaitGroup
	for _, queueName := range queues {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			w.consume(ctx, name)
		}(queueName)
	}

	wg.Wait()
	return ctx.Err()
}

func (w *Worker) consume(ctx context.Context, queueName string) {
	w.logger.Info("Consuming queue ", queueName)

	for {
		task, err := w.taskQueue.Dequeue(ctx, queueName)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("Dequeue from ", queueName, " failed: ", err)
			continue
		}

		w.ProcessTask(ctx, queueName, task)
	}
}

// ProcessTask runs a single task, records its outcome and acknowledges it.
// Retryable kinds that fail are re-queued with exponential backoff until the
// retry budget is exhausted.
func (w *Worker) ProcessTask(ctx context.Context, queueName string, task *tasks.Task) {
	w.setState(ctx, task.ID, tasks.StateStarted, "", nil)

	result, err := w.dispatch(ctx, task)
	if err == nil {
		raw, marshalErr := json.Marshal(result)
		if marshalErr != nil {
			w.logger.Error("Failed to encode result for task ", task.ID, ": ", marshalErr)
		}
		w.setState(ctx, task.ID, tasks.StateSuccess, "", raw)
		w.ack(ctx, queueName, task)
		return
	}

	w.logger.Error("Task ", task.ID, " (", task.Kind, ") failed: ", err)

	if retryable(task.Kind) && task.Retries < tasks.MaxRetries {
		backoff := time.Duration(1<<uint(task.Retries)) * time.Second
		w.setState(ctx, task.ID, tasks.StateRetry,
			fmt.Sprintf("attempt %d failed: %v", task.Retries+1, err), nil)

		// The original stays claimed until the retry copy is on the queue,
		// so a crash here redelivers it instead of losing it.
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		}

		retry := *task
		retry.Retries++
		if enqueueErr := w.taskQueue.Enqueue(ctx, queueName, &retry); enqueueErr != nil {
			w.logger.Error("Failed to re-queue task ", task.ID, ": ", enqueueErr)
			w.setState(ctx, task.ID, tasks.StateFailure, enqueueErr.Error(), nil)
			w.ack(ctx, queueName, task)
			return
		}
		w.ack(ctx, queueName, task)
		return
	}

	w.setState(ctx, task.ID, tasks.StateFailure, err.Error(), nil)
	w.ack(ctx, queueName, task)
}

func (w *Worker) dispatch(ctx context.Context, task *tasks.Task) (interface{}, error) {
	switch task.Kind {
	case tasks.KindPipeline:
		var payload tasks.PipelinePayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return nil, fmt.Errorf("invalid pipeline payload: %w", err)
		}
		return w.handlePipeline(ctx, task, payload)

	case tasks.KindExtract:
		var payload tasks.ExtractPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return nil, fmt.Errorf("invalid extract payload: %w", err)
		}
		return w.handleExtract(ctx, task, payload)

	case tasks.KindLoad:
		var payload tasks.LoadPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return nil, fmt.Errorf("invalid load payload: %w", err)
		}
		return w.handleLoad(ctx, task, payload)

	case tasks.KindSchemaDiscovery:
		var payload tasks.SchemaDiscoveryPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return nil, fmt.Errorf("invalid schema discovery payload: %w", err)
		}
		return w.handleSchemaDiscovery(ctx, task, payload)

	default:
		return nil, fmt.Errorf("unknown task kind: %s", task.Kind)
	}
}

// retryable reports whether a task kind participates in retry with backoff.
// Pipeline runs track their outcome in the import job instead; schema
// discovery is cheap enough to re-request.
func retryable(kind string) bool {
	return kind == tasks.KindExtract || kind == tasks.KindLoad
}

func (w *Worker) setState(ctx context.Context, taskID, state, detail string, result json.RawMessage) {
	status := &tasks.Status{
		TaskID: taskID,
		State:  state,
		Detail: detail,
		Result: result,
	}
	if err := w.statuses.Set(ctx, status); err != nil {
		w.logger.Warn("Failed to record status for task ", taskID, ": ", err)
	}
}

func (w *Worker) ack(ctx context.Context, queueName string, task *tasks.Task) {
	if err := w.taskQueue.Ack(ctx, queueName, task); err != nil {
		w.logger.Warn("Failed to ack task ", task.ID, ": ", err)
	}
}
