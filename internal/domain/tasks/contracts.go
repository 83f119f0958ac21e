package tasks

import "context"

// PipelineService defines the asynchronous pipeline operations exposed to
// API consumers.
type PipelineService interface {
	// StartPipeline queues a full extract/load run for a data source and
	// returns the task ID to poll.
	StartPipeline(ctx context.Context, sourceID string) (string, error)

	// DiscoverSchema queues schema discovery for one table of a data source
	// and returns the task ID to poll.
	DiscoverSchema(ctx context.Context, sourceID string, tableName string) (string, error)

	// TaskStatus reports the current state of a task. Unknown or expired
	// task IDs read as PENDING.
	TaskStatus(ctx context.Context, taskID string) (*Status, error)
}

// TaskQueue is the broker interface for task envelopes.
type TaskQueue interface {
	// Enqueue puts a task on the named queue.
	Enqueue(ctx context.Context, queue string, task *Task) error

	// Dequeue blocks until a task is available on the named queue or the
	// context is done. The message stays claimed until Ack or Nack.
	Dequeue(ctx context.Context, queue string) (*Task, error)

	// Ack removes a claimed task after successful processing.
	Ack(ctx context.Context, queue string, task *Task) error

	// Nack returns a claimed task to the queue for redelivery.
	Nack(ctx context.Context, queue string, task *Task) error
}

// StatusStore records task states and results for later inspection.
// Records expire after ResultExpiry; a missing record reads as PENDING.
type StatusStore interface {
	Set(ctx context.Context, status *Status) error
	Get(ctx context.Context, taskID string) (*Status, error)
}

// StageStore holds intermediate pipeline payloads between tasks.
type StageStore interface {
	// Put stores a stage payload and returns the key it can be fetched with.
	Put(ctx context.Context, taskID string, data []byte) (string, error)
	// Get fetches a stage payload by key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes a stage payload by key.
	Delete(ctx context.Context, key string) error
}
