//go:build unit
// +build unit

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonemendes/dw-mini/internal/domain/jobs"
	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/domain/tasks"
	"github.com/leonemendes/dw-mini/internal/infrastructure/extract"
	"github.com/leonemendes/dw-mini/internal/infrastructure/persistence"
	"github.com/leonemendes/dw-mini/internal/infrastructure/queue"
	"github.com/leonemendes/dw-mini/internal/pkg/config"
	"github.com/leonemendes/dw-mini/internal/pkg/testutil"
)

type workerTestEnv struct {
	worker    *Worker
	taskQueue tasks.TaskQueue
	statuses  tasks.StatusStore
	stages    *memStageStore
	extractor *fakeExtractor
	loader    *fakeLoader
	db        *persistence.TestContext
}

func setupWorker(t *testing.T) *workerTestEnv {
	t.Helper()

	db := persistence.SetupTestDB(t, config.SqliteDbType)
	log := testutil.SetupTestLogger(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	taskQueue, err := queue.NewRedisTaskQueue(client, log)
	require.NoError(t, err)

	statuses, err := queue.NewRedisStatusStore(client, log)
	require.NoError(t, err)

	stages := newMemStageStore()
	extractor := &fakeExtractor{record: buildTestRecord(t)}
	loader := &fakeLoader{}

	w, err := NewWorker(taskQueue, statuses, stages, extractor, loader, db.SourceRepo, db.ImportJobRepo, log)
	require.NoError(t, err)

	return &workerTestEnv{
		worker:    w,
		taskQueue: taskQueue,
		statuses:  statuses,
		stages:    stages,
		extractor: extractor,
		loader:    loader,
		db:        db,
	}
}

func buildTestRecord(t *testing.T) arrow.Record {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	builder.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2}, nil)
	builder.Field(1).(*array.StringBuilder).AppendValues([]string{"alpha", "beta"}, nil)

	record := builder.NewRecord()
	t.Cleanup(record.Release)
	return record
}

func createSource(t *testing.T, env *workerTestEnv) *sources.DataSource {
	t.Helper()

	source := persistence.CreateTestDataSource(t, "orders-db")
	require.NoError(t, env.db.SourceRepo.Create(context.Background(), source))
	return source
}

func TestWorker_ProcessTask_Pipeline_Success(t *testing.T) {
	env := setupWorker(t)
	ctx := context.Background()

	source := createSource(t, env)

	task, err := tasks.NewTask(tasks.KindPipeline, tasks.PipelinePayload{SourceID: source.ID})
	require.NoError(t, err)

	env.worker.ProcessTask(ctx, tasks.QueuePipeline, task)

	status, err := env.statuses.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StateSuccess, status.State)

	var result tasks.PipelineResult
	require.NoError(t, json.Unmarshal(status.Result, &result))
	assert.Equal(t, int64(2), result.RowsProcessed)
	assert.Contains(t, result.TableName, "orders_db_")

	job, err := env.db.ImportJobRepo.GetByID(ctx, result.JobID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusSuccess, job.Status)
	assert.Equal(t, int64(2), job.RowsProcessed)
	assert.NotNil(t, job.CompletedAt)

	assert.Equal(t, result.TableName, env.loader.loadedTable)
	assert.Equal(t, int64(2), env.loader.loadedRows)
}

func TestWorker_ProcessTask_Pipeline_ExtractionFailureMarksJobFailed(t *testing.T) {
	env := setupWorker(t)
	ctx := context.Background()

	source := createSource(t, env)
	env.extractor.err = errors.New("connection refused")

	task, err := tasks.NewTask(tasks.KindPipeline, tasks.PipelinePayload{SourceID: source.ID})
	require.NoError(t, err)

	env.worker.ProcessTask(ctx, tasks.QueuePipeline, task)

	// Pipeline tasks do not retry
	status, err := env.statuses.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StateFailure, status.State)
	assert.Contains(t, status.Detail, "connection refused")

	failedJobs, err := env.db.ImportJobRepo.ListByStatus(ctx, jobs.StatusFailed)
	require.NoError(t, err)
	require.Len(t, failedJobs, 1)
	assert.NotNil(t, failedJobs[0].CompletedAt)
}

func TestWorker_ProcessTask_Pipeline_UnknownSource(t *testing.T) {
	env := setupWorker(t)
	ctx := context.Background()

	task, err := tasks.NewTask(tasks.KindPipeline, tasks.PipelinePayload{SourceID: "00000000-0000-4000-8000-000000000000"})
	require.NoError(t, err)

	env.worker.ProcessTask(ctx, tasks.QueuePipeline, task)

	status, err := env.statuses.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StateFailure, status.State)
}

func TestWorker_ProcessTask_Extract_StagesAndChainsLoad(t *testing.T) {
	env := setupWorker(t)
	ctx := context.Background()

	task, err := tasks.NewTask(tasks.KindExtract, tasks.ExtractPayload{
		Source:      sources.ConnectionConfig{Database: "orders", TableName: "line_items"},
		TargetTable: "line_items_abc123",
	})
	require.NoError(t, err)

	env.worker.ProcessTask(ctx, tasks.QueueExtraction, task)

	status, err := env.statuses.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StateSuccess, status.State)

	var result tasks.ExtractResult
	require.NoError(t, json.Unmarshal(status.Result, &result))
	assert.Equal(t, int64(2), result.RowsExtracted)
	assert.Equal(t, 2, result.Columns)

	staged, err := env.stages.Get(ctx, result.StageKey)
	require.NoError(t, err)
	assert.NotEmpty(t, staged)

	loadTask, err := env.taskQueue.Dequeue(ctx, tasks.QueueLoading)
	require.NoError(t, err)
	assert.Equal(t, tasks.KindLoad, loadTask.Kind)

	var loadPayload tasks.LoadPayload
	require.NoError(t, json.Unmarshal(loadTask.Payload, &loadPayload))
	assert.Equal(t, result.StageKey, loadPayload.StageKey)
	assert.Equal(t, "line_items_abc123", loadPayload.TableName)
	assert.True(t, loadPayload.DropIfExists)
}

func TestWorker_ProcessTask_Load_Success(t *testing.T) {
	env := setupWorker(t)
	ctx := context.Background()

	record := buildTestRecord(t)
	data, err := extract.SerializeRecord(record)
	require.NoError(t, err)

	stageKey, err := env.stages.Put(ctx, "stage-task", data)
	require.NoError(t, err)

	task, err := tasks.NewTask(tasks.KindLoad, tasks.LoadPayload{
		StageKey:     stageKey,
		TableName:    "line_items_abc123",
		DropIfExists: true,
	})
	require.NoError(t, err)

	env.worker.ProcessTask(ctx, tasks.QueueLoading, task)

	status, err := env.statuses.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StateSuccess, status.State)

	var result tasks.LoadResult
	require.NoError(t, json.Unmarshal(status.Result, &result))
	assert.Equal(t, int64(2), result.RowsLoaded)
	assert.Equal(t, "line_items_abc123", result.TableName)

	// Stage payload is cleaned up after a successful load
	_, err = env.stages.Get(ctx, stageKey)
	assert.Error(t, err)
}

func TestWorker_ProcessTask_Extract_RetriesWithBackoff(t *testing.T) {
	env := setupWorker(t)
	ctx := context.Background()

	env.extractor.err = errors.New("connection reset")

	task, err := tasks.NewTask(tasks.KindExtract, tasks.ExtractPayload{
		Source: sources.ConnectionConfig{Database: "orders", TableName: "line_items"},
	})
	require.NoError(t, err)

	env.worker.ProcessTask(ctx, tasks.QueueExtraction, task)

	status, err := env.statuses.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StateRetry, status.State)

	requeued, err := env.taskQueue.Dequeue(ctx, tasks.QueueExtraction)
	require.NoError(t, err)
	assert.Equal(t, task.ID, requeued.ID)
	assert.Equal(t, 1, requeued.Retries)
}

// callOrderQueue records the order of Enqueue/Ack calls made by the worker.
type callOrderQueue struct {
	tasks.TaskQueue
	mu  sync.Mutex
	ops []string
}

func (q *callOrderQueue) Enqueue(ctx context.Context, queueName string, task *tasks.Task) error {
	q.mu.Lock()
	q.ops = append(q.ops, "enqueue")
	q.mu.Unlock()
	return q.TaskQueue.Enqueue(ctx, queueName, task)
}

func (q *callOrderQueue) Ack(ctx context.Context, queueName string, task *tasks.Task) error {
	q.mu.Lock()
	q.ops = append(q.ops, "ack")
	q.mu.Unlock()
	return q.TaskQueue.Ack(ctx, queueName, task)
}

func TestWorker_ProcessTask_Extract_RetryQueuedBeforeAck(t *testing.T) {
	env := setupWorker(t)
	ctx := context.Background()

	env.extractor.err = errors.New("connection reset")

	recorded := &callOrderQueue{TaskQueue: env.taskQueue}
	w, err := NewWorker(recorded, env.statuses, env.stages, env.extractor, env.loader,
		env.db.SourceRepo, env.db.ImportJobRepo, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	task, err := tasks.NewTask(tasks.KindExtract, tasks.ExtractPayload{
		Source: sources.ConnectionConfig{Database: "orders", TableName: "line_items"},
	})
	require.NoError(t, err)
	require.NoError(t, env.taskQueue.Enqueue(ctx, tasks.QueueExtraction, task))

	claimed, err := env.taskQueue.Dequeue(ctx, tasks.QueueExtraction)
	require.NoError(t, err)

	w.ProcessTask(ctx, tasks.QueueExtraction, claimed)

	// The retry copy must be on the queue before the original is released,
	// otherwise a crash between the two loses the task entirely.
	assert.Equal(t, []string{"enqueue", "ack"}, recorded.ops)

	requeued, err := env.taskQueue.Dequeue(ctx, tasks.QueueExtraction)
	require.NoError(t, err)
	assert.Equal(t, task.ID, requeued.ID)
	assert.Equal(t, 1, requeued.Retries)
}

func TestWorker_ProcessTask_Extract_RetryBudgetExhausted(t *testing.T) {
	env := setupWorker(t)
	ctx := context.Background()

	env.extractor.err = errors.New("connection reset")

	task, err := tasks.NewTask(tasks.KindExtract, tasks.ExtractPayload{
		Source: sources.ConnectionConfig{Database: "orders", TableName: "line_items"},
	})
	require.NoError(t, err)
	task.Retries = tasks.MaxRetries

	env.worker.ProcessTask(ctx, tasks.QueueExtraction, task)

	status, err := env.statuses.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StateFailure, status.State)
	assert.Contains(t, status.Detail, "connection reset")
}

func TestWorker_ProcessTask_SchemaDiscovery(t *testing.T) {
	env := setupWorker(t)
	ctx := context.Background()

	env.extractor.schema = sources.TableSchema{
		"id":   {Type: "bigint", Nullable: false},
		"name": {Type: "text", Nullable: true},
	}

	task, err := tasks.NewTask(tasks.KindSchemaDiscovery, tasks.SchemaDiscoveryPayload{
		Source:    sources.ConnectionConfig{Database: "orders"},
		TableName: "line_items",
	})
	require.NoError(t, err)

	env.worker.ProcessTask(ctx, tasks.QueueExtraction, task)

	status, err := env.statuses.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StateSuccess, status.State)

	var schema sources.TableSchema
	require.NoError(t, json.Unmarshal(status.Result, &schema))
	assert.Equal(t, "bigint", schema["id"].Type)
	assert.True(t, schema["name"].Nullable)
}

func TestWorker_ProcessTask_UnknownKind(t *testing.T) {
	env := setupWorker(t)
	ctx := context.Background()

	task, err := tasks.NewTask("teleport", nil)
	require.NoError(t, err)

	env.worker.ProcessTask(ctx, tasks.QueuePipeline, task)

	status, err := env.statuses.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StateFailure, status.State)
	assert.Contains(t, status.Detail, "unknown task kind")
}

func TestDestinationTable(t *testing.T) {
	source := &sources.DataSource{Name: "orders db-prod"}
	job := &jobs.ImportJob{ID: "d4f7b9a1-2c3e-4f5a-8b6c-7d8e9f0a1b2c"}

	assert.Equal(t, "orders_db_prod_d4f7b9a1", destinationTable(source, job))
}

func TestSanitizeIdentifier(t *testing.T) {
	assert.Equal(t, "orders_db", sanitizeIdentifier("orders-db"))
	assert.Equal(t, "orders_db", sanitizeIdentifier("orders db"))
	assert.Equal(t, "orders_1", sanitizeIdentifier("orders.1"))
	assert.Equal(t, "plain_name", sanitizeIdentifier("plain_name"))
}

func TestNewCleanupScheduler(t *testing.T) {
	env := setupWorker(t)

	scheduler, err := NewCleanupScheduler(env.db.ImportJobRepo, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	assert.Len(t, scheduler.Entries(), 1)
}
