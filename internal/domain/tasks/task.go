package tasks

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/leonemendes/dw-mini/internal/domain/sources"
)

// Task kind constants
const (
	KindExtract         = "extract"
	KindLoad            = "load"
	KindPipeline        = "pipeline"
	KindSchemaDiscovery = "schema_discovery"
)

// Queue name constants. Each kind of work is routed to its own queue so
// extraction, loading and full pipeline runs can be scaled independently.
const (
	QueueExtraction = "extraction"
	QueueLoading    = "loading"
	QueuePipeline   = "pipeline"
)

// Task state constants
const (
	StatePending  = "PENDING"
	StateStarted  = "STARTED"
	StateProgress = "PROGRESS"
	StateRetry    = "RETRY"
	StateSuccess  = "SUCCESS"
	StateFailure  = "FAILURE"
)

// MaxRetries is the retry budget for a failing task before it is marked FAILURE.
const MaxRetries = 3

// ResultExpiry is how long task statuses and results are kept in the status store.
const ResultExpiry = time.Hour

// Task is the envelope put on a queue for asynchronous execution.
type Task struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	Retries    int             `json:"retries"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// NewTask creates a task envelope with a fresh ID for the given kind and payload.
func NewTask(kind string, payload interface{}) (*Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Task{
		ID:         uuid.NewString(),
		Kind:       kind,
		Payload:    raw,
		Retries:    0,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

// QueueForKind returns the queue a task kind is routed to.
func QueueForKind(kind string) string {
	switch kind {
	case KindExtract, KindSchemaDiscovery:
		return QueueExtraction
	case KindLoad:
		return QueueLoading
	default:
		return QueuePipeline
	}
}

// Status records the observable state of a task, kept in the status store
// until ResultExpiry passes.
type Status struct {
	TaskID    string          `json:"task_id"`
	State     string          `json:"state"`
	Detail    string          `json:"detail,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PipelinePayload starts a full extract/load run for a registered data source.
type PipelinePayload struct {
	SourceID string `json:"source_id"`
}

// ExtractPayload extracts from a source database and stages the result.
// TargetTable names the destination table a follow-up load should write to.
type ExtractPayload struct {
	Source      sources.ConnectionConfig `json:"source"`
	TargetTable string                   `json:"target_table"`
}

// LoadPayload loads a staged Arrow payload into the analytics store.
type LoadPayload struct {
	StageKey     string `json:"stage_key"`
	TableName    string `json:"table_name"`
	DropIfExists bool   `json:"drop_if_exists"`
}

// SchemaDiscoveryPayload discovers the schema of a single source table.
type SchemaDiscoveryPayload struct {
	Source    sources.ConnectionConfig `json:"source"`
	TableName string                   `json:"table_name"`
}

// ExtractResult is recorded as the result of an extract task.
type ExtractResult struct {
	RowsExtracted int64  `json:"rows_extracted"`
	Columns       int    `json:"columns"`
	StageKey      string `json:"stage_key"`
	Schema        string `json:"schema"`
}

// LoadResult is recorded as the result of a load task.
type LoadResult struct {
	TableName  string `json:"table_name"`
	RowsLoaded int64  `json:"rows_loaded"`
}

// PipelineResult is recorded as the result of a full pipeline task.
type PipelineResult struct {
	JobID         string `json:"job_id"`
	TableName     string `json:"table_name"`
	RowsProcessed int64  `json:"rows_processed"`
}
