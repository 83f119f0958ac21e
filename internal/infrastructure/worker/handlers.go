package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leonemendes/dw-mini/internal/domain/jobs"
	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/domain/tasks"
	"github.com/leonemendes/dw-mini/internal/infrastructure/extract"
)

// handlePipeline runs the complete extract -> load pipeline for a data
// source, tracking the run in an import job record.
func (w *Worker) handlePipeline(ctx context.Context, task *tasks.Task, payload tasks.PipelinePayload) (*tasks.PipelineResult, error) {
	source, err := w.sourceRepo.GetByID(ctx, payload.SourceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &jobs.ImportJob{
		ID:           uuid.NewString(),
		DataSourceID: source.ID,
		Status:       jobs.StatusRunning,
		StartedAt:    &now,
	}
	if err := w.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	w.logger.Info("Starting full pipeline for source: ", source.Name)
	w.setState(ctx, task.ID, tasks.StateProgress, "Starting extraction phase", nil)

	record, err := w.extractor.ExtractToArrow(ctx, source.ConnectionConfig)
	if err != nil {
		w.failJob(ctx, job)
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	defer record.Release()

	w.setState(ctx, task.ID, tasks.StateProgress, "Starting load phase", nil)

	tableName := destinationTable(source, job)
	if _, err := w.loader.Load(ctx, record, tableName, true); err != nil {
		w.failJob(ctx, job)
		return nil, fmt.Errorf("load failed: %w", err)
	}

	completed := time.Now().UTC()
	job.Status = jobs.StatusSuccess
	job.RowsProcessed = record.NumRows()
	job.CompletedAt = &completed
	if err := w.jobRepo.UpdateByID(ctx, job); err != nil {
		return nil, err
	}

	w.logger.Info("Pipeline completed successfully for ", source.Name)

	return &tasks.PipelineResult{
		JobID:         job.ID,
		TableName:     tableName,
		RowsProcessed: record.NumRows(),
	}, nil
}

// handleExtract extracts from a source and stages the result as an Arrow IPC
// stream. When a target table is named, a follow-up load task is queued.
func (w *Worker) handleExtract(ctx context.Context, task *tasks.Task, payload tasks.ExtractPayload) (*tasks.ExtractResult, error) {
	w.setState(ctx, task.ID, tasks.StateProgress, "Connecting to source database", nil)

	record, err := w.extractor.ExtractToArrow(ctx, payload.Source)
	if err != nil {
		return nil, err
	}
	defer record.Release()

	w.setState(ctx, task.ID, tasks.StateProgress,
		fmt.Sprintf("Extracted %d rows", record.NumRows()), nil)

	data, err := extract.SerializeRecord(record)
	if err != nil {
		return nil, err
	}

	stageKey, err := w.stages.Put(ctx, task.ID, data)
	if err != nil {
		return nil, err
	}

	if payload.TargetTable != "" {
		loadTask, err := tasks.NewTask(tasks.KindLoad, tasks.LoadPayload{
			StageKey:     stageKey,
			TableName:    payload.TargetTable,
			DropIfExists: true,
		})
		if err != nil {
			return nil, err
		}
		if err := w.taskQueue.Enqueue(ctx, tasks.QueueLoading, loadTask); err != nil {
			return nil, err
		}
	}

	return &tasks.ExtractResult{
		RowsExtracted: record.NumRows(),
		Columns:       int(record.NumCols()),
		StageKey:      stageKey,
		Schema:        record.Schema().String(),
	}, nil
}

// handleLoad fetches a staged Arrow payload and loads it into the analytics
// store, cleaning up the stage object on success.
func (w *Worker) handleLoad(ctx context.Context, task *tasks.Task, payload tasks.LoadPayload) (*tasks.LoadResult, error) {
	w.setState(ctx, task.ID, tasks.StateProgress, "Deserializing Arrow data", nil)

	data, err := w.stages.Get(ctx, payload.StageKey)
	if err != nil {
		return nil, err
	}

	record, err := extract.DeserializeRecord(data)
	if err != nil {
		return nil, err
	}
	defer record.Release()

	w.setState(ctx, task.ID, tasks.StateProgress,
		fmt.Sprintf("Loading %d rows to ClickHouse", record.NumRows()), nil)

	rowsLoaded, err := w.loader.Load(ctx, record, payload.TableName, payload.DropIfExists)
	if err != nil {
		return nil, err
	}

	if err := w.stages.Delete(ctx, payload.StageKey); err != nil {
		w.logger.Warn("Failed to delete stage payload ", payload.StageKey, ": ", err)
	}

	return &tasks.LoadResult{
		TableName:  payload.TableName,
		RowsLoaded: rowsLoaded,
	}, nil
}

// handleSchemaDiscovery discovers a table's schema; the schema itself is the
// task result.
func (w *Worker) handleSchemaDiscovery(ctx context.Context, task *tasks.Task, payload tasks.SchemaDiscoveryPayload) (sources.TableSchema, error) {
	schema, err := w.extractor.GetTableSchema(ctx, payload.Source, payload.TableName)
	if err != nil {
		return nil, err
	}

	w.logger.Info("Discovered schema for ", payload.TableName, ": ", len(schema), " columns")
	return schema, nil
}

func (w *Worker) failJob(ctx context.Context, job *jobs.ImportJob) {
	completed := time.Now().UTC()
	job.Status = jobs.StatusFailed
	job.CompletedAt = &completed
	if err := w.jobRepo.UpdateByID(ctx, job); err != nil {
		w.logger.Error("Failed to mark job ", job.ID, " as failed: ", err)
	}
}

// destinationTable derives the ClickHouse table name for a pipeline run.
// ClickHouse identifiers exclude dashes, so source name and job ID are
// sanitized.
func destinationTable(source *sources.DataSource, job *jobs.ImportJob) string {
	name := sanitizeIdentifier(source.Name)
	// First UUID segment is enough to keep runs apart
	suffix := strings.SplitN(job.ID, "-", 2)[0]
	return fmt.Sprintf("%s_%s", name, suffix)
}

func sanitizeIdentifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
