package jobs

import (
	"context"
	"time"
)

// ImportJobRepository defines the interface for ImportJob-related persistence operations
type ImportJobRepository interface {
	// Create adds a new ImportJob to the database
	Create(ctx context.Context, job *ImportJob) error
	// UpdateByID updates an ImportJob in the database by ID
	UpdateByID(ctx context.Context, job *ImportJob) error
	// GetByID retrieves an ImportJob from the database by ID
	GetByID(ctx context.Context, jobID string) (*ImportJob, error)
	// ListByStatus lists ImportJobs with the given status
	ListByStatus(ctx context.Context, status string) ([]*ImportJob, error)
	// DeleteCompletedBefore deletes jobs completed before the cutoff and
	// returns the number of deleted rows
	DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
