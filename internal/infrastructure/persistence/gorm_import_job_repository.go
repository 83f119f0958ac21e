package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leonemendes/dw-mini/internal/domain/jobs"
	"github.com/leonemendes/dw-mini/internal/infrastructure/persistence/models"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormImportJobRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormImportJobRepository creates a new GORM-based ImportJobRepository implementation
func NewGormImportJobRepository(db *gorm.DB, logger logger.Logger) (jobs.ImportJobRepository, error) {
	return &gormImportJobRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormImportJobRepository) Create(ctx context.Context, job *jobs.ImportJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ImportJobModel{}
	model.FromDomain(job)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create import job: %w", err)
	}

	r.logger.Info("Created import job with id ", job.ID)
	return nil
}

func (r *gormImportJobRepository) UpdateByID(ctx context.Context, job *jobs.ImportJob) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.ImportJobModel{}
	model.FromDomain(job)

	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to update import job: %w", err)
	}

	r.logger.Info("Updated import job with id ", job.ID)
	return nil
}

func (r *gormImportJobRepository) GetByID(ctx context.Context, jobID string) (*jobs.ImportJob, error) {
	var model models.ImportJobModel
	if err := r.db.WithContext(ctx).Where("id = ?", jobID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("import job with ID %s not found", jobID)
		}
		return nil, fmt.Errorf("failed to fetch import job: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormImportJobRepository) ListByStatus(ctx context.Context, status string) ([]*jobs.ImportJob, error) {
	var modelList []*models.ImportJobModel
	if err := r.db.WithContext(ctx).Model(&models.ImportJobModel{}).
		Where("status = ?", status).Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch import jobs: %w", err)
	}

	domainList := make([]*jobs.ImportJob, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormImportJobRepository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("completed_at IS NOT NULL AND completed_at < ?", cutoff).
		Delete(&models.ImportJobModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old import jobs: %w", result.Error)
	}

	r.logger.Info("Cleaned up ", result.RowsAffected, " old import jobs")
	return result.RowsAffected, nil
}
