package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/infrastructure/persistence/models"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormDataSourceRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormDataSourceRepository creates a new GORM-based DataSourceRepository implementation
func NewGormDataSourceRepository(db *gorm.DB, logger logger.Logger) (sources.DataSourceRepository, error) {
	return &gormDataSourceRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormDataSourceRepository) Create(ctx context.Context, source *sources.DataSource) error {
	if err := source.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.DataSourceModel{}
	if err := model.FromDomain(source); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}

	r.logger.Info("Created data source with id ", source.ID)
	return nil
}

func (r *gormDataSourceRepository) List(ctx context.Context) ([]*sources.DataSource, error) {
	var modelList []*models.DataSourceModel
	if err := r.db.WithContext(ctx).Model(&models.DataSourceModel{}).
		Order("created_at desc").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch data sources: %w", err)
	}

	domainList := make([]*sources.DataSource, len(modelList))
	for i, model := range modelList {
		source, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		domainList[i] = source
	}

	return domainList, nil
}

func (r *gormDataSourceRepository) GetByID(ctx context.Context, sourceID string) (*sources.DataSource, error) {
	var model models.DataSourceModel
	if err := r.db.WithContext(ctx).Where("id = ?", sourceID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("data source with ID %s not found", sourceID)
		}
		return nil, fmt.Errorf("failed to fetch data source: %w", err)
	}
	return model.ToDomain()
}

func (r *gormDataSourceRepository) DeleteByID(ctx context.Context, sourceID string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", sourceID).Delete(&models.DataSourceModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete data source: %w", err)
	}

	r.logger.Info("Deleted data source with id ", sourceID)
	return nil
}
