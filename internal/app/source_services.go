package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"
)

// sourceService implements the SourceService interface for data source management
type sourceService struct {
	sourceRepo sources.DataSourceRepository
	extractor  sources.Extractor
	logger     logger.Logger
}

// NewSourceService creates a new instance of SourceService
func NewSourceService(sourceRepo sources.DataSourceRepository, extractor sources.Extractor, logger logger.Logger) (sources.SourceService, error) {
	return &sourceService{
		sourceRepo: sourceRepo,
		extractor:  extractor,
		logger:     logger,
	}, nil
}

// Create registers a new data source configuration.
func (s *sourceService) Create(ctx context.Context, source *sources.DataSource) (*sources.DataSource, error) {
	if source.ID == "" {
		source.ID = uuid.NewString()
	}
	if source.SourceType == "" {
		source.SourceType = sources.SourceTypePostgres
	}
	if source.CreatedAt.IsZero() {
		source.CreatedAt = time.Now().UTC()
	}

	if err := s.sourceRepo.Create(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to create data source: %w", err)
	}

	return source, nil
}

// List retrieves all registered data sources.
func (s *sourceService) List(ctx context.Context) ([]*sources.DataSource, error) {
	return s.sourceRepo.List(ctx)
}

// GetByID retrieves a data source by ID.
func (s *sourceService) GetByID(ctx context.Context, sourceID string) (*sources.DataSource, error) {
	return s.sourceRepo.GetByID(ctx, sourceID)
}

// DeleteByID removes a data source configuration by ID.
func (s *sourceService) DeleteByID(ctx context.Context, sourceID string) error {
	if _, err := s.sourceRepo.GetByID(ctx, sourceID); err != nil {
		return err
	}

	if err := s.sourceRepo.DeleteByID(ctx, sourceID); err != nil {
		return fmt.Errorf("failed to delete data source: %w", err)
	}

	return nil
}

// ListTables lists tables available in the source database.
func (s *sourceService) ListTables(ctx context.Context, sourceID string) ([]string, error) {
	source, err := s.sourceRepo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	return s.extractor.ListTables(ctx, source.ConnectionConfig)
}

// GetTableSchema retrieves schema information for a table of the source database.
func (s *sourceService) GetTableSchema(ctx context.Context, sourceID string, tableName string) (sources.TableSchema, error) {
	source, err := s.sourceRepo.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	return s.extractor.GetTableSchema(ctx, source.ConnectionConfig, tableName)
}
