package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/leonemendes/dw-mini/internal/domain/events"
	"github.com/leonemendes/dw-mini/internal/infrastructure/persistence/models"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormEventRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormEventRepository creates a new GORM-based EventRepository implementation
func NewGormEventRepository(db *gorm.DB, logger logger.Logger) (events.EventRepository, error) {
	return &gormEventRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormEventRepository) Create(ctx context.Context, event *events.Event) error {
	// Validate domain entity (business rules)
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	// Convert to GORM model
	model := &models.EventModel{}
	if err := model.FromDomain(event); err != nil {
		return err
	}

	// Persist to database
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.logger.Info("Created event with id ", event.ID)
	return nil
}

func (r *gormEventRepository) List(ctx context.Context, query *events.EventQuery) ([]*events.Event, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.EventModel
	dbQuery := r.db.WithContext(ctx).Model(&models.EventModel{})

	// Apply filters
	if query.Name != "" {
		dbQuery = dbQuery.Where("name LIKE ?", "%"+query.Name+"%")
	}
	if query.UserID > 0 {
		dbQuery = dbQuery.Where("user_id = ?", query.UserID)
	}

	// Always newest first
	dbQuery = dbQuery.Order("timestamp desc")

	// Pagination
	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	// Convert to domain models
	domainList := make([]*events.Event, len(modelList))
	for i, model := range modelList {
		event, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		domainList[i] = event
	}

	return domainList, nil
}

func (r *gormEventRepository) GetByID(ctx context.Context, eventID string) (*events.Event, error) {
	var model models.EventModel
	if err := r.db.WithContext(ctx).Where("id = ?", eventID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event with ID %s not found", eventID)
		}
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}
	return model.ToDomain()
}

func (r *gormEventRepository) DeleteByID(ctx context.Context, eventID string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", eventID).Delete(&models.EventModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	r.logger.Info("Deleted event with id ", eventID)
	return nil
}
