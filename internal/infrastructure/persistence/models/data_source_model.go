package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/leonemendes/dw-mini/internal/domain/sources"
)

// DataSourceModel is the GORM database model for data sources (infrastructure concern)
type DataSourceModel struct {
	ID               string    `gorm:"primaryKey;type:uuid"`
	Name             string    `gorm:"not null;uniqueIndex;type:varchar(100)"`
	SourceType       string    `gorm:"not null;type:varchar(50)"`
	ConnectionConfig string    `gorm:"not null;type:jsonb"`
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (DataSourceModel) TableName() string {
	return "data_sources"
}

// ToDomain converts GORM model to domain entity
func (m *DataSourceModel) ToDomain() (*sources.DataSource, error) {
	var config sources.ConnectionConfig
	if err := json.Unmarshal([]byte(m.ConnectionConfig), &config); err != nil {
		return nil, fmt.Errorf("failed to decode connection config: %w", err)
	}

	return &sources.DataSource{
		ID:               m.ID,
		Name:             m.Name,
		SourceType:       m.SourceType,
		ConnectionConfig: config,
		CreatedAt:        m.CreatedAt,
	}, nil
}

// FromDomain converts domain entity to GORM model
func (m *DataSourceModel) FromDomain(s *sources.DataSource) error {
	raw, err := json.Marshal(s.ConnectionConfig)
	if err != nil {
		return fmt.Errorf("failed to encode connection config: %w", err)
	}

	m.ID = s.ID
	m.Name = s.Name
	m.SourceType = s.SourceType
	m.ConnectionConfig = string(raw)
	m.CreatedAt = s.CreatedAt
	return nil
}
