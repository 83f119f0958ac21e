package models

import (
	"time"

	"github.com/leonemendes/dw-mini/internal/domain/jobs"
)

// ImportJobModel is the GORM database model for import jobs (infrastructure concern)
type ImportJobModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	DataSourceID  string `gorm:"not null;index;type:uuid"`
	Status        string `gorm:"not null;index;type:varchar(20)"`
	RowsProcessed int64  `gorm:"not null;default:0"`
	StartedAt     *time.Time
	CompletedAt   *time.Time `gorm:"index"`
}

// TableName specifies the table name for GORM
func (ImportJobModel) TableName() string {
	return "import_jobs"
}

// ToDomain converts GORM model to domain entity
func (m *ImportJobModel) ToDomain() *jobs.ImportJob {
	return &jobs.ImportJob{
		ID:            m.ID,
		DataSourceID:  m.DataSourceID,
		Status:        m.Status,
		RowsProcessed: m.RowsProcessed,
		StartedAt:     m.StartedAt,
		CompletedAt:   m.CompletedAt,
	}
}

// FromDomain converts domain entity to GORM model
func (m *ImportJobModel) FromDomain(j *jobs.ImportJob) {
	m.ID = j.ID
	m.DataSourceID = j.DataSourceID
	m.Status = j.Status
	m.RowsProcessed = j.RowsProcessed
	m.StartedAt = j.StartedAt
	m.CompletedAt = j.CompletedAt
}
