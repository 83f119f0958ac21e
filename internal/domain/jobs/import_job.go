package jobs

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Import job status constants
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ImportJob entity: one tracked run of the extract/load pipeline for a data source
type ImportJob struct {
	ID            string `validate:"required,uuid4"`
	DataSourceID  string `validate:"required,uuid4"`
	Status        string `validate:"required,oneof=pending running success failed"`
	RowsProcessed int64  `validate:"omitempty,min=0"`
	StartedAt     *time.Time
	CompletedAt   *time.Time
}

// Validate for validating ImportJob struct
func (j *ImportJob) Validate() error {
	validate := validator.New()

	err := validate.Struct(j)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// Terminal reports whether the job reached a final state.
func (j *ImportJob) Terminal() bool {
	return j.Status == StatusSuccess || j.Status == StatusFailed
}
