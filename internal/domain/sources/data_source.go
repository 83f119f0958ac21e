package sources

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Source type constants
const (
	SourceTypePostgres = "postgresql"
)

// ConnectionConfig holds connection and selection parameters for a source database.
// Either Query or TableName must be set for extraction.
type ConnectionConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Database  string `json:"database" validate:"required"`
	User      string `json:"user"`
	Password  string `json:"password"`
	TableName string `json:"table_name,omitempty"`
	Query     string `json:"query,omitempty"`
}

// Validate checks that the connection config carries the required fields
func (c *ConnectionConfig) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed for ConnectionConfig: %w", err)
	}

	return nil
}

// DataSource entity: a configured upstream database to extract from
type DataSource struct {
	ID               string           `validate:"required,uuid4"`
	Name             string           `validate:"required,min=1,max=100"`
	SourceType       string           `validate:"required,oneof=postgresql"`
	ConnectionConfig ConnectionConfig `validate:"required"`
	CreatedAt        time.Time        `validate:"required"`
}

// Validate for validating DataSource struct
func (s *DataSource) Validate() error {
	validate := validator.New()

	err := validate.Struct(s)
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

// ColumnSchema describes a single column of a source table
type ColumnSchema struct {
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// TableSchema maps column names to their schema, in no particular order
type TableSchema map[string]ColumnSchema
