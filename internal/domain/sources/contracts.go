package sources

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
)

// SourceService defines the application operations over data sources.
type SourceService interface {
	// Create registers a new data source configuration.
	Create(ctx context.Context, source *DataSource) (*DataSource, error)

	// List retrieves all registered data sources.
	List(ctx context.Context) ([]*DataSource, error)

	// GetByID retrieves a data source by ID.
	GetByID(ctx context.Context, sourceID string) (*DataSource, error)

	// DeleteByID removes a data source configuration by ID.
	DeleteByID(ctx context.Context, sourceID string) error

	// ListTables lists tables available in the source database.
	ListTables(ctx context.Context, sourceID string) ([]string, error)

	// GetTableSchema retrieves schema information for a table of the source database.
	GetTableSchema(ctx context.Context, sourceID string, tableName string) (TableSchema, error)
}

// DataSourceRepository defines the interface for DataSource-related persistence operations
type DataSourceRepository interface {
	// Create adds a new DataSource to the database
	Create(ctx context.Context, source *DataSource) error
	// List lists DataSources in the database
	List(ctx context.Context) ([]*DataSource, error)
	// GetByID retrieves a DataSource from the database by ID
	GetByID(ctx context.Context, sourceID string) (*DataSource, error)
	// DeleteByID deletes a DataSource in the database by ID
	DeleteByID(ctx context.Context, sourceID string) error
}

// Extractor reads data out of a source database into Arrow records.
type Extractor interface {
	// ExtractToArrow runs the configured query (or a full table select) against
	// the source and returns the result set as a single Arrow record.
	ExtractToArrow(ctx context.Context, config ConnectionConfig) (arrow.Record, error)

	// ListTables lists all base tables in the source's public schema.
	ListTables(ctx context.Context, config ConnectionConfig) ([]string, error)

	// GetTableSchema retrieves column names, types and nullability for a table.
	GetTableSchema(ctx context.Context, config ConnectionConfig, tableName string) (TableSchema, error)
}
