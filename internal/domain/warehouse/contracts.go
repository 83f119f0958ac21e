package warehouse

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
)

// TableColumn describes one column of a warehouse table.
type TableColumn struct {
	Name              string `json:"name"`
	Type              string `json:"type"`
	DefaultType       string `json:"default_type,omitempty"`
	DefaultExpression string `json:"default_expression,omitempty"`
}

// TableInfo describes a warehouse table: its columns, row count and
// approximate on-disk size.
type TableInfo struct {
	TableName string        `json:"table_name"`
	Columns   []TableColumn `json:"columns"`
	RowCount  uint64        `json:"row_count"`
	TableSize string        `json:"table_size"`
}

// Loader writes Arrow records into the analytics store.
type Loader interface {
	// Load creates the destination table from the record's schema (dropping
	// any existing table when dropIfExists is set) and inserts all rows.
	// It returns the verified row count of the destination table.
	// Zero-row records are a successful no-op.
	Load(ctx context.Context, record arrow.Record, tableName string, dropIfExists bool) (int64, error)

	// GetTableInfo retrieves schema, row count and size information for a table.
	GetTableInfo(ctx context.Context, tableName string) (*TableInfo, error)
}
