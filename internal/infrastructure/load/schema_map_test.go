//go:build unit
// +build unit

package load

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
)

func TestClickhouseTypeFor(t *testing.T) {
	tests := []struct {
		name     string
		dataType arrow.DataType
		expected string
	}{
		{"Int16", arrow.PrimitiveTypes.Int16, "Int16"},
		{"Int32", arrow.PrimitiveTypes.Int32, "Int32"},
		{"Int64", arrow.PrimitiveTypes.Int64, "Int64"},
		{"Float32", arrow.PrimitiveTypes.Float32, "Float32"},
		{"Float64", arrow.PrimitiveTypes.Float64, "Float64"},
		{"Boolean maps to UInt8", arrow.FixedWidthTypes.Boolean, "UInt8"},
		{"Timestamp maps to DateTime", arrow.FixedWidthTypes.Timestamp_us, "DateTime"},
		{"String", arrow.BinaryTypes.String, "String"},
		{"Binary carried as String", arrow.BinaryTypes.Binary, "String"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clickhouseTypeFor(tt.dataType))
		})
	}
}

func TestSanitizeColumnName(t *testing.T) {
	assert.Equal(t, "order_id", sanitizeColumnName("order_id"))
	assert.Equal(t, "order_id", sanitizeColumnName("order id"))
	assert.Equal(t, "order_id", sanitizeColumnName("order-id"))
}

func TestBuildCreateTableSQL(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "created at", Type: arrow.FixedWidthTypes.Timestamp_us, Nullable: true},
	}, nil)

	sql := buildCreateTableSQL(schema, "orders_abc123")

	assert.Equal(t,
		"CREATE TABLE orders_abc123 (`id` Int64, `name` Nullable(String), `created_at` Nullable(DateTime)) ENGINE = MergeTree() ORDER BY tuple()",
		sql)
}
