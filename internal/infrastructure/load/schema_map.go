package load

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// clickhouseTypeFor maps an Arrow data type to its ClickHouse column type.
// Types without a closer match are carried as String.
func clickhouseTypeFor(dataType arrow.DataType) string {
	switch dataType.ID() {
	case arrow.INT8:
		return "Int8"
	case arrow.INT16:
		return "Int16"
	case arrow.INT32:
		return "Int32"
	case arrow.INT64:
		return "Int64"
	case arrow.UINT8:
		return "UInt8"
	case arrow.UINT16:
		return "UInt16"
	case arrow.UINT32:
		return "UInt32"
	case arrow.UINT64:
		return "UInt64"
	case arrow.FLOAT32:
		return "Float32"
	case arrow.FLOAT64:
		return "Float64"
	case arrow.BOOL:
		return "UInt8"
	case arrow.TIMESTAMP:
		return "DateTime"
	default:
		return "String"
	}
}

// sanitizeColumnName cleans a column name for ClickHouse.
func sanitizeColumnName(name string) string {
	clean := strings.ReplaceAll(name, " ", "_")
	clean = strings.ReplaceAll(clean, "-", "_")
	return clean
}

// buildCreateTableSQL generates a CREATE TABLE statement from an Arrow schema.
// Nullable fields become Nullable(...) columns.
func buildCreateTableSQL(schema *arrow.Schema, tableName string) string {
	columns := make([]string, 0, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		field := schema.Field(i)

		columnType := clickhouseTypeFor(field.Type)
		if field.Nullable {
			columnType = fmt.Sprintf("Nullable(%s)", columnType)
		}

		columns = append(columns, fmt.Sprintf("`%s` %s", sanitizeColumnName(field.Name), columnType))
	}

	return fmt.Sprintf("CREATE TABLE %s (%s) ENGINE = MergeTree() ORDER BY tuple()",
		tableName, strings.Join(columns, ", "))
}
