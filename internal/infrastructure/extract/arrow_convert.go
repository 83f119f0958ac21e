package extract

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// columnKind is the scan/append strategy chosen for a result column.
type columnKind int

const (
	kindInt16 columnKind = iota
	kindInt32
	kindInt64
	kindFloat32
	kindFloat64
	kindBool
	kindTimestamp
	kindBytes
	kindString
)

// columnDesc is a driver-independent description of a result column.
type columnDesc struct {
	Name     string
	DBType   string
	Nullable bool
}

// describeColumns converts sql.ColumnType metadata into columnDesc values.
// Drivers that cannot report nullability get nullable columns, so NULLs are
// never lost.
func describeColumns(columnTypes []*sql.ColumnType) []columnDesc {
	descs := make([]columnDesc, len(columnTypes))
	for i, ct := range columnTypes {
		nullable, ok := ct.Nullable()
		if !ok {
			nullable = true
		}
		descs[i] = columnDesc{
			Name:     ct.Name(),
			DBType:   ct.DatabaseTypeName(),
			Nullable: nullable,
		}
	}
	return descs
}

// kindForDBType maps a PostgreSQL type name to a column kind. Types without
// a closer match are carried as strings.
func kindForDBType(dbType string) columnKind {
	switch strings.ToUpper(dbType) {
	case "INT2", "SMALLINT":
		return kindInt16
	case "INT4", "INTEGER", "SERIAL":
		return kindInt32
	case "INT8", "BIGINT", "BIGSERIAL":
		return kindInt64
	case "FLOAT4", "REAL":
		return kindFloat32
	case "FLOAT8", "DOUBLE PRECISION", "NUMERIC", "DECIMAL":
		return kindFloat64
	case "BOOL", "BOOLEAN":
		return kindBool
	case "TIMESTAMP", "TIMESTAMPTZ", "DATE":
		return kindTimestamp
	case "BYTEA":
		return kindBytes
	default:
		return kindString
	}
}

// arrowTypeForKind returns the Arrow data type a column kind maps to.
func arrowTypeForKind(kind columnKind) arrow.DataType {
	switch kind {
	case kindInt16:
		return arrow.PrimitiveTypes.Int16
	case kindInt32:
		return arrow.PrimitiveTypes.Int32
	case kindInt64:
		return arrow.PrimitiveTypes.Int64
	case kindFloat32:
		return arrow.PrimitiveTypes.Float32
	case kindFloat64:
		return arrow.PrimitiveTypes.Float64
	case kindBool:
		return arrow.FixedWidthTypes.Boolean
	case kindTimestamp:
		return arrow.FixedWidthTypes.Timestamp_us
	case kindBytes:
		return arrow.BinaryTypes.Binary
	default:
		return arrow.BinaryTypes.String
	}
}

// schemaFromColumns builds the Arrow schema and per-column kinds for a result set.
func schemaFromColumns(descs []columnDesc) (*arrow.Schema, []columnKind) {
	fields := make([]arrow.Field, len(descs))
	kinds := make([]columnKind, len(descs))

	for i, desc := range descs {
		kinds[i] = kindForDBType(desc.DBType)
		fields[i] = arrow.Field{
			Name:     desc.Name,
			Type:     arrowTypeForKind(kinds[i]),
			Nullable: desc.Nullable,
		}
	}

	return arrow.NewSchema(fields, nil), kinds
}

// newScanTargets allocates sql.Scan destinations matching the column kinds.
func newScanTargets(kinds []columnKind) []interface{} {
	targets := make([]interface{}, len(kinds))
	for i, kind := range kinds {
		switch kind {
		case kindInt16, kindInt32, kindInt64:
			targets[i] = new(sql.NullInt64)
		case kindFloat32, kindFloat64:
			targets[i] = new(sql.NullFloat64)
		case kindBool:
			targets[i] = new(sql.NullBool)
		case kindTimestamp:
			targets[i] = new(sql.NullTime)
		case kindBytes:
			targets[i] = new([]byte)
		default:
			targets[i] = new(sql.NullString)
		}
	}
	return targets
}

// appendRow appends one scanned row to the record builder.
func appendRow(builder *array.RecordBuilder, kinds []columnKind, targets []interface{}) error {
	for i, kind := range kinds {
		switch kind {
		case kindInt16:
			value := targets[i].(*sql.NullInt64)
			fieldBuilder := builder.Field(i).(*array.Int16Builder)
			if value.Valid {
				fieldBuilder.Append(int16(value.Int64))
			} else {
				fieldBuilder.AppendNull()
			}
		case kindInt32:
			value := targets[i].(*sql.NullInt64)
			fieldBuilder := builder.Field(i).(*array.Int32Builder)
			if value.Valid {
				fieldBuilder.Append(int32(value.Int64))
			} else {
				fieldBuilder.AppendNull()
			}
		case kindInt64:
			value := targets[i].(*sql.NullInt64)
			fieldBuilder := builder.Field(i).(*array.Int64Builder)
			if value.Valid {
				fieldBuilder.Append(value.Int64)
			} else {
				fieldBuilder.AppendNull()
			}
		case kindFloat32:
			value := targets[i].(*sql.NullFloat64)
			fieldBuilder := builder.Field(i).(*array.Float32Builder)
			if value.Valid {
				fieldBuilder.Append(float32(value.Float64))
			} else {
				fieldBuilder.AppendNull()
			}
		case kindFloat64:
			value := targets[i].(*sql.NullFloat64)
			fieldBuilder := builder.Field(i).(*array.Float64Builder)
			if value.Valid {
				fieldBuilder.Append(value.Float64)
			} else {
				fieldBuilder.AppendNull()
			}
		case kindBool:
			value := targets[i].(*sql.NullBool)
			fieldBuilder := builder.Field(i).(*array.BooleanBuilder)
			if value.Valid {
				fieldBuilder.Append(value.Bool)
			} else {
				fieldBuilder.AppendNull()
			}
		case kindTimestamp:
			value := targets[i].(*sql.NullTime)
			fieldBuilder := builder.Field(i).(*array.TimestampBuilder)
			if value.Valid {
				fieldBuilder.Append(arrow.Timestamp(value.Time.UTC().UnixMicro()))
			} else {
				fieldBuilder.AppendNull()
			}
		case kindBytes:
			value := targets[i].(*[]byte)
			fieldBuilder := builder.Field(i).(*array.BinaryBuilder)
			if *value != nil {
				fieldBuilder.Append(*value)
			} else {
				fieldBuilder.AppendNull()
			}
		case kindString:
			value := targets[i].(*sql.NullString)
			fieldBuilder := builder.Field(i).(*array.StringBuilder)
			if value.Valid {
				fieldBuilder.Append(value.String)
			} else {
				fieldBuilder.AppendNull()
			}
		default:
			return fmt.Errorf("unsupported column kind: %d", kind)
		}
	}
	return nil
}

// timestampToTime converts an Arrow microsecond timestamp back to time.Time.
func timestampToTime(ts arrow.Timestamp) time.Time {
	return time.UnixMicro(int64(ts)).UTC()
}
