package load

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/leonemendes/dw-mini/internal/domain/warehouse"
	"github.com/leonemendes/dw-mini/internal/pkg/config"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"
)

type clickHouseLoader struct {
	conn     driver.Conn
	database string
	logger   logger.Logger
}

// NewClickHouseLoader connects to ClickHouse over the native protocol and
// verifies connectivity before returning the Loader.
func NewClickHouseLoader(ctx context.Context, settings *config.ClickHouseSettings, log logger.Logger) (warehouse.Loader, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", settings.Host, settings.Port)},
		Auth: clickhouse.Auth{
			Database: settings.Database,
			Username: settings.User,
			Password: settings.Password,
		},
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test connection
	if err := conn.Exec(ctx, "SELECT 1"); err != nil {
		return nil, fmt.Errorf("ClickHouse connectivity check failed: %w", err)
	}
	log.Info("Connected to ClickHouse at ", settings.Host, ":", settings.Port)

	return &clickHouseLoader{
		conn:     conn,
		database: settings.Database,
		logger:   log,
	}, nil
}

// Load creates the destination table from the record's schema and inserts all
// rows. It returns the verified row count of the destination table.
func (l *clickHouseLoader) Load(ctx context.Context, record arrow.Record, tableName string, dropIfExists bool) (int64, error) {
	if record.NumRows() == 0 {
		l.logger.Warn("Arrow record is empty, skipping load to ", tableName)
		return 0, nil
	}

	if dropIfExists {
		if err := l.conn.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)); err != nil {
			return 0, fmt.Errorf("failed to drop table %s: %w", tableName, err)
		}
		l.logger.Info("Dropped existing table: ", tableName)
	}

	createSQL := buildCreateTableSQL(record.Schema(), tableName)
	if err := l.conn.Exec(ctx, createSQL); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}
	l.logger.Info("Created table: ", tableName)

	batch, err := l.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s", tableName))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert batch: %w", err)
	}

	numCols := int(record.NumCols())
	for row := 0; row < int(record.NumRows()); row++ {
		values := make([]interface{}, numCols)
		for col := 0; col < numCols; col++ {
			value, err := columnValue(record.Column(col), row)
			if err != nil {
				return 0, fmt.Errorf("column %s: %w", record.ColumnName(col), err)
			}
			values[col] = value
		}
		if err := batch.Append(values...); err != nil {
			return 0, fmt.Errorf("failed to append row %d: %w", row, err)
		}
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send insert batch: %w", err)
	}

	// Verify insertion
	var rowCount uint64
	if err := l.conn.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)).Scan(&rowCount); err != nil {
		return 0, fmt.Errorf("failed to verify row count: %w", err)
	}

	l.logger.Info("Successfully loaded ", rowCount, " rows into ", tableName)
	return int64(rowCount), nil
}

// GetTableInfo retrieves schema, row count and approximate size for a table.
func (l *clickHouseLoader) GetTableInfo(ctx context.Context, tableName string) (*warehouse.TableInfo, error) {
	rows, err := l.conn.Query(ctx, fmt.Sprintf("DESCRIBE TABLE %s", tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", tableName, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var columns []warehouse.TableColumn
	for rows.Next() {
		var name, columnType, defaultType, defaultExpression, comment, codec, ttl string
		if err := rows.Scan(&name, &columnType, &defaultType, &defaultExpression, &comment, &codec, &ttl); err != nil {
			return nil, fmt.Errorf("failed to scan table description: %w", err)
		}
		columns = append(columns, warehouse.TableColumn{
			Name:              name,
			Type:              columnType,
			DefaultType:       defaultType,
			DefaultExpression: defaultExpression,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	var rowCount uint64
	if err := l.conn.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)).Scan(&rowCount); err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	tableSize := "Unknown"
	sizeQuery := `
	SELECT formatReadableSize(sum(bytes_on_disk)) as size
	FROM system.parts
	WHERE table = ? AND database = ?
	`
	if err := l.conn.QueryRow(ctx, sizeQuery, tableName, l.database).Scan(&tableSize); err != nil {
		l.logger.Warn("Failed to read table size for ", tableName, ": ", err)
	}

	return &warehouse.TableInfo{
		TableName: tableName,
		Columns:   columns,
		RowCount:  rowCount,
		TableSize: tableSize,
	}, nil
}

// columnValue extracts the native Go value for one cell of an Arrow column.
// NULL cells yield nil, matching ClickHouse Nullable column semantics.
func columnValue(column arrow.Array, row int) (interface{}, error) {
	if column.IsNull(row) {
		return nil, nil
	}

	switch col := column.(type) {
	case *array.Int8:
		return col.Value(row), nil
	case *array.Int16:
		return col.Value(row), nil
	case *array.Int32:
		return col.Value(row), nil
	case *array.Int64:
		return col.Value(row), nil
	case *array.Uint8:
		return col.Value(row), nil
	case *array.Uint16:
		return col.Value(row), nil
	case *array.Uint32:
		return col.Value(row), nil
	case *array.Uint64:
		return col.Value(row), nil
	case *array.Float32:
		return col.Value(row), nil
	case *array.Float64:
		return col.Value(row), nil
	case *array.Boolean:
		// Booleans land in UInt8 columns
		if col.Value(row) {
			return uint8(1), nil
		}
		return uint8(0), nil
	case *array.Timestamp:
		return time.UnixMicro(int64(col.Value(row))).UTC(), nil
	case *array.Binary:
		return string(col.Value(row)), nil
	case *array.String:
		return col.Value(row), nil
	default:
		return nil, fmt.Errorf("unsupported Arrow column type: %s", column.DataType())
	}
}
