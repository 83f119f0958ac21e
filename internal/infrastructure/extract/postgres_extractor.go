package extract

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"
)

type postgresExtractor struct {
	logger logger.Logger
}

// NewPostgresExtractor creates an Extractor for PostgreSQL sources
func NewPostgresExtractor(logger logger.Logger) (sources.Extractor, error) {
	return &postgresExtractor{logger: logger}, nil
}

// ExtractToArrow runs the configured query (or a full table select) against
// the source and returns the result set as a single Arrow record.
// An empty result set yields a zero-row record, not an error.
func (e *postgresExtractor) ExtractToArrow(ctx context.Context, config sources.ConnectionConfig) (arrow.Record, error) {
	if config.Database == "" {
		return nil, fmt.Errorf("database name is required in source config")
	}

	var query string
	switch {
	case config.Query != "":
		query = config.Query
	case config.TableName != "":
		query = fmt.Sprintf("SELECT * FROM %s", config.TableName)
	default:
		return nil, fmt.Errorf("either 'query' or 'table_name' must be provided")
	}

	db, err := e.connect(config)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = db.Close()
	}()

	e.logger.Info("Executing query: ", query)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	descs := describeColumns(columnTypes)
	schema, kinds := schemaFromColumns(descs)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	targets := newScanTargets(kinds)
	for rows.Next() {
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if err := appendRow(builder, kinds, targets); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	record := builder.NewRecord()

	if record.NumRows() == 0 {
		e.logger.Warn("Query returned no results")
	} else {
		e.logger.Info("Successfully extracted ", record.NumRows(), " rows to Arrow format")
	}
	return record, nil
}

// ListTables lists all base tables in the source's public schema.
func (e *postgresExtractor) ListTables(ctx context.Context, config sources.ConnectionConfig) ([]string, error) {
	if config.Database == "" {
		return nil, fmt.Errorf("database name is required in source config")
	}

	db, err := e.connect(config)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = db.Close()
	}()

	const tablesQuery = `
	SELECT table_name
	FROM information_schema.tables
	WHERE table_schema = 'public'
	AND table_type = 'BASE TABLE'
	ORDER BY table_name;
	`

	rows, err := db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	e.logger.Info("Found ", len(tables), " tables in database")
	return tables, nil
}

// GetTableSchema retrieves column names, types and nullability for a table,
// read from information_schema in ordinal position order.
func (e *postgresExtractor) GetTableSchema(ctx context.Context, config sources.ConnectionConfig, tableName string) (sources.TableSchema, error) {
	if config.Database == "" {
		return nil, fmt.Errorf("database name is required in source config")
	}

	db, err := e.connect(config)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = db.Close()
	}()

	const schemaQuery = `
	SELECT column_name, data_type, is_nullable
	FROM information_schema.columns
	WHERE table_name = $1
	ORDER BY ordinal_position;
	`

	rows, err := db.QueryContext(ctx, schemaQuery, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to read table schema: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	schema := sources.TableSchema{}
	for rows.Next() {
		var columnName, dataType, isNullable string
		if err := rows.Scan(&columnName, &dataType, &isNullable); err != nil {
			return nil, fmt.Errorf("failed to scan column schema: %w", err)
		}
		schema[columnName] = sources.ColumnSchema{
			Type:     dataType,
			Nullable: isNullable == "YES",
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	e.logger.Info("Retrieved schema for table '", tableName, "': ", len(schema), " columns")
	return schema, nil
}

func (e *postgresExtractor) connect(config sources.ConnectionConfig) (*sql.DB, error) {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	port := config.Port
	if port == 0 {
		port = 5432
	}
	user := config.User
	if user == "" {
		user = "postgres"
	}
	password := config.Password
	if password == "" {
		password = "postgres"
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, config.Database, user, password)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	return db, nil
}
