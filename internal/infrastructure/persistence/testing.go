//go:build unit || integration

package persistence

import (
	"strings"
	"testing"
	"time"

	"github.com/leonemendes/dw-mini/internal/domain/events"
	"github.com/leonemendes/dw-mini/internal/domain/jobs"
	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/infrastructure/persistence/models"
	"github.com/leonemendes/dw-mini/internal/pkg/config"
	"github.com/leonemendes/dw-mini/internal/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestContext holds test database and repositories
type TestContext struct {
	DB            *gorm.DB
	EventRepo     events.EventRepository
	SourceRepo    sources.DataSourceRepository
	ImportJobRepo jobs.ImportJobRepository
}

// SetupTestDB initializes a test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	var cleanupFunc func()

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}
		cleanupFunc = func() {
			// SQLite in-memory cleanup is automatic
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type:   config.PostgresDbType,
			DSN:    "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			DBName: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	// Create connection
	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	// Register cleanup
	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	// Migrate schema
	err = db.AutoMigrate(&models.EventModel{}, &models.DataSourceModel{}, &models.ImportJobModel{})
	require.NoError(t, err, "Failed to migrate schema")

	// Create repositories
	log := testutil.SetupTestLogger(t)

	eventRepo, err := NewGormEventRepository(db, log)
	require.NoError(t, err, "Failed to create event repository")

	sourceRepo, err := NewGormDataSourceRepository(db, log)
	require.NoError(t, err, "Failed to create data source repository")

	importJobRepo, err := NewGormImportJobRepository(db, log)
	require.NoError(t, err, "Failed to create import job repository")

	return &TestContext{
		DB:            db,
		EventRepo:     eventRepo,
		SourceRepo:    sourceRepo,
		ImportJobRepo: importJobRepo,
	}
}

// CreateTestEvent creates a test event with default values
func CreateTestEvent(t *testing.T, name string) *events.Event {
	t.Helper()

	if name == "" {
		name = "test_event"
	}

	return &events.Event{
		ID:         uuid.NewString(),
		Name:       name,
		UserID:     123,
		Properties: map[string]interface{}{"action": "click"},
		Timestamp:  time.Now().UTC(),
	}
}

// CreateTestDataSource creates a test data source with default values
func CreateTestDataSource(t *testing.T, name string) *sources.DataSource {
	t.Helper()

	if name == "" {
		name = "test-source"
	}

	return &sources.DataSource{
		ID:         uuid.NewString(),
		Name:       name,
		SourceType: sources.SourceTypePostgres,
		ConnectionConfig: sources.ConnectionConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "backend_db",
			User:     "postgres",
			Password: "postgres",
			Query:    "SELECT 1 as id, 'test' as name",
		},
		CreatedAt: time.Now().UTC(),
	}
}

// CreateTestImportJob creates a test import job for the given data source
func CreateTestImportJob(t *testing.T, source *sources.DataSource, status string) *jobs.ImportJob {
	t.Helper()

	now := time.Now().UTC()
	return &jobs.ImportJob{
		ID:           uuid.NewString(),
		DataSourceID: source.ID,
		Status:       status,
		StartedAt:    &now,
	}
}
