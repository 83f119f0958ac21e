//go:build unit
// +build unit

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonemendes/dw-mini/internal/domain/sources"
)

func TestDataSourceModel_ToDomain(t *testing.T) {
	sourceModel := &DataSourceModel{
		ID:               "test-id",
		Name:             "orders-db",
		SourceType:       "postgresql",
		ConnectionConfig: `{"host": "db.internal", "port": 5432, "database": "orders", "user": "reader", "password": "secret"}`,
		CreatedAt:        time.Now().UTC(),
	}

	source, err := sourceModel.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, sourceModel.ID, source.ID)
	assert.Equal(t, sourceModel.Name, source.Name)
	assert.Equal(t, sourceModel.SourceType, source.SourceType)
	assert.Equal(t, "db.internal", source.ConnectionConfig.Host)
	assert.Equal(t, 5432, source.ConnectionConfig.Port)
	assert.Equal(t, "orders", source.ConnectionConfig.Database)
	assert.Equal(t, "secret", source.ConnectionConfig.Password)
}

func TestDataSourceModel_ToDomain_MalformedConfig(t *testing.T) {
	sourceModel := &DataSourceModel{
		ID:               "test-id",
		Name:             "orders-db",
		SourceType:       "postgresql",
		ConnectionConfig: `{broken`,
		CreatedAt:        time.Now().UTC(),
	}

	_, err := sourceModel.ToDomain()
	assert.Error(t, err)
}

func TestDataSourceModel_FromDomain(t *testing.T) {
	source := &sources.DataSource{
		ID:         "test-id",
		Name:       "orders-db",
		SourceType: sources.SourceTypePostgres,
		ConnectionConfig: sources.ConnectionConfig{
			Host:      "db.internal",
			Port:      5432,
			Database:  "orders",
			TableName: "line_items",
		},
		CreatedAt: time.Now().UTC(),
	}

	sourceModel := &DataSourceModel{}
	err := sourceModel.FromDomain(source)
	require.NoError(t, err)

	assert.Equal(t, source.ID, sourceModel.ID)
	assert.Equal(t, source.Name, sourceModel.Name)
	assert.Equal(t, source.SourceType, sourceModel.SourceType)
	assert.Equal(t, source.CreatedAt, sourceModel.CreatedAt)
	assert.Contains(t, sourceModel.ConnectionConfig, `"database":"orders"`)
	assert.Contains(t, sourceModel.ConnectionConfig, `"table_name":"line_items"`)
}
