//go:build unit
// +build unit

package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/leonemendes/dw-mini/internal/domain/sources"
	"github.com/leonemendes/dw-mini/internal/domain/warehouse"
)

// fakeExtractor serves a canned Arrow record or error.
type fakeExtractor struct {
	record arrow.Record
	schema sources.TableSchema
	tables []string
	err    error
}

func (f *fakeExtractor) ExtractToArrow(ctx context.Context, config sources.ConnectionConfig) (arrow.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.record.Retain()
	return f.record, nil
}

func (f *fakeExtractor) ListTables(ctx context.Context, config sources.ConnectionConfig) ([]string, error) {
	return f.tables, f.err
}

func (f *fakeExtractor) GetTableSchema(ctx context.Context, config sources.ConnectionConfig, tableName string) (sources.TableSchema, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.schema, nil
}

// fakeLoader records what was loaded where.
type fakeLoader struct {
	mu          sync.Mutex
	loadedTable string
	loadedRows  int64
	err         error
}

func (f *fakeLoader) Load(ctx context.Context, record arrow.Record, tableName string, dropIfExists bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.loadedTable = tableName
	f.loadedRows = record.NumRows()
	return record.NumRows(), nil
}

func (f *fakeLoader) GetTableInfo(ctx context.Context, tableName string) (*warehouse.TableInfo, error) {
	return nil, fmt.Errorf("not implemented")
}

// memStageStore keeps stage payloads in memory.
type memStageStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStageStore() *memStageStore {
	return &memStageStore{objects: make(map[string][]byte)}
}

func (s *memStageStore) Put(ctx context.Context, taskID string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := "stages/" + taskID + ".arrow"
	s.objects[key] = data
	return key, nil
}

func (s *memStageStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("stage payload %s not found", key)
	}
	return data, nil
}

func (s *memStageStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
