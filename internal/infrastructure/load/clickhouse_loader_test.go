//go:build unit
// +build unit

package load

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonemendes/dw-mini/internal/pkg/testutil"
)

func TestLoad_EmptyRecordIsNoOp(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	record := builder.NewRecord()
	defer record.Release()

	// An empty record returns before any connection is used, so no live
	// ClickHouse is needed here.
	loader := &clickHouseLoader{logger: testutil.SetupTestLogger(t)}

	rows, err := loader.Load(context.Background(), record, "orders_empty", true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}
