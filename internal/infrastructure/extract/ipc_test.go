//go:build unit
// +build unit

package extract

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSampleRecord(t *testing.T) arrow.Record {
	t.Helper()

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	builder.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2, 3}, nil)
	builder.Field(1).(*array.StringBuilder).Append("alpha")
	builder.Field(1).(*array.StringBuilder).AppendNull()
	builder.Field(1).(*array.StringBuilder).Append("gamma")

	return builder.NewRecord()
}

func TestSerializeDeserializeRecord(t *testing.T) {
	record := buildSampleRecord(t)
	defer record.Release()

	data, err := SerializeRecord(record)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := DeserializeRecord(data)
	require.NoError(t, err)
	defer decoded.Release()

	assert.Equal(t, int64(3), decoded.NumRows())
	assert.True(t, record.Schema().Equal(decoded.Schema()))

	names := decoded.Column(1).(*array.String)
	assert.Equal(t, "alpha", names.Value(0))
	assert.True(t, names.IsNull(1))
	assert.Equal(t, "gamma", names.Value(2))
}

func TestDeserializeRecord_InvalidStream(t *testing.T) {
	_, err := DeserializeRecord([]byte("not an arrow stream"))
	require.Error(t, err)
}

func TestSerializeRecord_ZeroRows(t *testing.T) {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
	}, nil)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	record := builder.NewRecord()
	defer record.Release()

	data, err := SerializeRecord(record)
	require.NoError(t, err)

	decoded, err := DeserializeRecord(data)
	require.NoError(t, err)
	defer decoded.Release()

	assert.Equal(t, int64(0), decoded.NumRows())
}
