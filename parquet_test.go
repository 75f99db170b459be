package vsv

import (
	"bytes"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestParquet writes a two column people table (name, age) as Parquet.
// The age of bob is null.
func createTestParquet(t *testing.T) []byte {
	t.Helper()

	pool := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "name", Type: arrow.BinaryTypes.String},
		{Name: "age", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}, nil)

	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	builder.Field(0).(*array.StringBuilder).AppendValues([]string{"alice", "bob"}, nil)
	builder.Field(1).(*array.Int64Builder).AppendValues([]int64{30, 0}, []bool{true, false})

	record := builder.NewRecord()
	defer record.Release()

	table := array.NewTableFromRecords(schema, []arrow.Record{record})
	defer table.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(table, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	return buf.Bytes()
}

func TestNormalizeParquet(t *testing.T) {
	t.Parallel()

	t.Run("Converts rows to CSV with a header line", func(t *testing.T) {
		t.Parallel()

		result, err := NormalizeParquet(createTestParquet(t), "people.parquet")
		require.NoError(t, err)
		require.Len(t, result.Datasets, 1)
		assert.Equal(t, "people.parquet", result.Datasets[0].Name)
		assert.Equal(t, "name,age\nalice,30\nbob,\n", string(result.Datasets[0].Data))
		assert.Equal(t, SeparatorComma, result.Separator)
		assert.True(t, result.Header)
		assert.Equal(t, FormatParquet, result.Format)
	})

	t.Run("Empty input", func(t *testing.T) {
		t.Parallel()

		result, err := NormalizeParquet(nil, "empty.parquet")
		require.ErrorIs(t, err, ErrEmptyData)
		assert.Nil(t, result)
	})

	t.Run("Not a Parquet file", func(t *testing.T) {
		t.Parallel()

		result, err := NormalizeParquet([]byte("a,b\n1,2\n"), "fake.parquet")
		require.ErrorIs(t, err, ErrInvalidData)
		assert.Nil(t, result)
	})
}

func TestArrowValueString(t *testing.T) {
	t.Parallel()

	pool := memory.NewGoAllocator()

	t.Run("Strings and nulls", func(t *testing.T) {
		t.Parallel()

		builder := array.NewStringBuilder(pool)
		defer builder.Release()
		builder.Append("hello, world")
		builder.AppendNull()
		arr := builder.NewStringArray()
		defer arr.Release()

		assert.Equal(t, "hello, world", arrowValueString(arr, 0))
		assert.Empty(t, arrowValueString(arr, 1))
	})

	t.Run("Binary", func(t *testing.T) {
		t.Parallel()

		builder := array.NewBinaryBuilder(pool, arrow.BinaryTypes.Binary)
		defer builder.Release()
		builder.Append([]byte("raw"))
		arr := builder.NewBinaryArray()
		defer arr.Release()

		assert.Equal(t, "raw", arrowValueString(arr, 0))
	})

	t.Run("Numbers", func(t *testing.T) {
		t.Parallel()

		builder := array.NewInt64Builder(pool)
		defer builder.Release()
		builder.Append(-42)
		arr := builder.NewInt64Array()
		defer arr.Release()

		assert.Equal(t, "-42", arrowValueString(arr, 0))
	})
}
