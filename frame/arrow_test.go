package frame

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrowType(t *testing.T) {
	tests := []struct {
		name   string
		values []Value
		want   arrow.DataType
	}{
		{"ints", []Value{int64(1), nil, int64(3)}, arrow.PrimitiveTypes.Int64},
		{"ints and floats", []Value{int64(1), 2.5}, arrow.PrimitiveTypes.Float64},
		{"text", []Value{"a", int64(1)}, arrow.BinaryTypes.String},
		{"all null", []Value{nil, nil}, arrow.BinaryTypes.String},
		{"empty", nil, arrow.BinaryTypes.String},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, arrow.TypeEqual(tt.want, ArrowType(tt.values)), "got %s", ArrowType(tt.values))
		})
	}
}

func TestTable_ToArrow(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tbl := mustTable(t,
		NewColumn("id", 1, 2, nil),
		NewColumn("score", 1, 2.5, nil),
		NewColumn("name", "a", 7, nil),
	)

	rec := tbl.ToArrow(mem)
	defer rec.Release()

	require.Equal(t, int64(3), rec.NumRows())
	require.Equal(t, int64(3), rec.NumCols())
	assert.Equal(t, "id", rec.ColumnName(0))

	ids := rec.Column(0).(*array.Int64)
	assert.Equal(t, int64(2), ids.Value(1))
	assert.True(t, ids.IsNull(2))

	scores := rec.Column(1).(*array.Float64)
	assert.Equal(t, 1.0, scores.Value(0))
	assert.Equal(t, 2.5, scores.Value(1))

	names := rec.Column(2).(*array.String)
	assert.Equal(t, "a", names.Value(0))
	assert.Equal(t, "7", names.Value(1))
	assert.True(t, names.IsNull(2))
}
