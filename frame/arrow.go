package frame

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ArrowType returns the Arrow type used for a column: int64 when every
// non-null value is an int, float64 when values are numeric with at least
// one float, and utf8 otherwise. Text cells of mixed columns are rendered
// with FormatValue.
func ArrowType(values []Value) arrow.DataType {
	ints, floats, other := 0, 0, 0
	for _, v := range values {
		switch KindOf(Normalize(v)) {
		case KindNull:
		case KindInt:
			ints++
		case KindFloat:
			floats++
		default:
			other++
		}
	}
	switch {
	case other > 0 || ints+floats == 0:
		return arrow.BinaryTypes.String
	case floats > 0:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.PrimitiveTypes.Int64
	}
}

// ArrowSchema describes t as an Arrow schema. Every field is nullable.
func (t *Table) ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, t.NumColumns())
	for c := range fields {
		col := t.columnAt(c)
		fields[c] = arrow.Field{Name: col.Name, Type: ArrowType(col.Values), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// ToArrow copies t into a single Arrow record. The caller owns the record
// and must Release it. A nil allocator selects the Go allocator.
func (t *Table) ToArrow(mem memory.Allocator) arrow.Record {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	schema := t.ArrowSchema()
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for c := 0; c < t.NumColumns(); c++ {
		values := t.columnAt(c).Values
		switch fb := b.Field(c).(type) {
		case *array.Int64Builder:
			fb.Reserve(len(values))
			for _, v := range values {
				if n, ok := Normalize(v).(int64); ok {
					fb.Append(n)
				} else {
					fb.AppendNull()
				}
			}
		case *array.Float64Builder:
			fb.Reserve(len(values))
			for _, v := range values {
				if f, ok := toFloat64(v); ok {
					fb.Append(f)
				} else {
					fb.AppendNull()
				}
			}
		case *array.StringBuilder:
			fb.Reserve(len(values))
			for _, v := range values {
				if v == nil {
					fb.AppendNull()
				} else {
					fb.Append(FormatValue(v))
				}
			}
		}
	}
	return b.NewRecord()
}
