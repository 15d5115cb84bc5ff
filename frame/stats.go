package frame

import (
	"fmt"
	"math"
	"strconv"

	"cogentcore.org/core/base/ordmap"
	"github.com/shopspring/decimal"
)

// Stats summarizes the numeric values of one column.
type Stats struct {
	Count int
	Mean  float64 // rounded to two decimals
	Std   float64 // population standard deviation, rounded to two decimals
	Min   float64
	Max   float64
}

// Reducer folds the raw values of a column into one value.
type Reducer interface {
	Reduce(values []Value) Value
}

// ReducerFunc adapts an ordinary function to a Reducer.
type ReducerFunc func(values []Value) Value

// Reduce calls f(values).
func (f ReducerFunc) Reduce(values []Value) Value { return f(values) }

// Describe computes Stats for every column with at least one numeric
// value. Values that do not coerce to a number (text, nulls) are skipped
// silently; columns without any numeric value are left out.
func (t *Table) Describe() *ordmap.Map[string, Stats] {
	desc := ordmap.New[string, Stats]()
	for c := 0; c < t.NumColumns(); c++ {
		col := t.columnAt(c)
		numeric := make([]float64, 0, len(col.Values))
		for _, v := range col.Values {
			if f, ok := coerceFloat(v); ok {
				numeric = append(numeric, f)
			}
		}
		if len(numeric) == 0 {
			continue
		}
		desc.Add(col.Name, describe(numeric))
	}
	return desc
}

func describe(numeric []float64) Stats {
	n := float64(len(numeric))
	sum := 0.0
	lo, hi := numeric[0], numeric[0]
	for _, f := range numeric {
		sum += f
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	mean := sum / n

	sq := 0.0
	for _, f := range numeric {
		sq += (f - mean) * (f - mean)
	}

	return Stats{
		Count: len(numeric),
		Mean:  round2(mean),
		Std:   round2(math.Sqrt(sq / n)),
		Min:   lo,
		Max:   hi,
	}
}

// round2 rounds the exact binary value of f to two decimal places, sending
// exact ties to the even digit: 0.125 gives 0.12, and 2.675 (stored just
// below) gives 2.67. NaN and infinities pass through.
func round2(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(f, 'f', 2, 64))
	if err != nil {
		return f
	}
	return d.InexactFloat64()
}

// Unique returns the distinct values of a column. The result is a set:
// callers must not depend on its order.
func (t *Table) Unique(name string) ([]Value, error) {
	col, ok := t.column(name)
	if !ok {
		return nil, fmt.Errorf("unique: %w: %q", ErrMissingColumn, name)
	}
	seen := make(map[string]struct{}, len(col.Values))
	out := make([]Value, 0)
	for _, v := range col.Values {
		k := keyOf(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// Aggregate applies r to the raw values of a column, without filtering or
// coercion.
func (t *Table) Aggregate(name string, r Reducer) (Value, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	return r.Reduce(values), nil
}

// Count counts all values, nulls included.
var Count = ReducerFunc(func(values []Value) Value {
	return int64(len(values))
})

// CountNonNull counts values that are not null.
var CountNonNull = ReducerFunc(func(values []Value) Value {
	var n int64
	for _, v := range values {
		if v != nil {
			n++
		}
	}
	return n
})

// Sum adds the numeric values, ignoring everything else. The result is an
// int64 when every summed value is an int64, a float64 otherwise, and nil
// when there is nothing to sum.
var Sum = ReducerFunc(func(values []Value) Value {
	var isum int64
	var fsum float64
	seen, allInt := false, true
	for _, v := range values {
		switch val := Normalize(v).(type) {
		case int64:
			isum += val
			fsum += float64(val)
			seen = true
		case float64:
			fsum += val
			allInt = false
			seen = true
		}
	}
	if !seen {
		return nil
	}
	if allInt {
		return isum
	}
	return fsum
})

// Mean averages the numeric values; nil when there are none.
var Mean = ReducerFunc(func(values []Value) Value {
	sum, n := 0.0, 0
	for _, v := range values {
		if f, ok := toFloat64(v); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return sum / float64(n)
})

// Min returns the smallest non-null value under sort order.
var Min = ReducerFunc(func(values []Value) Value {
	return extreme(values, -1)
})

// Max returns the largest non-null value under sort order.
var Max = ReducerFunc(func(values []Value) Value {
	return extreme(values, 1)
})

func extreme(values []Value, sign int) Value {
	var best Value
	for _, v := range values {
		if v == nil {
			continue
		}
		if best == nil || compareValues(v, best)*sign > 0 {
			best = v
		}
	}
	return best
}

// Reducers maps reducer names accepted on the command line to reducers.
var Reducers = map[string]Reducer{
	"count":    Count,
	"count_nn": CountNonNull,
	"sum":      Sum,
	"mean":     Mean,
	"avg":      Mean,
	"min":      Min,
	"max":      Max,
}
