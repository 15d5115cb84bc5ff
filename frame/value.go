package frame

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a single cell. Tables hold int64, float64, string or nil (null);
// other types are carried through untouched as opaque values.
type Value = any

// Kind classifies a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindOther
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	default:
		return "other"
	}
}

// KindOf reports the kind of v.
func KindOf(v Value) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case string:
		return KindText
	default:
		return KindOther
	}
}

// Normalize maps Go numeric types onto int64 and float64 so that values
// built by callers compare and hash like parsed ones.
func Normalize(v Value) Value {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint:
		if uint64(val) > math.MaxInt64 {
			return float64(val)
		}
		return int64(val)
	case uint64:
		if val > math.MaxInt64 {
			return float64(val)
		}
		return int64(val)
	case float32:
		return float64(val)
	default:
		return v
	}
}

// toFloat64 converts a numeric value to float64.
func toFloat64(v Value) (float64, bool) {
	switch val := Normalize(v).(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

// coerceFloat is toFloat64 extended to numeric text, the coercion used
// by Describe.
func coerceFloat(v Value) (float64, bool) {
	if f, ok := toFloat64(v); ok {
		return f, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatValue renders v as display text. Null renders as the empty string
// and integral floats keep a trailing ".0" so they stay distinguishable
// from ints.
func FormatValue(v Value) string {
	switch val := Normalize(v).(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return formatFloat(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e16:
		return strconv.FormatFloat(f, 'f', 1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// integral reports whether f holds an exact int64.
func integral(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// appendKey appends a canonical, unambiguous encoding of v to buf. Values
// that compare equal (1 and 1.0, two nulls) encode identically.
func appendKey(buf []byte, v Value) []byte {
	switch val := Normalize(v).(type) {
	case nil:
		return append(buf, 'n', ';')
	case int64:
		buf = append(buf, 'i')
		buf = strconv.AppendInt(buf, val, 10)
		return append(buf, ';')
	case float64:
		if i, ok := integral(val); ok {
			buf = append(buf, 'i')
			buf = strconv.AppendInt(buf, i, 10)
			return append(buf, ';')
		}
		buf = append(buf, 'f')
		buf = strconv.AppendFloat(buf, val, 'g', -1, 64)
		return append(buf, ';')
	case string:
		buf = append(buf, 's')
		buf = strconv.AppendInt(buf, int64(len(val)), 10)
		buf = append(buf, ':')
		return append(buf, val...)
	default:
		s := fmt.Sprintf("%T:%v", val, val)
		buf = append(buf, 'o')
		buf = strconv.AppendInt(buf, int64(len(s)), 10)
		buf = append(buf, ':')
		return append(buf, s...)
	}
}

// keyOf returns the canonical key of a single value.
func keyOf(v Value) string {
	return string(appendKey(nil, v))
}

// Equal reports whether two values are equal under table key semantics.
func Equal(a, b Value) bool {
	return keyOf(a) == keyOf(b)
}

// compareValues orders values for sorting: numbers by value, then text
// lexically, then other values by their display text, with nulls last.
func compareValues(a, b Value) int {
	ka, kb := rank(a), rank(b)
	if ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}

	switch ka {
	case 0:
		fa, _ := toFloat64(a)
		fb, _ := toFloat64(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 1:
		return strings.Compare(a.(string), b.(string))
	case 2:
		return strings.Compare(FormatValue(a), FormatValue(b))
	default:
		return 0
	}
}

func rank(v Value) int {
	switch KindOf(Normalize(v)) {
	case KindInt, KindFloat:
		return 0
	case KindText:
		return 1
	case KindNull:
		return 3
	default:
		return 2
	}
}
