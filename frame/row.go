package frame

import (
	"strings"

	"cogentcore.org/core/base/ordmap"
)

// Row is an ordered mapping from column name to Value. Rows returned by a
// Table are independent copies; changing them never affects the table.
type Row struct {
	cells *ordmap.Map[string, Value]
}

// NewRow builds a row from parallel name and value slices. A name given
// twice keeps its first position and its last value.
func NewRow(names []string, values []Value) Row {
	r := Row{cells: ordmap.New[string, Value]()}
	for i, name := range names {
		var v Value
		if i < len(values) {
			v = values[i]
		}
		r.cells.Add(name, Normalize(v))
	}
	return r
}

// RowFromMap builds a row whose column order is given by names, reading
// values from m. Names missing from m become null.
func RowFromMap(names []string, m map[string]Value) Row {
	r := Row{cells: ordmap.New[string, Value]()}
	for _, name := range names {
		r.cells.Add(name, Normalize(m[name]))
	}
	return r
}

// Set assigns v to name, appending the name if it is new.
func (r *Row) Set(name string, v Value) {
	if r.cells == nil {
		r.cells = ordmap.New[string, Value]()
	}
	r.cells.Add(name, Normalize(v))
}

// Get returns the value for name and whether the name is present.
func (r Row) Get(name string) (Value, bool) {
	if r.cells == nil {
		return nil, false
	}
	return r.cells.ValueByKeyTry(name)
}

// Value returns the value for name, or nil when absent.
func (r Row) Value(name string) Value {
	v, _ := r.Get(name)
	return v
}

// Len returns the number of cells.
func (r Row) Len() int {
	return r.cells.Len()
}

// Names returns the column names in order.
func (r Row) Names() []string {
	names := make([]string, r.Len())
	for i := range names {
		names[i] = r.cells.KeyByIndex(i)
	}
	return names
}

// Values returns the cell values in column order.
func (r Row) Values() []Value {
	values := make([]Value, r.Len())
	for i := range values {
		values[i] = r.cells.ValueByIndex(i)
	}
	return values
}

// Map returns the row as a plain map, losing column order.
func (r Row) Map() map[string]Value {
	m := make(map[string]Value, r.Len())
	for i := 0; i < r.Len(); i++ {
		m[r.cells.KeyByIndex(i)] = r.cells.ValueByIndex(i)
	}
	return m
}

// String renders the row as {name: value, ...}.
func (r Row) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i := 0; i < r.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.cells.KeyByIndex(i))
		b.WriteString(": ")
		v := r.cells.ValueByIndex(i)
		if s, ok := v.(string); ok {
			b.WriteString("\"" + s + "\"")
		} else if v == nil {
			b.WriteString("null")
		} else {
			b.WriteString(FormatValue(v))
		}
	}
	b.WriteByte('}')
	return b.String()
}
