package frame

import (
	"fmt"
	"slices"
	"strings"

	"cogentcore.org/core/base/ordmap"
)

// previewRows is the number of rows rendered by Table.String.
const previewRows = 5

// AllRows passed to ToRows returns every row.
const AllRows = -1

// Column is a named, ordered sequence of values.
type Column struct {
	Name   string
	Values []Value
}

// NewColumn returns a column holding normalized copies of values.
func NewColumn(name string, values ...Value) *Column {
	col := &Column{Name: name, Values: make([]Value, len(values))}
	for i, v := range values {
		col.Values[i] = Normalize(v)
	}
	return col
}

// Len returns the number of values in the column.
func (c *Column) Len() int { return len(c.Values) }

// Table is an ordered set of equally long columns. Tables are immutable:
// every operator returns a new Table and never modifies its receiver or
// arguments, so a Table may be shared freely between goroutines.
type Table struct {
	columns *ordmap.Map[string, *Column]
	rows    int
}

// Predicate decides whether a row is kept by Filter.
type Predicate interface {
	Evaluate(row Row) bool
}

// PredicateFunc adapts an ordinary function to a Predicate.
type PredicateFunc func(row Row) bool

// Evaluate calls f(row).
func (f PredicateFunc) Evaluate(row Row) bool { return f(row) }

// NewTable builds a table from columns. Columns must be equally long and
// uniquely named.
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{columns: ordmap.New[string, *Column]()}
	for i, col := range cols {
		if _, exists := t.columns.IndexByKeyTry(col.Name); exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d", ErrRaggedColumns, col.Name, col.Len(), t.rows)
		}
		t.columns.Add(col.Name, NewColumn(col.Name, col.Values...))
	}
	return t, nil
}

// newTable assembles a table from trusted, equally long column data.
func newTable(names []string, data [][]Value) *Table {
	t := &Table{columns: ordmap.New[string, *Column]()}
	for i, name := range names {
		t.columns.Add(name, &Column{Name: name, Values: data[i]})
	}
	if len(data) > 0 {
		t.rows = len(data[0])
	}
	return t
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return t.columns.Len() }

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, t.NumColumns())
	for i := range names {
		names[i] = t.columns.KeyByIndex(i)
	}
	return names
}

// HasColumn reports whether the table has a column called name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.column(name)
	return ok
}

// Column returns a copy of the values of the named column.
func (t *Table) Column(name string) ([]Value, error) {
	col, ok := t.column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return slices.Clone(col.Values), nil
}

func (t *Table) column(name string) (*Column, bool) {
	if t.columns == nil {
		return nil, false
	}
	return t.columns.ValueByKeyTry(name)
}

func (t *Table) columnAt(i int) *Column {
	return t.columns.ValueByIndex(i)
}

// Select returns a table with exactly the requested columns in the
// requested order. Column data is shared with the receiver.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{columns: ordmap.New[string, *Column](), rows: t.rows}
	for _, name := range names {
		col, ok := t.column(name)
		if !ok {
			return nil, fmt.Errorf("select: %w: %q", ErrMissingColumn, name)
		}
		out.columns.Add(name, col)
	}
	return out, nil
}

// WithColumn returns a table with col added after the existing columns,
// or in place of an existing column of the same name.
func (t *Table) WithColumn(col *Column) (*Table, error) {
	if t.NumColumns() > 0 && col.Len() != t.rows {
		return nil, fmt.Errorf("%w: column %q has %d values, want %d", ErrRaggedColumns, col.Name, col.Len(), t.rows)
	}

	out := &Table{columns: ordmap.New[string, *Column](), rows: col.Len()}
	for c := 0; c < t.NumColumns(); c++ {
		existing := t.columnAt(c)
		out.columns.Add(existing.Name, existing)
	}
	out.columns.Add(col.Name, NewColumn(col.Name, col.Values...))
	return out, nil
}

// Filter returns the rows for which p returns true, in their original order.
// The predicate is evaluated exactly once per row.
func (t *Table) Filter(p Predicate) *Table {
	keep := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if p.Evaluate(t.rowAt(i)) {
			keep = append(keep, i)
		}
	}
	return t.take(keep)
}

// take builds a table from the given row indexes, in order.
func (t *Table) take(indexes []int) *Table {
	names := t.Columns()
	data := make([][]Value, len(names))
	for c := range names {
		src := t.columnAt(c).Values
		dst := make([]Value, len(indexes))
		for j, i := range indexes {
			dst[j] = src[i]
		}
		data[c] = dst
	}
	out := newTable(names, data)
	out.rows = len(indexes)
	return out
}

// Row returns the row at index i.
func (t *Table) Row(i int) (Row, error) {
	if i < 0 || i >= t.rows {
		return Row{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, t.rows)
	}
	return t.rowAt(i), nil
}

func (t *Table) rowAt(i int) Row {
	r := Row{cells: ordmap.New[string, Value]()}
	for c := 0; c < t.NumColumns(); c++ {
		col := t.columnAt(c)
		r.cells.Add(col.Name, col.Values[i])
	}
	return r
}

// Head returns the first n rows (all rows when n exceeds the row count).
func (t *Table) Head(n int) *Table {
	n = max(0, min(n, t.rows))
	names := t.Columns()
	data := make([][]Value, len(names))
	for c := range names {
		data[c] = t.columnAt(c).Values[:n:n]
	}
	out := newTable(names, data)
	out.rows = n
	return out
}

// ToRows returns up to limit rows in order; a negative limit (AllRows)
// returns every row.
func (t *Table) ToRows(limit int) []Row {
	n := t.rows
	if limit >= 0 && limit < n {
		n = limit
	}
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = t.rowAt(i)
	}
	return rows
}

// FromRows builds a table from rows. The first row fixes the column set and
// order; a name missing from a later row yields null in that row, and names
// that only appear in later rows are ignored.
func FromRows(rows []Row) *Table {
	if len(rows) == 0 {
		return newTable(nil, nil)
	}

	names := rows[0].Names()
	data := make([][]Value, len(names))
	for c := range data {
		data[c] = make([]Value, len(rows))
	}
	for i, row := range rows {
		for c, name := range names {
			data[c][i] = row.Value(name)
		}
	}
	out := newTable(names, data)
	out.rows = len(rows)
	return out
}

// Concat stacks tables vertically, matching columns by name. The result
// has the first table's columns followed by any new columns from later
// tables; cells a table does not provide are null.
func Concat(tables ...*Table) *Table {
	var names []string
	seen := make(map[string]bool)
	total := 0
	for _, t := range tables {
		for _, name := range t.Columns() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		total += t.rows
	}

	data := make([][]Value, len(names))
	for c, name := range names {
		dst := make([]Value, 0, total)
		for _, t := range tables {
			if col, ok := t.column(name); ok {
				dst = append(dst, col.Values...)
			} else {
				dst = append(dst, make([]Value, t.rows)...)
			}
		}
		data[c] = dst
	}
	out := newTable(names, data)
	out.rows = total
	return out
}

// String renders a preview of the first rows.
func (t *Table) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Table(%d rows x %d columns)", t.rows, t.NumColumns())
	for _, row := range t.ToRows(previewRows) {
		b.WriteString("\n  ")
		b.WriteString(row.String())
	}
	if t.rows > previewRows {
		fmt.Fprintf(&b, "\n  ... %d more rows", t.rows-previewRows)
	}
	return b.String()
}
