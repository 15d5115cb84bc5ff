package frame

import (
	"fmt"
	"slices"
)

// SortBy returns the rows ordered by the named column. The sort is stable;
// numbers sort before text and nulls always sort last, in either direction.
func (t *Table) SortBy(name string, desc bool) (*Table, error) {
	col, ok := t.column(name)
	if !ok {
		return nil, fmt.Errorf("sort: %w: %q", ErrMissingColumn, name)
	}

	indexes := make([]int, t.rows)
	for i := range indexes {
		indexes[i] = i
	}
	slices.SortStableFunc(indexes, func(a, b int) int {
		va, vb := col.Values[a], col.Values[b]
		switch {
		case va == nil && vb == nil:
			return 0
		case va == nil:
			return 1
		case vb == nil:
			return -1
		}
		if desc {
			return compareValues(vb, va)
		}
		return compareValues(va, vb)
	})
	return t.take(indexes), nil
}
