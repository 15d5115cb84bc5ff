package frame

import (
	"fmt"
	"iter"
	"slices"

	"cogentcore.org/core/base/ordmap"
)

// Group is one partition produced by GroupBy: the shared key value and the
// rows holding it, with every original column.
type Group struct {
	Key   Value
	Table *Table
}

// Groups is the result of GroupBy. Enumeration follows first occurrence of
// each key in the source table, but that order is not part of the contract;
// use SortedKeys when output must be deterministic.
type Groups struct {
	column string
	groups *ordmap.Map[string, Group]
}

// GroupBy partitions the rows by equality of the named column. Rows keep
// their original relative order inside each group.
func (t *Table) GroupBy(name string) (*Groups, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("group by: %w: %q", ErrMissingColumn, name)
	}

	ix := buildKeyIndex(t, []string{name})
	col, _ := t.column(name)

	g := &Groups{column: name, groups: ordmap.New[string, Group]()}
	for _, e := range ix.entries {
		g.groups.Add(e.key, Group{
			Key:   col.Values[e.rows[0]],
			Table: t.take(e.rows),
		})
	}
	return g, nil
}

// Column returns the name of the grouping column.
func (g *Groups) Column() string { return g.column }

// Len returns the number of distinct keys.
func (g *Groups) Len() int { return g.groups.Len() }

// Get returns the sub-table for key.
func (g *Groups) Get(key Value) (*Table, bool) {
	grp, ok := g.groups.ValueByKeyTry(keyOf(key))
	if !ok {
		return nil, false
	}
	return grp.Table, true
}

// Keys returns the distinct key values.
func (g *Groups) Keys() []Value {
	keys := make([]Value, g.Len())
	for i := range keys {
		keys[i] = g.groups.ValueByIndex(i).Key
	}
	return keys
}

// SortedKeys returns the distinct key values in sort order (numbers, then
// text, then nulls).
func (g *Groups) SortedKeys() []Value {
	keys := g.Keys()
	slices.SortStableFunc(keys, compareValues)
	return keys
}

// All iterates over key and sub-table pairs.
func (g *Groups) All() iter.Seq2[Value, *Table] {
	return func(yield func(Value, *Table) bool) {
		for i := 0; i < g.Len(); i++ {
			grp := g.groups.ValueByIndex(i)
			if !yield(grp.Key, grp.Table) {
				return
			}
		}
	}
}

// Aggregate reduces the named column of every group, returning a table with
// the grouping column and one column named after the aggregated column and
// reducer label, e.g. "salary_mean". Groups are emitted in SortedKeys order.
func (g *Groups) Aggregate(name, label string, r Reducer) (*Table, error) {
	keys := g.SortedKeys()
	keyCol := make([]Value, len(keys))
	aggCol := make([]Value, len(keys))
	for i, key := range keys {
		sub, _ := g.Get(key)
		v, err := sub.Aggregate(name, r)
		if err != nil {
			return nil, err
		}
		keyCol[i] = key
		aggCol[i] = Normalize(v)
	}

	outName := name + "_" + label
	if outName == g.column {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, outName)
	}
	return newTable([]string{g.column, outName}, [][]Value{keyCol, aggCol}), nil
}
