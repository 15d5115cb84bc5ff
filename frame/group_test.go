package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salaries(t *testing.T) *Table {
	return mustTable(t,
		NewColumn("dept", "eng", "ops", "eng", nil, "ops", "eng"),
		NewColumn("name", "ann", "bob", "cid", "dan", "eve", "fay"),
		NewColumn("salary", 100, 80, 120, 50, 90, 110.5),
	)
}

func TestGroupBy_Completeness(t *testing.T) {
	tbl := salaries(t)

	groups, err := tbl.GroupBy("dept")
	require.NoError(t, err)
	assert.Equal(t, "dept", groups.Column())
	assert.Equal(t, 3, groups.Len())

	total := 0
	for key, sub := range groups.All() {
		assert.Equal(t, tbl.Columns(), sub.Columns())
		depts, err := sub.Column("dept")
		require.NoError(t, err)
		for _, d := range depts {
			assert.True(t, Equal(key, d), "row with %v in group %v", d, key)
		}
		total += sub.NumRows()
	}
	assert.Equal(t, tbl.NumRows(), total)
}

func TestGroupBy_PreservesRowOrder(t *testing.T) {
	groups, err := salaries(t).GroupBy("dept")
	require.NoError(t, err)

	eng, ok := groups.Get("eng")
	require.True(t, ok)
	names, _ := eng.Column("name")
	assert.Equal(t, []Value{"ann", "cid", "fay"}, names)

	nulls, ok := groups.Get(nil)
	require.True(t, ok)
	assert.Equal(t, 1, nulls.NumRows())

	_, ok = groups.Get("hr")
	assert.False(t, ok)
}

func TestGroupBy_NumericKeys(t *testing.T) {
	tbl := mustTable(t, NewColumn("k", 2, 1, 1.0, 2.5))
	groups, err := tbl.GroupBy("k")
	require.NoError(t, err)

	assert.Equal(t, 3, groups.Len())
	assert.Equal(t, []Value{int64(1), int64(2), 2.5}, groups.SortedKeys())
}

func TestGroupBy_MissingColumn(t *testing.T) {
	_, err := salaries(t).GroupBy("team")
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestGroups_Aggregate(t *testing.T) {
	groups, err := salaries(t).GroupBy("dept")
	require.NoError(t, err)

	out, err := groups.Aggregate("salary", "sum", Sum)
	require.NoError(t, err)
	assert.Equal(t, []string{"dept", "salary_sum"}, out.Columns())

	depts, _ := out.Column("dept")
	sums, _ := out.Column("salary_sum")
	assert.Equal(t, []Value{"eng", "ops", nil}, depts)
	assert.Equal(t, []Value{330.5, int64(170), int64(50)}, sums)

	_, err = groups.Aggregate("bonus", "sum", Sum)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestGroups_AggregateNameCollision(t *testing.T) {
	tbl := mustTable(t, NewColumn("n_count", 1, 1), NewColumn("n", 5, 6))
	groups, err := tbl.GroupBy("n_count")
	require.NoError(t, err)

	_, err = groups.Aggregate("n", "count", Count)
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}
