package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortBy(t *testing.T) {
	tbl := mustTable(t,
		NewColumn("v", 3, nil, 1, "b", 2.5, 1),
		NewColumn("pos", 0, 1, 2, 3, 4, 5),
	)

	tests := []struct {
		name    string
		desc    bool
		wantV   []Value
		wantPos []Value
	}{
		{
			name:    "ascending",
			wantV:   []Value{int64(1), int64(1), 2.5, int64(3), "b", nil},
			wantPos: []Value{int64(2), int64(5), int64(4), int64(0), int64(3), int64(1)},
		},
		{
			name:    "descending keeps nulls last",
			desc:    true,
			wantV:   []Value{"b", int64(3), 2.5, int64(1), int64(1), nil},
			wantPos: []Value{int64(3), int64(0), int64(4), int64(2), int64(5), int64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.SortBy("v", tt.desc)
			require.NoError(t, err)
			v, _ := got.Column("v")
			pos, _ := got.Column("pos")
			assert.Equal(t, tt.wantV, v)
			assert.Equal(t, tt.wantPos, pos)
		})
	}

	_, err := tbl.SortBy("missing", false)
	assert.ErrorIs(t, err, ErrMissingColumn)
}
