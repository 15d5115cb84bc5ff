package frame

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// JoinHow selects which unmatched rows a join keeps.
type JoinHow string

const (
	InnerJoin JoinHow = "inner"
	LeftJoin  JoinHow = "left"
	RightJoin JoinHow = "right"
	OuterJoin JoinHow = "outer"
)

const (
	defaultLSuffix = "_x"
	defaultRSuffix = "_y"
)

// JoinOptions configures Table.Join.
//
// Keys are given either as On (same names on both sides) or as LeftOn and
// RightOn of equal length. How defaults to InnerJoin and the suffixes to
// "_x" and "_y". With Substring set, the single left key matches a right
// key when it occurs in it as a whole word, ignoring case and surrounding
// whitespace.
//
// An empty LSuffix or RSuffix always selects its default, so a join cannot
// leave clashing names unsuffixed. Pick distinct non-empty suffixes instead;
// a suffixed name that still collides fails with ErrDuplicateColumn.
type JoinOptions struct {
	On      []string
	LeftOn  []string
	RightOn []string
	How     JoinHow
	// LSuffix and RSuffix are appended to non-key names present on both
	// sides. Empty means "_x" and "_y".
	LSuffix   string
	RSuffix   string
	Substring bool
}

// joinColumn describes one output column of a join.
type joinColumn struct {
	name     string
	fromLeft bool
	src      *Column
	// fallback is set for left key columns: the right key column supplying
	// the value when the row has no left side.
	fallback *Column
}

// joinPair is one output row; -1 stands for a missing side.
type joinPair struct {
	left, right int
}

// Join combines t with other on key columns. Preconditions are checked
// before any matching work, so an invalid request never yields a partial
// result.
//
// Key columns appear once, under their left names. Other columns present
// on both sides are renamed with LSuffix and RSuffix. Rows are grouped by
// key (exact mode) or by left row (substring mode), and within a group
// ordered by left then right row index; callers needing another order
// must sort the result.
func (t *Table) Join(other *Table, opts JoinOptions) (*Table, error) {
	leftKeys, rightKeys, err := resolveJoinKeys(t, other, opts)
	if err != nil {
		return nil, err
	}

	how := opts.How
	if how == "" {
		how = InnerJoin
	}
	switch how {
	case InnerJoin, LeftJoin, RightJoin, OuterJoin:
	default:
		return nil, fmt.Errorf("join: %w: got %q", ErrInvalidJoinMode, how)
	}

	if opts.Substring {
		if len(leftKeys) != 1 {
			return nil, fmt.Errorf("join: %w: got %d keys", ErrUnsupportedKeyArity, len(leftKeys))
		}
		if how != InnerJoin && how != LeftJoin {
			return nil, fmt.Errorf("join: %w: got %q", ErrUnsupportedJoinMode, how)
		}
	}

	lsuffix, rsuffix := opts.LSuffix, opts.RSuffix
	if lsuffix == "" {
		lsuffix = defaultLSuffix
	}
	if rsuffix == "" {
		rsuffix = defaultRSuffix
	}
	layout, err := joinLayout(t, other, leftKeys, rightKeys, lsuffix, rsuffix)
	if err != nil {
		return nil, err
	}

	var pairs []joinPair
	if opts.Substring {
		pairs = substringPairs(t, other, leftKeys[0], rightKeys[0], how)
	} else {
		pairs = hashPairs(t, other, leftKeys, rightKeys, how)
	}
	return assembleJoin(layout, pairs), nil
}

// resolveJoinKeys validates the key specification and returns the key
// column names of both sides.
func resolveJoinKeys(left, right *Table, opts JoinOptions) ([]string, []string, error) {
	if len(opts.On) > 0 && (len(opts.LeftOn) > 0 || len(opts.RightOn) > 0) {
		return nil, nil, fmt.Errorf("join: %w", ErrConflictingJoinSpec)
	}

	leftKeys, rightKeys := opts.On, opts.On
	if len(opts.On) == 0 {
		if len(opts.LeftOn) == 0 || len(opts.RightOn) == 0 || len(opts.LeftOn) != len(opts.RightOn) {
			return nil, nil, fmt.Errorf("join: %w: left_on has %d, right_on has %d",
				ErrMismatchedKeyArity, len(opts.LeftOn), len(opts.RightOn))
		}
		leftKeys, rightKeys = opts.LeftOn, opts.RightOn
	}

	for _, name := range leftKeys {
		if !left.HasColumn(name) {
			return nil, nil, fmt.Errorf("join: %w: %q not in left table", ErrMissingJoinKey, name)
		}
	}
	for _, name := range rightKeys {
		if !right.HasColumn(name) {
			return nil, nil, fmt.Errorf("join: %w: %q not in right table", ErrMissingJoinKey, name)
		}
	}
	return leftKeys, rightKeys, nil
}

// joinLayout decides the output columns: all left columns in order, then
// the right columns that are not keys.
func joinLayout(left, right *Table, leftKeys, rightKeys []string, lsuffix, rsuffix string) ([]joinColumn, error) {
	var layout []joinColumn
	seen := make(map[string]bool)
	emit := func(c joinColumn) error {
		if seen[c.name] {
			return fmt.Errorf("join: %w: %q appears twice in the result; choose other suffixes", ErrDuplicateColumn, c.name)
		}
		seen[c.name] = true
		layout = append(layout, c)
		return nil
	}

	for c := 0; c < left.NumColumns(); c++ {
		col := left.columnAt(c)
		out := joinColumn{name: col.Name, fromLeft: true, src: col}
		if k := slices.Index(leftKeys, col.Name); k >= 0 {
			out.fallback, _ = right.column(rightKeys[k])
		} else if right.HasColumn(col.Name) && !slices.Contains(rightKeys, col.Name) {
			out.name = col.Name + lsuffix
		}
		if err := emit(out); err != nil {
			return nil, err
		}
	}

	for c := 0; c < right.NumColumns(); c++ {
		col := right.columnAt(c)
		if slices.Contains(rightKeys, col.Name) {
			continue
		}
		out := joinColumn{name: col.Name, src: col}
		if left.HasColumn(col.Name) {
			out.name = col.Name + rsuffix
		}
		if err := emit(out); err != nil {
			return nil, err
		}
	}
	return layout, nil
}

// hashPairs matches rows whose key tuples are equal, using one key index
// per side. Each candidate key contributes the cross product of its left
// and right rows.
func hashPairs(left, right *Table, leftKeys, rightKeys []string, how JoinHow) []joinPair {
	lix := buildKeyIndex(left, leftKeys)
	rix := buildKeyIndex(right, rightKeys)

	var candidates []string
	switch how {
	case InnerJoin:
		for _, e := range lix.entries {
			if rix.get(e.key) != nil {
				candidates = append(candidates, e.key)
			}
		}
	case LeftJoin:
		for _, e := range lix.entries {
			candidates = append(candidates, e.key)
		}
	case RightJoin:
		for _, e := range rix.entries {
			candidates = append(candidates, e.key)
		}
	case OuterJoin:
		candidates = make([]string, 0, lix.len()+rix.len())
		for _, e := range lix.entries {
			candidates = append(candidates, e.key)
		}
		for _, e := range rix.entries {
			if lix.get(e.key) == nil {
				candidates = append(candidates, e.key)
			}
		}
	}

	missing := []int{-1}
	var pairs []joinPair
	for _, key := range candidates {
		lrows, rrows := missing, missing
		if e := lix.get(key); e != nil {
			lrows = e.rows
		}
		if e := rix.get(key); e != nil {
			rrows = e.rows
		}
		for _, li := range lrows {
			for _, ri := range rrows {
				pairs = append(pairs, joinPair{left: li, right: ri})
			}
		}
	}
	return pairs
}

// substringPairs scans every right row for every left row. It builds no
// index and is meant for joining against small reference tables.
func substringPairs(left, right *Table, leftKey, rightKey string, how JoinHow) []joinPair {
	lcol, _ := left.column(leftKey)
	rcol, _ := right.column(rightKey)
	folder := cases.Fold()

	haystacks := make([]string, len(rcol.Values))
	for ri, v := range rcol.Values {
		if v != nil {
			haystacks[ri] = folder.String(strings.TrimSpace(FormatValue(v)))
		}
	}

	var pairs []joinPair
	for li, v := range lcol.Values {
		matched := false
		if v != nil {
			needle := folder.String(strings.TrimSpace(FormatValue(v)))
			for ri, hay := range haystacks {
				if rcol.Values[ri] != nil && containsWord(hay, needle) {
					pairs = append(pairs, joinPair{left: li, right: ri})
					matched = true
				}
			}
		}
		if !matched && how == LeftJoin {
			pairs = append(pairs, joinPair{left: li, right: -1})
		}
	}
	return pairs
}

// containsWord reports whether needle occurs in haystack with a word
// boundary on both ends, where a boundary separates a word rune (letter,
// digit or underscore) from a non-word rune or the string edge.
func containsWord(haystack, needle string) bool {
	for i := 0; i <= len(haystack)-len(needle); {
		j := strings.Index(haystack[i:], needle)
		if j < 0 {
			return false
		}
		start := i + j
		if atBoundary(haystack, start) && atBoundary(haystack, start+len(needle)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(haystack[start:])
		if size == 0 {
			size = 1
		}
		i = start + size
	}
	return false
}

func atBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// assembleJoin materializes the output columns for the matched pairs.
func assembleJoin(layout []joinColumn, pairs []joinPair) *Table {
	names := make([]string, len(layout))
	data := make([][]Value, len(layout))
	for c, jc := range layout {
		names[c] = jc.name
		values := make([]Value, len(pairs))
		for i, p := range pairs {
			switch {
			case jc.fromLeft && p.left >= 0:
				values[i] = jc.src.Values[p.left]
			case jc.fromLeft && jc.fallback != nil && p.right >= 0:
				values[i] = jc.fallback.Values[p.right]
			case !jc.fromLeft && p.right >= 0:
				values[i] = jc.src.Values[p.right]
			}
		}
		data[c] = values
	}
	out := newTable(names, data)
	out.rows = len(pairs)
	return out
}
