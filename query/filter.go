package query

import (
	"fmt"
	"strings"

	"github.com/vegasq/csvframe/frame"
)

// Filter is a compiled predicate. It satisfies frame.Predicate; the first
// evaluation error is kept and reported by Err, and later rows evaluate to
// false. A Filter is not safe for concurrent use.
type Filter struct {
	source  string
	expr    Expression
	columns []string
	err     error
}

// Compile parses expr into a Filter.
func Compile(expr string) (*Filter, error) {
	e, columns, err := parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}
	return &Filter{source: expr, expr: e, columns: columns}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Filter {
	f, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return f
}

// Evaluate reports whether row matches.
func (f *Filter) Evaluate(row frame.Row) bool {
	if f.err != nil {
		return false
	}
	ok, err := f.expr.Evaluate(row)
	if err != nil {
		f.err = err
		return false
	}
	return ok
}

// Err returns the first evaluation error since the last Reset.
func (f *Filter) Err() error { return f.err }

// Reset clears a recorded evaluation error.
func (f *Filter) Reset() { f.err = nil }

// Columns returns the referenced column names in order of first use.
func (f *Filter) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Expression returns the parsed expression tree.
func (f *Filter) Expression() Expression { return f.expr }

// String returns the source text.
func (f *Filter) String() string { return f.source }

// Apply returns the rows of t matching f. Every referenced column must
// exist in t.
func Apply(t *frame.Table, f *Filter) (*frame.Table, error) {
	if f == nil {
		return t, nil
	}
	for _, name := range f.columns {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("filter %q: %w: %s", f.source, frame.ErrMissingColumn, name)
		}
	}

	f.Reset()
	out := t.Filter(f)
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("filter %q: %w", f.source, err)
	}
	return out, nil
}

// compare compares a cell against a literal using the given operator.
// Null cells are unequal to every literal and fail every ordering; number
// and text never compare equal.
func compare(cell frame.Value, operator TokenType, literal frame.Value) (bool, error) {
	cell = frame.Normalize(cell)
	if cell == nil {
		return operator == TokenNotEqual, nil
	}

	if b, ok := literal.(bool); ok {
		eq, ok := boolEquals(cell, b)
		if !ok {
			return false, fmt.Errorf("%w: cannot compare %T with bool", ErrIncomparable, cell)
		}
		return applyEquality(operator, eq), nil
	}

	leftNum, leftIsNum := toFloat64(cell)
	rightNum, rightIsNum := toFloat64(literal)
	if leftIsNum && rightIsNum {
		return compareNumbers(leftNum, operator, rightNum), nil
	}

	leftStr, leftIsStr := cell.(string)
	rightStr, rightIsStr := literal.(string)
	if leftIsStr && rightIsStr {
		return compareStrings(leftStr, operator, rightStr), nil
	}

	if (leftIsNum || leftIsStr) && (rightIsNum || rightIsStr) {
		return operator == TokenNotEqual, nil
	}

	// Type mismatch
	return false, fmt.Errorf("%w: cannot compare %T with %T", ErrIncomparable, cell, literal)
}

// boolEquals matches text cells spelled true/false (any case) and
// numeric cells as zero or non-zero.
func boolEquals(cell frame.Value, b bool) (bool, bool) {
	switch v := cell.(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return b, true
		case "false":
			return !b, true
		default:
			return false, true
		}
	case int64:
		return (v != 0) == b, true
	case float64:
		return (v != 0) == b, true
	default:
		return false, false
	}
}

func applyEquality(operator TokenType, eq bool) bool {
	if operator == TokenNotEqual {
		return !eq
	}
	return eq
}

// toFloat64 converts a normalized numeric value to float64
func toFloat64(v frame.Value) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

// compareNumbers compares two numbers
func compareNumbers(left float64, operator TokenType, right float64) bool {
	switch operator {
	case TokenEqual:
		return left == right
	case TokenNotEqual:
		return left != right
	case TokenLess:
		return left < right
	case TokenGreater:
		return left > right
	case TokenLessEqual:
		return left <= right
	case TokenGreaterEqual:
		return left >= right
	default:
		return false
	}
}

// compareStrings compares two strings (case-sensitive)
func compareStrings(left string, operator TokenType, right string) bool {
	switch operator {
	case TokenEqual:
		return left == right
	case TokenNotEqual:
		return left != right
	case TokenLess:
		return left < right
	case TokenGreater:
		return left > right
	case TokenLessEqual:
		return left <= right
	case TokenGreaterEqual:
		return left >= right
	default:
		return false
	}
}
