package query

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse_Expressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple comparison",
			input: "age > 30",
			want:  "age > 30",
		},
		{
			name:  "string literal",
			input: "name = 'alice'",
			want:  `name = "alice"`,
		},
		{
			name:  "float literal",
			input: "score <= 9.5",
			want:  "score <= 9.5",
		},
		{
			name:  "AND binds tighter than OR",
			input: "a = 1 or b = 2 and c = 3",
			want:  "(a = 1 or (b = 2 and c = 3))",
		},
		{
			name:  "parentheses override precedence",
			input: "(a = 1 or b = 2) and c = 3",
			want:  "((a = 1 or b = 2) and c = 3)",
		},
		{
			name:  "not",
			input: "not a = 1 and not not b = 2",
			want:  "((not a = 1) and (not (not b = 2)))",
		},
		{
			name:  "null checks",
			input: "a is null or b IS NOT NULL",
			want:  "(a is null or b is not null)",
		},
		{
			name:  "quoted column name",
			input: "`first name` != 'Ann'",
			want:  `first name != "Ann"`,
		},
		{
			name:  "sql style inequality",
			input: "a <> 1",
			want:  "a != 1",
		},
		{
			name:  "boolean literal",
			input: "active = TRUE",
			want:  "active = true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got := expr.String(); got != tt.want {
				t.Errorf("Parse() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParse_Literals(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"a = 7", int64(7)},
		{"a = -7", int64(-7)},
		{"a = 7.0", 7.0},
		{"a = 1e2", 100.0},
		{"a = '7'", "7"},
		{"a = false", false},
	}

	for _, tt := range tests {
		expr, err := Parse(tt.input)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.input, err)
		}
		cmp, ok := expr.(*ComparisonExpr)
		if !ok {
			t.Fatalf("Parse(%q) = %T, want *ComparisonExpr", tt.input, expr)
		}
		if !reflect.DeepEqual(cmp.Value, tt.want) {
			t.Errorf("Parse(%q) value = %#v, want %#v", tt.input, cmp.Value, tt.want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{"empty", "   ", ErrSyntax, "empty expression"},
		{"missing operator", "age 30", ErrSyntax, "expected comparison operator"},
		{"missing value", "age >", ErrSyntax, "expected value"},
		{"missing column", "> 30", ErrSyntax, "expected column name"},
		{"unbalanced paren", "(a = 1", ErrSyntax, "expected )"},
		{"trailing tokens", "a = 1 b = 2", ErrSyntax, "unexpected identifier"},
		{"compare with null", "a = null", ErrSyntax, "is null"},
		{"ordering booleans", "a < true", ErrSyntax, "not defined for booleans"},
		{"invalid number", "a = 1.2.3", ErrSyntax, "invalid number"},
		{"invalid character", "a = 1 & b = 2", ErrSyntax, "invalid input"},
		{"unterminated string", "a = 'x", ErrSyntax, "expected value"},
		{"is without null", "a is 3", ErrSyntax, "expected null"},
		{"too long", "a = '" + strings.Repeat("x", MaxQueryLength) + "'", ErrQueryTooLong, ""},
		{"too many tokens", strings.Repeat("a = 1 and ", MaxTokens/4) + "a = 1", ErrTooManyTokens, ""},
		{"too deep", strings.Repeat("(", MaxExpressionDepth+1) + "a = 1" + strings.Repeat(")", MaxExpressionDepth+1), ErrExpressionTooDeep, ""},
		{"column name too long", strings.Repeat("c", MaxColumnNameLength+1) + " = 1", ErrColumnNameTooLong, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Parse() error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := Parse("a = 1 and > 2")
	if err == nil || !strings.Contains(err.Error(), "position 10") {
		t.Errorf("Parse() error = %v, want position 10", err)
	}
}

func TestParse_NestingWithinLimit(t *testing.T) {
	depth := MaxExpressionDepth - 1
	input := strings.Repeat("(", depth) + "a = 1" + strings.Repeat(")", depth)
	if _, err := Parse(input); err != nil {
		t.Errorf("Parse() error = %v for depth %d", err, depth)
	}
}
