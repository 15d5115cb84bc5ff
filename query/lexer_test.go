package query

import (
	"testing"
)

func TestLexer_Tokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "keywords are case insensitive",
			input: "AND or Not IS null TRUE false",
			expected: []Token{
				{Type: TokenAnd, Value: "AND"},
				{Type: TokenOr, Value: "or"},
				{Type: TokenNot, Value: "Not"},
				{Type: TokenIs, Value: "IS"},
				{Type: TokenNull, Value: "null"},
				{Type: TokenBool, Value: "TRUE"},
				{Type: TokenBool, Value: "false"},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "operators",
			input: "= == != <> < > <= >= ( )",
			expected: []Token{
				{Type: TokenEqual, Value: "="},
				{Type: TokenEqual, Value: "=="},
				{Type: TokenNotEqual, Value: "!="},
				{Type: TokenNotEqual, Value: "<>"},
				{Type: TokenLess, Value: "<"},
				{Type: TokenGreater, Value: ">"},
				{Type: TokenLessEqual, Value: "<="},
				{Type: TokenGreaterEqual, Value: ">="},
				{Type: TokenLParen, Value: "("},
				{Type: TokenRParen, Value: ")"},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "numbers",
			input: "42 -3 +7 2.5 .5 1e3 -1.5E-2",
			expected: []Token{
				{Type: TokenNumber, Value: "42"},
				{Type: TokenNumber, Value: "-3"},
				{Type: TokenNumber, Value: "+7"},
				{Type: TokenNumber, Value: "2.5"},
				{Type: TokenNumber, Value: ".5"},
				{Type: TokenNumber, Value: "1e3"},
				{Type: TokenNumber, Value: "-1.5E-2"},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "strings and escapes",
			input: `'it''s' "say \"hi\"" 'tab\there'`,
			expected: []Token{
				{Type: TokenString, Value: "it's"},
				{Type: TokenString, Value: `say "hi"`},
				{Type: TokenString, Value: "tab\there"},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "identifiers",
			input: "age name.1 _id ville `first name` `and`",
			expected: []Token{
				{Type: TokenIdent, Value: "age"},
				{Type: TokenIdent, Value: "name.1"},
				{Type: TokenIdent, Value: "_id"},
				{Type: TokenIdent, Value: "ville"},
				{Type: TokenIdent, Value: "first name"},
				{Type: TokenIdent, Value: "and"},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "unicode identifiers and strings",
			input: "größe = 'Zürich'",
			expected: []Token{
				{Type: TokenIdent, Value: "größe"},
				{Type: TokenEqual, Value: "="},
				{Type: TokenString, Value: "Zürich"},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "no spaces",
			input: "a>=-1",
			expected: []Token{
				{Type: TokenIdent, Value: "a"},
				{Type: TokenGreaterEqual, Value: ">="},
				{Type: TokenNumber, Value: "-1"},
				{Type: TokenEOF, Value: ""},
			},
		},
		{
			name:  "unterminated string stops the stream",
			input: "a = 'open",
			expected: []Token{
				{Type: TokenIdent, Value: "a"},
				{Type: TokenEqual, Value: "="},
				{Type: TokenError, Value: "'open"},
			},
		},
		{
			name:  "invalid character stops the stream",
			input: "a ! b",
			expected: []Token{
				{Type: TokenIdent, Value: "a"},
				{Type: TokenError, Value: "!"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			if len(tokens) != len(tt.expected) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.expected), len(tokens), tokens)
			}
			for i, tok := range tokens {
				if tok.Type != tt.expected[i].Type {
					t.Errorf("token %d: expected type %v, got %v", i, tt.expected[i].Type, tok.Type)
				}
				if tok.Value != tt.expected[i].Value {
					t.Errorf("token %d: expected value %q, got %q", i, tt.expected[i].Value, tok.Value)
				}
			}
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	tokens := Tokenize("é = 'x'")
	want := []int{0, 3, 5, 8}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Pos != want[i] {
			t.Errorf("token %d (%q): expected position %d, got %d", i, tok.Value, want[i], tok.Pos)
		}
	}
}
