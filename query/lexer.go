package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes predicate expressions
type Lexer struct {
	input string
	pos   int // offset of ch
	next  int // offset after ch
	ch    rune
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar reads the next character
func (l *Lexer) readChar() {
	l.pos = l.next
	if l.next >= len(l.input) {
		l.ch = 0
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.next:])
	l.ch = r
	l.next += size
}

// peekChar looks at the next character without advancing
func (l *Lexer) peekChar() rune {
	if l.next >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.next:])
	return r
}

func (l *Lexer) skipWhitespace() {
	for unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readString reads a quoted string or a backquoted identifier. The closing
// quote may be doubled or backslash-escaped to appear literally.
func (l *Lexer) readString(quote rune) (string, bool) {
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.ch != 0 {
		switch {
		case l.ch == '\\' && quote != '`':
			l.readChar()
			switch l.ch {
			case 'n':
				result.WriteRune('\n')
			case 't':
				result.WriteRune('\t')
			case 0:
				return result.String(), false
			default:
				result.WriteRune(l.ch)
			}
		case l.ch == quote:
			if l.peekChar() != quote {
				l.readChar() // skip closing quote
				return result.String(), true
			}
			l.readChar()
			result.WriteRune(quote)
		default:
			result.WriteRune(l.ch)
		}
		l.readChar()
	}

	return result.String(), false
}

// readNumber reads an optionally signed decimal number with an optional
// exponent.
func (l *Lexer) readNumber() string {
	start := l.pos
	if l.ch == '-' || l.ch == '+' {
		l.readChar()
	}
	for unicode.IsDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '-' || l.ch == '+' {
			l.readChar()
		}
		for unicode.IsDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '.'
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Pos: l.pos}

	switch l.ch {
	case 0:
		tok.Type = TokenEOF
	case '=':
		tok.Type, tok.Value = TokenEqual, "="
		l.readChar()
		if l.ch == '=' {
			tok.Value = "=="
			l.readChar()
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Value = TokenNotEqual, "!="
		} else {
			tok.Type, tok.Value = TokenError, "!"
		}
		l.readChar()
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok.Type, tok.Value = TokenLessEqual, "<="
		case '>':
			l.readChar()
			tok.Type, tok.Value = TokenNotEqual, "<>"
		default:
			tok.Type, tok.Value = TokenLess, "<"
		}
		l.readChar()
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Value = TokenGreaterEqual, ">="
		} else {
			tok.Type, tok.Value = TokenGreater, ">"
		}
		l.readChar()
	case '(':
		tok.Type, tok.Value = TokenLParen, "("
		l.readChar()
	case ')':
		tok.Type, tok.Value = TokenRParen, ")"
		l.readChar()
	case '\'', '"', '`':
		quote := l.ch
		value, closed := l.readString(quote)
		switch {
		case !closed:
			tok.Type, tok.Value = TokenError, string(quote)+value
		case quote == '`':
			tok.Type, tok.Value = TokenIdent, value
		default:
			tok.Type, tok.Value = TokenString, value
		}
	default:
		switch {
		case unicode.IsDigit(l.ch) || l.ch == '.' ||
			((l.ch == '-' || l.ch == '+') && (unicode.IsDigit(l.peekChar()) || l.peekChar() == '.')):
			tok.Type, tok.Value = TokenNumber, l.readNumber()
		case isIdentStart(l.ch):
			value := l.readIdentifier()
			tok.Type, tok.Value = identifierType(value), value
		default:
			tok.Type, tok.Value = TokenError, string(l.ch)
			l.readChar()
		}
	}

	return tok
}

var keywords = map[string]TokenType{
	"and":   TokenAnd,
	"or":    TokenOr,
	"not":   TokenNot,
	"is":    TokenIs,
	"null":  TokenNull,
	"true":  TokenBool,
	"false": TokenBool,
}

// identifierType determines if an identifier is a keyword. Keywords are
// case-insensitive; use backquotes for a column named like one.
func identifierType(ident string) TokenType {
	if tokType, ok := keywords[strings.ToLower(ident)]; ok {
		return tokType
	}
	return TokenIdent
}

// Tokenize returns all tokens from the input, ending with an EOF or an
// error token.
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			break
		}
	}

	return tokens
}
