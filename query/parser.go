package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vegasq/csvframe/frame"
)

// Parser parses predicate expressions into an AST
type Parser struct {
	tokens       []Token
	pos          int
	depthCounter *ExpressionDepthCounter
	columns      []string
	seen         map[string]bool
}

// NewParser creates a new parser
func NewParser(tokens []Token) *Parser {
	return &Parser{
		tokens:       tokens,
		depthCounter: NewExpressionDepthCounter(),
		seen:         make(map[string]bool),
	}
}

// current returns the current token
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token
func (p *Parser) advance() {
	p.pos++
}

func (p *Parser) errorf(format string, args ...any) error {
	tok := p.current()
	msg := fmt.Sprintf(format, args...)
	if tok.Type == TokenEOF {
		return fmt.Errorf("%w: %s", ErrSyntax, msg)
	}
	return fmt.Errorf("%w: %s at position %d", ErrSyntax, msg, tok.Pos)
}

// describe names the current token for error messages.
func (p *Parser) describe() string {
	tok := p.current()
	switch tok.Type {
	case TokenEOF:
		return tok.Type.String()
	case TokenError:
		return fmt.Sprintf("invalid input %q", tok.Value)
	default:
		return fmt.Sprintf("%v %q", tok.Type, tok.Value)
	}
}

// expect checks if current token matches expected type and advances
func (p *Parser) expect(tokType TokenType) error {
	if p.current().Type != tokType {
		return p.errorf("expected %v, got %s", tokType, p.describe())
	}
	p.advance()
	return nil
}

// Parse parses a predicate expression such as
// `age >= 30 and (city = 'Oslo' or city is null)`.
func Parse(expr string) (Expression, error) {
	e, _, err := parse(expr)
	return e, err
}

// parse also returns the referenced column names in order of first use.
func parse(expr string) (Expression, []string, error) {
	if err := ValidateQuery(expr); err != nil {
		return nil, nil, err
	}

	tokens := Tokenize(expr)
	if err := ValidateTokens(tokens); err != nil {
		return nil, nil, err
	}

	p := NewParser(tokens)
	if p.current().Type == TokenEOF {
		return nil, nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}

	e, err := p.parseOr()
	if err != nil {
		return nil, nil, err
	}
	if p.current().Type != TokenEOF {
		return nil, nil, p.errorf("unexpected %s", p.describe())
	}
	return e, p.columns, nil
}

// parseOr parses OR expressions (lowest precedence)
func (p *Parser) parseOr() (Expression, error) {
	if err := p.depthCounter.Enter(); err != nil {
		return nil, err
	}
	defer p.depthCounter.Exit()

	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: TokenOr, Right: right}
	}

	return left, nil
}

// parseAnd parses AND expressions (higher precedence than OR)
func (p *Parser) parseAnd() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.current().Type == TokenAnd {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Operator: TokenAnd, Right: right}
	}

	return left, nil
}

// parseUnary parses NOT and parenthesised expressions
func (p *Parser) parseUnary() (Expression, error) {
	switch p.current().Type {
	case TokenNot:
		if err := p.depthCounter.Enter(); err != nil {
			return nil, err
		}
		defer p.depthCounter.Exit()

		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Operand: operand}, nil
	case TokenLParen:
		p.advance()
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return p.parseComparison()
	}
}

// parseComparison parses `column op literal` and `column is [not] null`
func (p *Parser) parseComparison() (Expression, error) {
	if p.current().Type != TokenIdent {
		return nil, p.errorf("expected column name, got %s", p.describe())
	}
	column := p.current().Value
	if err := ValidateColumnName(column); err != nil {
		return nil, err
	}
	p.advance()
	p.use(column)

	if p.current().Type == TokenIs {
		p.advance()
		negate := false
		if p.current().Type == TokenNot {
			negate = true
			p.advance()
		}
		if err := p.expect(TokenNull); err != nil {
			return nil, err
		}
		return &NullExpr{Column: column, Negate: negate}, nil
	}

	operator := p.current().Type
	switch operator {
	case TokenEqual, TokenNotEqual, TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual:
		p.advance()
	default:
		return nil, p.errorf("expected comparison operator after %q, got %s", column, p.describe())
	}

	var value frame.Value
	tok := p.current()
	switch tok.Type {
	case TokenString:
		value = tok.Value
	case TokenNumber:
		// Try to parse as int first, then float
		if intVal, err := strconv.ParseInt(tok.Value, 10, 64); err == nil {
			value = intVal
		} else if floatVal, err := strconv.ParseFloat(tok.Value, 64); err == nil {
			value = floatVal
		} else {
			return nil, p.errorf("invalid number %q", tok.Value)
		}
	case TokenBool:
		if operator != TokenEqual && operator != TokenNotEqual {
			return nil, p.errorf("operator %v is not defined for booleans", operator)
		}
		value = strings.EqualFold(tok.Value, "true")
	case TokenNull:
		return nil, p.errorf("compare with null using 'is null' or 'is not null'")
	default:
		return nil, p.errorf("expected value (string, number, or bool), got %s", p.describe())
	}
	p.advance()

	return &ComparisonExpr{Column: column, Operator: operator, Value: value}, nil
}

func (p *Parser) use(column string) {
	if !p.seen[column] {
		p.seen[column] = true
		p.columns = append(p.columns, column)
	}
}
