package query

import (
	"fmt"

	"github.com/vegasq/csvframe/frame"
)

// TokenType represents the type of a token
type TokenType int

const (
	// Keywords
	TokenAnd TokenType = iota
	TokenOr
	TokenNot
	TokenIs
	TokenNull

	// Operators
	TokenEqual        // =
	TokenNotEqual     // != or <>
	TokenLess         // <
	TokenGreater      // >
	TokenLessEqual    // <=
	TokenGreaterEqual // >=
	TokenLParen       // (
	TokenRParen       // )

	// Literals
	TokenString
	TokenNumber
	TokenIdent
	TokenBool

	// Special
	TokenEOF
	TokenError
)

var tokenNames = map[TokenType]string{
	TokenAnd:          "and",
	TokenOr:           "or",
	TokenNot:          "not",
	TokenIs:           "is",
	TokenNull:         "null",
	TokenEqual:        "=",
	TokenNotEqual:     "!=",
	TokenLess:         "<",
	TokenGreater:      ">",
	TokenLessEqual:    "<=",
	TokenGreaterEqual: ">=",
	TokenLParen:       "(",
	TokenRParen:       ")",
	TokenString:       "string",
	TokenNumber:       "number",
	TokenIdent:        "identifier",
	TokenBool:         "boolean",
	TokenEOF:          "end of input",
	TokenError:        "invalid character",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a lexical token. Pos is the byte offset of the token
// in the input.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// Expression is a boolean expression evaluated against one row.
type Expression interface {
	Evaluate(row frame.Row) (bool, error)
	String() string
}

// BinaryExpr represents a binary expression (AND/OR)
type BinaryExpr struct {
	Left     Expression
	Operator TokenType // TokenAnd or TokenOr
	Right    Expression
}

// NotExpr negates its operand.
type NotExpr struct {
	Operand Expression
}

// ComparisonExpr compares a column against a literal.
type ComparisonExpr struct {
	Column   string
	Operator TokenType
	Value    frame.Value
}

// NullExpr is "column is null", or "column is not null" when Negate is set.
type NullExpr struct {
	Column string
	Negate bool
}

// Evaluate evaluates a binary expression. The right side is skipped when
// the left side already decides the result.
func (b *BinaryExpr) Evaluate(row frame.Row) (bool, error) {
	left, err := b.Left.Evaluate(row)
	if err != nil {
		return false, err
	}

	switch b.Operator {
	case TokenAnd:
		if !left {
			return false, nil
		}
	case TokenOr:
		if left {
			return true, nil
		}
	default:
		return false, fmt.Errorf("unknown logical operator %v", b.Operator)
	}

	return b.Right.Evaluate(row)
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %v %s)", b.Left, b.Operator, b.Right)
}

// Evaluate evaluates the negated operand.
func (n *NotExpr) Evaluate(row frame.Row) (bool, error) {
	v, err := n.Operand.Evaluate(row)
	if err != nil {
		return false, err
	}
	return !v, nil
}

func (n *NotExpr) String() string {
	return fmt.Sprintf("(not %s)", n.Operand)
}

// Evaluate evaluates a comparison expression. A column the row does not
// carry compares like a null cell.
func (c *ComparisonExpr) Evaluate(row frame.Row) (bool, error) {
	return compare(row.Value(c.Column), c.Operator, c.Value)
}

func (c *ComparisonExpr) String() string {
	lit := frame.FormatValue(c.Value)
	if s, ok := c.Value.(string); ok {
		lit = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%s %v %s", c.Column, c.Operator, lit)
}

// Evaluate reports whether the cell is (or is not) null.
func (n *NullExpr) Evaluate(row frame.Row) (bool, error) {
	isNull := row.Value(n.Column) == nil
	return isNull != n.Negate, nil
}

func (n *NullExpr) String() string {
	if n.Negate {
		return n.Column + " is not null"
	}
	return n.Column + " is null"
}
