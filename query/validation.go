package query

import (
	"errors"
	"fmt"
)

// Validation constants to prevent DoS and resource exhaustion
const (
	// MaxQueryLength is the maximum allowed expression length (64KB)
	MaxQueryLength = 64 * 1024

	// MaxTokens is the maximum number of tokens in an expression
	MaxTokens = 1000

	// MaxExpressionDepth is the maximum nesting depth for expressions
	MaxExpressionDepth = 100

	// MaxColumnNameLength is the maximum length for a column name
	MaxColumnNameLength = 256
)

var (
	// ErrSyntax is returned for expressions that do not parse.
	ErrSyntax = errors.New("syntax error")

	// ErrQueryTooLong is returned when an expression exceeds MaxQueryLength
	ErrQueryTooLong = errors.New("expression too long")

	// ErrTooManyTokens is returned when an expression has too many tokens
	ErrTooManyTokens = errors.New("too many tokens in expression")

	// ErrExpressionTooDeep is returned when expression nesting exceeds limit
	ErrExpressionTooDeep = errors.New("expression nesting too deep")

	// ErrColumnNameTooLong is returned when column name is too long
	ErrColumnNameTooLong = errors.New("column name too long")

	// ErrIncomparable is returned when a cell holds a value the predicate
	// language cannot compare.
	ErrIncomparable = errors.New("incomparable values")
)

// ValidateQuery checks the raw expression length.
func ValidateQuery(expr string) error {
	if len(expr) > MaxQueryLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrQueryTooLong, len(expr), MaxQueryLength)
	}
	return nil
}

// ValidateColumnName validates column name length
func ValidateColumnName(name string) error {
	if len(name) > MaxColumnNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrColumnNameTooLong, len(name), MaxColumnNameLength)
	}
	return nil
}

// ValidateTokens validates token count
func ValidateTokens(tokens []Token) error {
	if len(tokens) > MaxTokens {
		return fmt.Errorf("%w: %d tokens (max %d)", ErrTooManyTokens, len(tokens), MaxTokens)
	}
	return nil
}

// ExpressionDepthCounter tracks expression nesting depth
type ExpressionDepthCounter struct {
	depth    int
	maxDepth int
}

// NewExpressionDepthCounter creates a new depth counter
func NewExpressionDepthCounter() *ExpressionDepthCounter {
	return &ExpressionDepthCounter{depth: 0, maxDepth: MaxExpressionDepth}
}

// Enter increments depth and returns error if limit exceeded
func (c *ExpressionDepthCounter) Enter() error {
	c.depth++
	if c.depth > c.maxDepth {
		return fmt.Errorf("%w: %d (max %d)", ErrExpressionTooDeep, c.depth, c.maxDepth)
	}
	return nil
}

// Exit decrements depth
func (c *ExpressionDepthCounter) Exit() {
	c.depth--
}
