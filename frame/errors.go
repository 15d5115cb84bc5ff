package frame

import "errors"

// Sentinel errors returned by table operators. Callers match them with
// errors.Is; returned errors wrap these with the offending name or index.
var (
	// ErrMissingColumn is returned when an operation references a column
	// that does not exist in the table.
	ErrMissingColumn = errors.New("missing column")

	// ErrIndexOutOfRange is returned for a row index outside [0, NumRows).
	ErrIndexOutOfRange = errors.New("row index out of range")

	// ErrDuplicateColumn is returned when a table would contain two columns
	// with the same name.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrRaggedColumns is returned when columns of one table differ in length.
	ErrRaggedColumns = errors.New("columns differ in length")

	// ErrConflictingJoinSpec is returned when On is combined with LeftOn/RightOn.
	ErrConflictingJoinSpec = errors.New("cannot specify both on and left_on/right_on")

	// ErrMismatchedKeyArity is returned when LeftOn/RightOn are missing or
	// have a different number of columns.
	ErrMismatchedKeyArity = errors.New("left_on and right_on must both be set with the same number of columns")

	// ErrMissingJoinKey is returned when a join key column is absent on its side.
	ErrMissingJoinKey = errors.New("join key not found")

	// ErrInvalidJoinMode is returned for a How value outside inner, left, right, outer.
	ErrInvalidJoinMode = errors.New("how must be one of: inner, left, right, outer")

	// ErrUnsupportedKeyArity is returned when substring matching is asked to
	// join on more than one column.
	ErrUnsupportedKeyArity = errors.New("substring matching only supports single-column joins")

	// ErrUnsupportedJoinMode is returned when substring matching is combined
	// with a right or outer join.
	ErrUnsupportedJoinMode = errors.New("substring matching only supports inner and left joins")

	// ErrMalformedSource is returned when a source cannot be read or decoded.
	ErrMalformedSource = errors.New("malformed source")

	// ErrMalformedRow is returned by strict parsing for a row whose width
	// differs from the header.
	ErrMalformedRow = errors.New("malformed row")
)
