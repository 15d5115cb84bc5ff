package output

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/segmentio/encoding/json"

	"github.com/vegasq/csvframe/frame"
)

// JSONLinesFormatter outputs rows as JSON Lines format
type JSONLinesFormatter struct {
	writer io.Writer
}

// NewJSONLinesFormatter creates a new JSON Lines formatter
func NewJSONLinesFormatter(w io.Writer) *JSONLinesFormatter {
	return &JSONLinesFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONLinesFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per row, keys in column order
func (j *JSONLinesFormatter) Format(t *frame.Table) error {
	bw := bufio.NewWriter(j.writer)
	var buf []byte
	for _, row := range t.ToRows(frame.AllRows) {
		var err error
		if buf, err = appendObject(buf[:0], row); err != nil {
			return err
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
	}
	return bw.Flush()
}

// JSONFormatter outputs the table as a single JSON array of objects
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON array formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes the rows as a JSON array followed by a newline. An empty
// table writes [].
func (j *JSONFormatter) Format(t *frame.Table) error {
	buf := []byte{'['}
	for i, row := range t.ToRows(frame.AllRows) {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		if buf, err = appendObject(buf, row); err != nil {
			return err
		}
	}
	buf = append(buf, ']', '\n')
	if _, err := j.writer.Write(buf); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// appendObject encodes row as a JSON object preserving column order.
func appendObject(buf []byte, row frame.Row) ([]byte, error) {
	buf = append(buf, '{')
	for i, name := range row.Names() {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("failed to encode column name %q: %w", name, err)
		}
		buf = append(buf, key...)
		buf = append(buf, ':')

		val, err := marshalValue(row.Value(name))
		if err != nil {
			return nil, fmt.Errorf("failed to encode column %q: %w", name, err)
		}
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}

// marshalValue encodes a cell. Non-finite floats become null and values
// with no JSON form fall back to their display text.
func marshalValue(v frame.Value) ([]byte, error) {
	switch val := frame.Normalize(v).(type) {
	case nil:
		return []byte("null"), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(val)
	case int64, string, bool:
		return json.Marshal(val)
	default:
		if b, err := json.Marshal(val); err == nil {
			return b, nil
		}
		return json.Marshal(frame.FormatValue(val))
	}
}
