package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/csvframe/frame"
)

// CSVFormatter outputs a table as CSV with a header row
type CSVFormatter struct {
	writer io.Writer
	// Comma is the field separator.
	Comma rune
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w, Comma: ','}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the table as CSV. A table without columns writes nothing;
// a table without rows writes only the header.
func (c *CSVFormatter) Format(t *frame.Table) error {
	if t.NumColumns() == 0 {
		return nil
	}

	csvWriter := csv.NewWriter(c.writer)
	csvWriter.Comma = c.Comma

	if err := csvWriter.Write(t.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, t.NumColumns())
	for _, row := range t.ToRows(frame.AllRows) {
		for i, v := range row.Values() {
			record[i] = formatValue(v)
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	// Flush and check for errors
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return nil
}

// formatValue converts a value to string for CSV output
func formatValue(v frame.Value) string {
	if s, ok := v.(string); ok {
		// Sanitize against CSV injection by prefixing dangerous characters
		// that could trigger formula execution in spreadsheet applications
		if len(s) > 0 {
			switch s[0] {
			case '=', '+', '-', '@', '\t', '\r', '\n', '|':
				return "'" + strings.ReplaceAll(s, "'", "''")
			}
		}
		return s
	}
	return frame.FormatValue(v)
}
