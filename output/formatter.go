package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/vegasq/csvframe/frame"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to write a table in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t *frame.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Format names an output format.
type Format string

const (
	FormatCSV       Format = "csv"
	FormatJSON      Format = "json"
	FormatJSONLines Format = "jsonl"
	FormatTable     Format = "table"
	FormatArrow     Format = "arrow"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatJSON, FormatJSONLines, FormatTable, FormatArrow}

// DefaultMaxCellWidth is the pretty table cell limit used when
// Options.MaxCellWidth is zero.
const DefaultMaxCellWidth = 40

// Options tune the formatters built by New. Zero values select defaults.
type Options struct {
	// Separator is the CSV field separator (default ',').
	Separator rune
	// MaxCellWidth truncates pretty table cells wider than this many
	// terminal columns; a negative value disables truncation.
	MaxCellWidth int
	// Allocator backs Arrow records (default: the Go allocator).
	Allocator memory.Allocator
}

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want one of %s)", name, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// New returns the formatter for f writing to w.
func New(f Format, w io.Writer, opts Options) (Formatter, error) {
	switch f {
	case FormatCSV:
		c := NewCSVFormatter(w)
		if opts.Separator != 0 {
			c.Comma = opts.Separator
		}
		return c, nil
	case FormatJSON:
		return NewJSONFormatter(w), nil
	case FormatJSONLines:
		return NewJSONLinesFormatter(w), nil
	case FormatTable:
		t := NewTableFormatter(w)
		if opts.MaxCellWidth != 0 {
			t.MaxCellWidth = opts.MaxCellWidth
		}
		return t, nil
	case FormatArrow:
		a := NewArrowFormatter(w)
		a.Allocator = opts.Allocator
		return a, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", f, formatList())
	}
}
