package output

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/csvframe/frame"
)

// nullText is shown for null cells in pretty tables.
const nullText = "null"

// TableFormatter outputs a table as an aligned, bordered text grid
type TableFormatter struct {
	writer io.Writer
	// MaxCellWidth truncates wider cells, measured in terminal columns.
	// Zero or less disables truncation.
	MaxCellWidth int
}

// NewTableFormatter creates a new pretty table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w, MaxCellWidth: DefaultMaxCellWidth}
}

// SetOutput sets the output writer
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders the table with a row count caption. Numeric columns are
// right-aligned.
func (f *TableFormatter) Format(t *frame.Table) error {
	if t.NumColumns() == 0 {
		_, err := fmt.Fprintln(f.writer, "(no columns)")
		return err
	}

	tw := tablewriter.NewWriter(f.writer)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeader(f.cells(t.Columns()))
	tw.SetColumnAlignment(columnAlignment(t))
	tw.SetCaption(true, rowCount(t.NumRows()))

	for _, row := range t.ToRows(frame.AllRows) {
		record := make([]string, 0, row.Len())
		for _, v := range row.Values() {
			if v == nil {
				record = append(record, nullText)
				continue
			}
			record = append(record, frame.FormatValue(v))
		}
		tw.Append(f.cells(record))
	}

	tw.Render()
	return nil
}

func (f *TableFormatter) cells(record []string) []string {
	if f.MaxCellWidth <= 0 {
		return record
	}
	for i, s := range record {
		if runewidth.StringWidth(s) > f.MaxCellWidth {
			record[i] = runewidth.Truncate(s, f.MaxCellWidth, "...")
		}
	}
	return record
}

func columnAlignment(t *frame.Table) []int {
	align := make([]int, t.NumColumns())
	for i, name := range t.Columns() {
		values, _ := t.Column(name)
		align[i] = tablewriter.ALIGN_LEFT
		if frame.ArrowType(values).ID() != arrow.STRING {
			align[i] = tablewriter.ALIGN_RIGHT
		}
	}
	return align
}

func rowCount(n int) string {
	if n == 1 {
		return "1 row"
	}
	return fmt.Sprintf("%d rows", n)
}
