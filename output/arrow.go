package output

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/vegasq/csvframe/frame"
)

// ArrowFormatter outputs the table as an Arrow IPC stream holding a single
// record batch
type ArrowFormatter struct {
	writer io.Writer
	// Allocator backs the record; nil selects the Go allocator.
	Allocator memory.Allocator
}

// NewArrowFormatter creates a new Arrow IPC stream formatter
func NewArrowFormatter(w io.Writer) *ArrowFormatter {
	return &ArrowFormatter{writer: w}
}

// SetOutput sets the output writer
func (a *ArrowFormatter) SetOutput(w io.Writer) {
	a.writer = w
}

// Format writes the schema message, one record batch and the end-of-stream
// marker.
func (a *ArrowFormatter) Format(t *frame.Table) error {
	mem := a.Allocator
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	rec := t.ToArrow(mem)
	defer rec.Release()

	w := ipc.NewWriter(a.writer, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := w.Write(rec); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write arrow record: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close arrow stream: %w", err)
	}
	return nil
}
