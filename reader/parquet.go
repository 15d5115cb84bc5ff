package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/csvframe/frame"
)

// ParquetReader loads Parquet data into tables.
//
// It keeps the underlying handle (when it owns one) next to the parquet
// file so Close can release it.
type ParquetReader struct {
	closer io.Closer
	pqFile *parquet.File
}

// NewParquetReader opens the Parquet file at path.
//
// Example:
//
//	pr, err := NewParquetReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pr.Close()
func NewParquetReader(path string) (*ParquetReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pr, err := newParquetReader(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	pr.closer = file
	return pr, nil
}

func newParquetReader(r io.ReaderAt, size int64) (*ParquetReader, error) {
	pqFile, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open parquet file: %w", frame.ErrMalformedSource, err)
	}
	return &ParquetReader{pqFile: pqFile}, nil
}

// ReadParquet loads Parquet data held in r.
func ReadParquet(r io.ReaderAt, size int64) (*frame.Table, error) {
	pr, err := newParquetReader(r, size)
	if err != nil {
		return nil, err
	}
	return pr.ReadTable()
}

// ReadTable reads every row into a table whose columns follow the
// top-level schema fields. Integers and floats keep their numeric kind,
// byte arrays become text, booleans become "true"/"false", and timestamps
// become RFC 3339 text. Nested values are rendered as text.
func (r *ParquetReader) ReadTable() (*frame.Table, error) {
	fields := r.pqFile.Schema().Fields()
	names := make([]string, len(fields))
	data := make([][]frame.Value, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	for {
		row := make(map[string]interface{})
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		for i, name := range names {
			data[i] = append(data[i], parquetValue(row[name]))
		}
	}

	cols := make([]*frame.Column, len(names))
	for i, name := range names {
		cols[i] = &frame.Column{Name: name, Values: data[i]}
	}
	return frame.NewTable(cols...)
}

func parquetValue(v interface{}) frame.Value {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	}

	n := frame.Normalize(v)
	if frame.KindOf(n) == frame.KindOther {
		return fmt.Sprint(n)
	}
	return n
}

// Schema returns the parquet file schema.
func (r *ParquetReader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Close releases the file handle, if the reader opened one. It is safe to
// call Close multiple times.
func (r *ParquetReader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
