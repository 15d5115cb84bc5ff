package reader

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/vegasq/csvframe/frame"
)

// Format is the data format of a source.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatTSV     Format = "tsv"
	FormatParquet Format = "parquet"
)

// FileColumn is the column ReadGlob adds to record each row's source.
const FileColumn = "_file"

// maxGlobFiles caps how many files one pattern may load.
const maxGlobFiles = 1000

// DetectFormat infers the format from the extension that remains after
// any compression suffix. Unknown extensions are read as CSV.
func DetectFormat(location string) Format {
	switch strings.ToLower(path.Ext(stripCompression(location))) {
	case ".tsv", ".tab":
		return FormatTSV
	case ".parquet", ".pq":
		return FormatParquet
	default:
		return FormatCSV
	}
}

// ReadOptions configures ReadTable and ReadGlob.
type ReadOptions struct {
	Options

	// Format overrides extension based detection.
	Format Format

	// Opener resolves locations; nil uses the default AWS and HTTP setup.
	Opener *Opener
}

func (o ReadOptions) opener() *Opener {
	if o.Opener == nil {
		return &Opener{}
	}
	return o.Opener
}

// ReadTable loads a local path, file://, http(s):// or s3:// location.
func ReadTable(ctx context.Context, location string, opts ReadOptions) (*frame.Table, error) {
	return readTable(ctx, opts.opener(), location, opts)
}

func readTable(ctx context.Context, opener *Opener, location string, opts ReadOptions) (*frame.Table, error) {
	rc, err := opener.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	format := opts.Format
	if format == "" {
		format = DetectFormat(location)
	}

	switch format {
	case FormatCSV:
		return Parse(rc, opts.Options)
	case FormatTSV:
		csvOpts := opts.Options
		if csvOpts.Separator == 0 {
			csvOpts.Separator = '\t'
		}
		return Parse(rc, csvOpts)
	case FormatParquet:
		br, err := readSeekable(rc)
		if err != nil {
			return nil, err
		}
		return ReadParquet(br, br.Size())
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

// ReadGlob loads every local file matching pattern and stacks them with
// frame.Concat. Each row is tagged with a "_file" column holding its source
// path, replacing any column of that name. A location without glob
// characters is read like ReadTable, without the extra column.
//
// Examples:
//   - "data/*.csv" - all CSV files in data
//   - "data/2024-*.csv.gz" - compressed CSV files starting with 2024-
//   - "data/*/*.parquet" - Parquet files one directory down
func ReadGlob(ctx context.Context, pattern string, opts ReadOptions) (*frame.Table, error) {
	opener := opts.opener()
	if DetectScheme(pattern) != SchemeLocal || !strings.ContainsAny(pattern, "*?[") {
		return readTable(ctx, opener, pattern, opts)
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxGlobFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxGlobFiles)
	}

	tables := make([]*frame.Table, 0, len(matches))
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t, err := readTable(ctx, opener, match, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", match, err)
		}

		files := make([]frame.Value, t.NumRows())
		for i := range files {
			files[i] = match
		}
		t, err = t.WithColumn(&frame.Column{Name: FileColumn, Values: files})
		if err != nil {
			return nil, fmt.Errorf("failed to tag rows from %s: %w", match, err)
		}
		tables = append(tables, t)
	}
	return frame.Concat(tables...), nil
}
