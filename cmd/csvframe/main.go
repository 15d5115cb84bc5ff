package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/vegasq/csvframe/frame"
	"github.com/vegasq/csvframe/internal/config"
	"github.com/vegasq/csvframe/internal/logging"
	"github.com/vegasq/csvframe/output"
	"github.com/vegasq/csvframe/query"
	"github.com/vegasq/csvframe/reader"
)

func main() {
	// A missing .env is fine; the environment and flags still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	color.NoColor = color.NoColor || !cfg.Output.Color

	ctx := logging.WithRunID(context.Background(), logging.NewRunID())
	logging.FromContext(ctx).Debug("configuration loaded", "config", cfg.String())

	if err := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	sep       string
	strict    bool
	where     string
	selectCol string
	groupBy   string
	agg       string
	describe  bool
	unique    string
	join      string
	on        string
	leftOn    string
	rightOn   string
	how       string
	substring bool
	lsuffix   string
	rsuffix   string
	sortBy    string
	desc      bool
	limit     int
	format    string
	maxWidth  int
	schema    bool
	input     string
}

func parseArgs(cfg *config.Config, args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("csvframe", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.sep, "sep", cfg.Reader.Separator, "Field separator; \"tab\" or \"\\t\" for tabs (default: by file type)")
	fs.BoolVar(&opts.strict, "strict", cfg.Reader.Strict, "Reject rows whose width differs from the header")
	fs.StringVar(&opts.where, "where", "", "Filter rows (e.g., \"age > 30 and dept = 'eng'\")")
	fs.StringVar(&opts.selectCol, "select", "", "Comma separated columns to keep, in order")
	fs.StringVar(&opts.groupBy, "group-by", "", "Group rows by this column")
	fs.StringVar(&opts.agg, "agg", "", "Comma separated col:reducer pairs (reducers: "+strings.Join(reducerNames(), ", ")+")")
	fs.BoolVar(&opts.describe, "describe", false, "Show count, mean, std, min and max per column")
	fs.StringVar(&opts.unique, "unique", "", "Show the distinct values of this column")
	fs.StringVar(&opts.join, "join", "", "Join with another file or glob")
	fs.StringVar(&opts.on, "on", "", "Comma separated key columns present on both sides")
	fs.StringVar(&opts.leftOn, "left-on", "", "Comma separated key columns of the input")
	fs.StringVar(&opts.rightOn, "right-on", "", "Comma separated key columns of the -join file")
	fs.StringVar(&opts.how, "how", string(frame.InnerJoin), "Join mode: inner, left, right, outer")
	fs.BoolVar(&opts.substring, "substring", false, "Match the left key as a whole word inside the right key")
	fs.StringVar(&opts.lsuffix, "lsuffix", "_x", "Suffix for clashing input columns")
	fs.StringVar(&opts.rsuffix, "rsuffix", "_y", "Suffix for clashing -join columns")
	fs.StringVar(&opts.sortBy, "sort", "", "Sort rows by this column (nulls last)")
	fs.BoolVar(&opts.desc, "desc", false, "Sort in descending order")
	fs.IntVar(&opts.limit, "limit", cfg.Output.Limit, "Limit number of rows (-1 = unlimited)")
	fs.StringVar(&opts.format, "f", cfg.Output.Format, "Output format: "+strings.Join(formatNames(), ", "))
	fs.IntVar(&opts.maxWidth, "max-width", cfg.Output.MaxCellWidth, "Truncate table cells to this width (-1 = no limit)")
	fs.BoolVar(&opts.schema, "schema", false, "Show schema information instead of data")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: csvframe [options] <file|glob|url>\n\n")
		fmt.Fprintf(stderr, "Load, filter, group, join and summarize tabular files.\n\n")
		fmt.Fprintf(stderr, "IMPORTANT: All flags must come BEFORE file arguments.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  csvframe data.csv\n")
		fmt.Fprintf(stderr, "  csvframe -f jsonl -where \"age > 30\" data.csv\n")
		fmt.Fprintf(stderr, "  csvframe -group-by dept -agg salary:mean,salary:max data.csv\n")
		fmt.Fprintf(stderr, "  csvframe -describe 'logs/*.csv.gz'\n")
		fmt.Fprintf(stderr, "  csvframe -join depts.csv -on dept_id -how left people.csv\n")
		fmt.Fprintf(stderr, "  csvframe -schema s3://bucket/data.parquet\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch fs.NArg() {
	case 0:
		fs.Usage()
		return nil, errors.New("missing input file argument")
	case 1:
		opts.input = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected one input, got %d (flags must come before the file)", fs.NArg())
	}

	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *options) validate() error {
	if o.limit < -1 {
		return fmt.Errorf("-limit must be -1 or non-negative, got %d", o.limit)
	}
	if o.sep != "" && config.ParseSeparator(o.sep) == 0 {
		return fmt.Errorf("-sep must be a single character other than a quote or line break, got %q", o.sep)
	}

	modes := 0
	for _, set := range []bool{o.describe, o.unique != "", o.groupBy != "" || o.agg != ""} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return errors.New("-describe, -unique and -group-by/-agg cannot be used together")
	}
	if o.schema && (modes > 0 || o.where != "" || o.join != "") {
		return errors.New("-schema cannot be combined with other operations")
	}
	if o.join == "" && (o.on != "" || o.leftOn != "" || o.rightOn != "" || o.substring) {
		return errors.New("join keys given without -join")
	}
	return nil
}

func reducerNames() []string {
	names := make([]string, 0, len(frame.Reducers))
	for name := range frame.Reducers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func formatNames() []string {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return names
}

// run executes one invocation. Results go to stdout, diagnostics to stderr.
func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(cfg, args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	formatter, err := output.New(format, stdout, output.Options{
		Separator:    config.ParseSeparator(opts.sep),
		MaxCellWidth: opts.maxWidth,
	})
	if err != nil {
		return err
	}

	readOpts := reader.ReadOptions{
		Options: reader.Options{
			Separator: config.ParseSeparator(opts.sep),
			Strict:    opts.strict,
		},
		Opener: &reader.Opener{
			S3: reader.S3Options{
				Region:    cfg.S3.Region,
				Endpoint:  cfg.S3.Endpoint,
				AccessKey: cfg.S3.AccessKey,
				SecretKey: cfg.S3.SecretKey,
			},
			HTTP: &http.Client{Timeout: cfg.Reader.HTTPTimeout},
		},
	}

	if opts.schema {
		tbl, err := schemaTable(ctx, opts.input, readOpts, stderr)
		if err != nil {
			return err
		}
		return formatter.Format(tbl)
	}

	tbl, err := load(ctx, opts.input, readOpts)
	if err != nil {
		return err
	}

	tbl, err = transform(ctx, tbl, opts, readOpts)
	if err != nil {
		return err
	}

	logging.WithFields(ctx, "format", format).Debug("writing result", "rows", tbl.NumRows(), "columns", tbl.NumColumns())
	return formatter.Format(tbl)
}

func load(ctx context.Context, input string, readOpts reader.ReadOptions) (*frame.Table, error) {
	log := logging.WithFields(ctx, "input", input)
	log.Debug("loading table")

	tbl, err := reader.ReadGlob(ctx, input, readOpts)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file '%s' not found, please check the path and try again", input)
		}
		return nil, err
	}

	log.Info("table loaded", "rows", tbl.NumRows(), "columns", tbl.NumColumns())
	return tbl, nil
}

// transform applies the requested operations in order: join, filter,
// projection, summary (describe, unique or aggregation), sort and limit.
func transform(ctx context.Context, tbl *frame.Table, opts *options, readOpts reader.ReadOptions) (*frame.Table, error) {
	var err error

	if opts.join != "" {
		right, err := load(ctx, opts.join, readOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to read join input: %w", err)
		}
		tbl, err = tbl.Join(right, frame.JoinOptions{
			On:        splitList(opts.on),
			LeftOn:    splitList(opts.leftOn),
			RightOn:   splitList(opts.rightOn),
			How:       frame.JoinHow(strings.ToLower(opts.how)),
			LSuffix:   opts.lsuffix,
			RSuffix:   opts.rsuffix,
			Substring: opts.substring,
		})
		if err != nil {
			return nil, fmt.Errorf("join failed: %w", err)
		}
		logging.WithFields(ctx, "join", opts.join).Debug("joined", "rows", tbl.NumRows())
	}

	if opts.where != "" {
		f, err := query.Compile(opts.where)
		if err != nil {
			return nil, err
		}
		filtered, err := query.Apply(tbl, f)
		if err != nil {
			return nil, withColumnHint(err, tbl)
		}
		tbl = filtered
		logging.WithFields(ctx, "where", f.String()).Debug("filtered", "rows", tbl.NumRows())
	}

	if names := splitList(opts.selectCol); len(names) > 0 {
		if tbl, err = tbl.Select(names...); err != nil {
			return nil, err
		}
	}

	switch {
	case opts.describe:
		tbl = describeTable(tbl)
	case opts.unique != "":
		values, err := tbl.Unique(opts.unique)
		if err != nil {
			return nil, err
		}
		if tbl, err = frame.NewTable(frame.NewColumn(opts.unique, values...)); err != nil {
			return nil, err
		}
		// Unique has no defined order; sort for stable output unless asked otherwise.
		if opts.sortBy == "" {
			if tbl, err = tbl.SortBy(opts.unique, false); err != nil {
				return nil, err
			}
		}
	case opts.groupBy != "" || opts.agg != "":
		aggs, err := parseAggs(opts.agg, opts.groupBy)
		if err != nil {
			return nil, err
		}
		if tbl, err = aggregate(tbl, opts.groupBy, aggs); err != nil {
			return nil, err
		}
	}

	if opts.sortBy != "" {
		if tbl, err = tbl.SortBy(opts.sortBy, opts.desc); err != nil {
			return nil, err
		}
	}

	if opts.limit >= 0 {
		tbl = tbl.Head(opts.limit)
	}
	return tbl, nil
}

// withColumnHint appends the available columns to a missing column error.
func withColumnHint(err error, tbl *frame.Table) error {
	if !errors.Is(err, frame.ErrMissingColumn) {
		return err
	}
	return fmt.Errorf("%w\n\nAvailable columns: %s", err, strings.Join(tbl.Columns(), ", "))
}

// aggSpec is one -agg entry.
type aggSpec struct {
	column  string
	label   string
	reducer frame.Reducer
}

// parseAggs parses "col:reducer" pairs. A bare reducer name applies to the
// grouping column. With grouping and no pairs, groups are counted.
func parseAggs(list, groupBy string) ([]aggSpec, error) {
	entries := splitList(list)
	if len(entries) == 0 {
		if groupBy == "" {
			return nil, errors.New("-agg is empty")
		}
		entries = []string{"count"}
	}

	aggs := make([]aggSpec, 0, len(entries))
	for _, entry := range entries {
		column, label, found := strings.Cut(entry, ":")
		if !found {
			column, label = groupBy, entry
		}
		column, label = strings.TrimSpace(column), strings.ToLower(strings.TrimSpace(label))
		if column == "" {
			return nil, fmt.Errorf("invalid -agg entry %q: expected col:reducer", entry)
		}
		r, ok := frame.Reducers[label]
		if !ok {
			return nil, fmt.Errorf("unknown reducer %q (valid: %s)", label, strings.Join(reducerNames(), ", "))
		}
		aggs = append(aggs, aggSpec{column: column, label: label, reducer: r})
	}
	return aggs, nil
}

// aggregate reduces tbl per group, or as a whole when groupBy is empty.
// Each aggregation adds one column named column_label.
func aggregate(tbl *frame.Table, groupBy string, aggs []aggSpec) (*frame.Table, error) {
	if groupBy == "" {
		cols := make([]*frame.Column, 0, len(aggs))
		for _, a := range aggs {
			v, err := tbl.Aggregate(a.column, a.reducer)
			if err != nil {
				return nil, err
			}
			cols = append(cols, frame.NewColumn(a.column+"_"+a.label, v))
		}
		return frame.NewTable(cols...)
	}

	groups, err := tbl.GroupBy(groupBy)
	if err != nil {
		return nil, err
	}

	var result *frame.Table
	for _, a := range aggs {
		part, err := groups.Aggregate(a.column, a.label, a.reducer)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = part
			continue
		}
		name := a.column + "_" + a.label
		if result.HasColumn(name) {
			return nil, fmt.Errorf("%w: %q requested twice", frame.ErrDuplicateColumn, name)
		}
		values, _ := part.Column(name)
		if result, err = result.WithColumn(frame.NewColumn(name, values...)); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// describeTable turns Describe output into a table with one row per
// column that has numeric values.
func describeTable(tbl *frame.Table) *frame.Table {
	var rows []frame.Row
	for _, kv := range tbl.Describe().Order {
		rows = append(rows, frame.NewRow(
			[]string{"column", "count", "mean", "std", "min", "max"},
			[]frame.Value{kv.Key, int64(kv.Value.Count), kv.Value.Mean, kv.Value.Std, kv.Value.Min, kv.Value.Max},
		))
	}
	if len(rows) == 0 {
		t, _ := frame.NewTable(
			frame.NewColumn("column"), frame.NewColumn("count"), frame.NewColumn("mean"),
			frame.NewColumn("std"), frame.NewColumn("min"), frame.NewColumn("max"),
		)
		return t
	}
	return frame.FromRows(rows)
}

// schemaTable lists the columns of input. Parquet files report their
// declared schema; other sources are loaded and their values inspected.
// For glob patterns the first match is used.
func schemaTable(ctx context.Context, input string, readOpts reader.ReadOptions, stderr io.Writer) (*frame.Table, error) {
	path := input
	if reader.DetectScheme(input) == reader.SchemeLocal && strings.ContainsAny(input, "*?[") {
		matches, err := filepath.Glob(input)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern: %w", err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match pattern: %s", input)
		}
		path = matches[0]
		if len(matches) > 1 {
			fmt.Fprintf(stderr, "# Showing schema from: %s (%d files matched)\n", path, len(matches))
		}
	}

	var infos []reader.SchemaInfo
	if reader.DetectScheme(path) == reader.SchemeLocal && reader.DetectFormat(path) == reader.FormatParquet && reader.Compression(path) == "" {
		var err error
		if infos, err = reader.ExtractSchemaInfo(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("file '%s' not found, please check the path and try again", path)
			}
			return nil, fmt.Errorf("failed to read schema: %w", err)
		}
	} else {
		tbl, err := load(ctx, path, readOpts)
		if err != nil {
			return nil, err
		}
		infos = reader.TableSchemaInfo(tbl)
	}

	names := []string{"name", "type", "physical_type", "logical_type", "required", "optional", "repeated"}
	cols := make([][]frame.Value, len(names))
	for _, info := range infos {
		for i, v := range []frame.Value{
			info.Name, info.Type, info.PhysicalType, info.LogicalType,
			boolText(info.Required), boolText(info.Optional), boolText(info.Repeated),
		} {
			cols[i] = append(cols[i], v)
		}
	}
	columns := make([]*frame.Column, len(names))
	for i, name := range names {
		columns[i] = frame.NewColumn(name, cols[i]...)
	}
	return frame.NewTable(columns...)
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// splitList splits a comma separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
