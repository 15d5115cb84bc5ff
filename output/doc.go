// Package output provides formatters for writing frame tables.
//
// This package defines the Formatter interface and implementations for
// CSV, JSON, JSON Lines, pretty text tables and Arrow IPC streams. Every
// formatter keeps the table's column order.
//
// # Supported Formats
//
//   - CSV: header row plus one record per row, nulls as empty fields
//   - JSON: a single array of objects
//   - JSON Lines: one object per line (suitable for streaming)
//   - Table: a bordered grid for terminals, long cells truncated
//   - Arrow: an Arrow IPC stream with one record batch
//
// # Basic Usage
//
// Picking a formatter by name:
//
//	f, err := output.ParseFormat("jsonl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	formatter, err := output.New(f, os.Stdout, output.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(tbl); err != nil {
//	    log.Fatal(err)
//	}
//
// Using the CSV formatter directly:
//
//	formatter := output.NewCSVFormatter(os.Stdout)
//	formatter.Comma = ';'
//	if err := formatter.Format(tbl); err != nil {
//	    log.Fatal(err)
//	}
//
// # Writing to Different Destinations
//
//	formatter := output.NewJSONLinesFormatter(os.Stdout)
//	formatter.SetOutput(file)
//
// # Type Handling
//
// Ints and floats are written as numbers in JSON and as their display text
// elsewhere. Nulls become JSON null, an empty CSV field or "null" in pretty
// tables. CSV text starting with a formula character (=, +, -, @) is
// prefixed with a single quote so spreadsheets do not evaluate it.
package output
