// Package reader loads delimited text and Parquet data into frame tables.
//
// Delimited text is tokenized with RFC 4180 style quoting and every field
// is typed as an int, a float or text. Sources may be local paths,
// file://, http(s):// or s3:// locations, optionally compressed with gzip,
// zstd, lz4 or brotli (picked by the .gz, .zst, .lz4 or .br suffix).
//
// # Basic Usage
//
// Parsing a stream or a local file:
//
//	tbl, err := reader.Parse(strings.NewReader("a,b\n1,\"x,y\"\n"), reader.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tbl, err = reader.ParseFile("people.csv", reader.Options{Separator: ';'})
//
// Reading any supported location, with the format taken from the extension:
//
//	tbl, err := reader.ReadTable(ctx, "s3://bucket/exports/sales.csv.gz", reader.ReadOptions{
//	    Opener: &reader.Opener{S3: reader.S3Options{Region: "eu-north-1"}},
//	})
//
// # Multi-file Operations
//
// Reading every file matching a glob pattern:
//
//	tbl, err := reader.ReadGlob(ctx, "data/*.csv", reader.ReadOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Each row carries a "_file" column with its source path
//	files, _ := tbl.Column("_file")
//
// # Schema Introspection
//
// Listing the columns of a Parquet file:
//
//	infos, err := reader.ExtractSchemaInfo("data.parquet")
//	for _, info := range infos {
//	    fmt.Printf("%s: %s\n", info.Name, info.Type)
//	}
//
// TableSchemaInfo gives the same listing for a loaded table.
//
// # Errors
//
// Undecodable input fails with frame.ErrMalformedSource. With
// Options.Strict, a row whose width differs from the header fails with
// frame.ErrMalformedRow; otherwise short rows are padded with nulls.
package reader
