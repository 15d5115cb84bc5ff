// Package config loads csvframe settings from environment variables with
// defaults, and validates them on startup so a bad value fails fast.
package config

import "time"

// Config holds all CLI configuration. Command-line flags override these
// values.
type Config struct {
	Reader  ReaderConfig
	Output  OutputConfig
	Logging LoggingConfig
	S3      S3Config
}

// ReaderConfig holds input parsing settings.
type ReaderConfig struct {
	// Separator is the field separator; "\t" or "tab" selects a tab. Empty
	// picks by file type: tab for .tsv, comma otherwise (default: empty)
	Separator string `env:"CSVFRAME_SEPARATOR"`

	// Strict rejects rows whose width differs from the header (default: false)
	Strict bool `env:"CSVFRAME_STRICT" default:"false"`

	// HTTPTimeout bounds a whole http(s) download (default: 5m)
	HTTPTimeout time.Duration `env:"CSVFRAME_HTTP_TIMEOUT" default:"5m"`
}

// OutputConfig holds result rendering settings.
type OutputConfig struct {
	// Format is one of csv, json, jsonl, table, arrow (default: table)
	Format string `env:"CSVFRAME_FORMAT" default:"table"`

	// Limit caps the number of rows written; -1 writes all (default: -1)
	Limit int `env:"CSVFRAME_LIMIT" default:"-1"`

	// MaxCellWidth truncates pretty table cells; -1 disables (default: 40)
	MaxCellWidth int `env:"CSVFRAME_MAX_CELL_WIDTH" default:"40"`

	// Color enables coloured error messages (default: true)
	Color bool `env:"CSVFRAME_COLOR" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// S3Config holds credentials and endpoint for s3:// inputs. Empty values
// fall back to the default AWS configuration chain.
type S3Config struct {
	// Region is the bucket region (default: us-east-1)
	Region string `env:"AWS_REGION" envAlt:"AWS_DEFAULT_REGION" default:"us-east-1"`

	// Endpoint points at an S3-compatible service such as MinIO
	Endpoint string `env:"CSVFRAME_S3_ENDPOINT"`

	// AccessKey and SecretKey are static credentials; set both or neither
	AccessKey string `env:"CSVFRAME_S3_ACCESS_KEY"`
	SecretKey string `env:"CSVFRAME_S3_SECRET_KEY"`
}

// SeparatorRune returns the configured separator as a rune, mapping the
// spellings "\t" and "tab" to a tab. It returns 0 when unset or invalid.
func (c *ReaderConfig) SeparatorRune() rune {
	return ParseSeparator(c.Separator)
}
