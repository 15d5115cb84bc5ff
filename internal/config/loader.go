package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vegasq/csvframe/output"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		// Split comma-separated values, trim whitespace
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				result = append(result, p)
			}
		}
		field.Set(reflect.ValueOf(result))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// ParseSeparator maps a separator setting to a rune: a single character,
// or "\t" / "tab" for a tab. It returns 0 when s is not one of these.
func ParseSeparator(s string) rune {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t'
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || r == '"' || r == '\n' || r == '\r' {
		return 0
	}
	return r
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Reader validation
	if c.Reader.Separator != "" && c.Reader.SeparatorRune() == 0 {
		errs = append(errs, fmt.Sprintf("CSVFRAME_SEPARATOR (%q) must be a single character other than a quote or line break", c.Reader.Separator))
	}
	if c.Reader.HTTPTimeout <= 0 {
		errs = append(errs, "CSVFRAME_HTTP_TIMEOUT must be positive")
	}

	// Output validation
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Sprintf("CSVFRAME_FORMAT: %v", err))
	}
	if c.Output.Limit < -1 {
		errs = append(errs, fmt.Sprintf("CSVFRAME_LIMIT (%d) must be -1 or non-negative", c.Output.Limit))
	}
	if c.Output.MaxCellWidth == 0 || c.Output.MaxCellWidth < -1 {
		errs = append(errs, fmt.Sprintf("CSVFRAME_MAX_CELL_WIDTH (%d) must be positive or -1", c.Output.MaxCellWidth))
	}

	// S3 validation
	if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
		errs = append(errs, "CSVFRAME_S3_ACCESS_KEY and CSVFRAME_S3_SECRET_KEY must be set together")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// The S3 secret key is masked.
func (c *Config) String() string {
	secret := ""
	if c.S3.SecretKey != "" {
		secret = "[MASKED]"
	}
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Reader: {Separator: %q, Strict: %v, HTTPTimeout: %s}, ",
		c.Reader.Separator, c.Reader.Strict, c.Reader.HTTPTimeout)
	fmt.Fprintf(&b, "Output: {Format: %q, Limit: %d, MaxCellWidth: %d, Color: %v}, ",
		c.Output.Format, c.Output.Limit, c.Output.MaxCellWidth, c.Output.Color)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}, ",
		c.Logging.Level, c.Logging.Format)
	fmt.Fprintf(&b, "S3: {Region: %q, Endpoint: %q, AccessKey: %q, SecretKey: %s}",
		c.S3.Region, c.S3.Endpoint, c.S3.AccessKey, secret)
	b.WriteString("}")
	return b.String()
}
