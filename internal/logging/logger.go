// Package logging configures structured logging using log/slog.
//
// Each CLI invocation gets a run id that is attached to every log entry
// made through FromContext, so the entries of one run can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type runIDKey struct{}

// Setup configures the global slog logger based on level and format.
// Logs go to stderr so they never mix with table output on stdout.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	slog.SetDefault(New(os.Stderr, level, format))
}

// New returns a logger writing to w with the given level and format.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewRunID returns a fresh run id.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID stores a run id in ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id stored in ctx, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// FromContext returns the default logger, with a run_id attribute when
// ctx carries one.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if id := RunID(ctx); id != "" {
		logger = logger.With("run_id", id)
	}
	return logger
}

// WithFields returns a logger with additional structured fields.
//
// Usage:
//
//	log := logging.WithFields(ctx, "input", path)
//	log.Info("table loaded", "rows", tbl.NumRows())
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
