package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNew_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "rows", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["rows"] != float64(3) {
		t.Errorf("entry = %v", entry)
	}
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "TEXT").Debug("parsed", "file", "a.csv")
	if !strings.Contains(buf.String(), "msg=parsed") || !strings.Contains(buf.String(), "file=a.csv") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithFields_RunID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(&buf, "info", "text"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	id := NewRunID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewRunID() = %q is not a uuid: %v", id, err)
	}

	ctx := WithRunID(context.Background(), id)
	if RunID(ctx) != id {
		t.Errorf("RunID() = %q, want %q", RunID(ctx), id)
	}
	WithFields(ctx, "step", "load").Info("done")

	out := buf.String()
	if !strings.Contains(out, "run_id="+id) || !strings.Contains(out, "step=load") {
		t.Errorf("log output = %q", out)
	}

	buf.Reset()
	FromContext(context.Background()).Info("plain")
	if strings.Contains(buf.String(), "run_id") {
		t.Errorf("log without run id = %q", buf.String())
	}
}
