package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerIncludesComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	handler := newConsoleHandler(&buf, levelVar)
	logger := NewComponentLogger(slog.New(handler), "pipeline")

	logger.Info("meeting merged", Args(String("meeting", "Weekly Sync"), Int("items", 3))...)

	out := buf.String()
	if !strings.Contains(out, "[pipeline]") {
		t.Fatalf("expected component tag in output: %q", out)
	}
	if !strings.Contains(out, "meeting merged") {
		t.Fatalf("expected message in output: %q", out)
	}
	if !strings.Contains(out, "items=3") {
		t.Fatalf("expected field in output: %q", out)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be suppressed: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newJSONHandler(&buf, levelVar))

	logger.Error("merge failed", Args(Error(nil))...)

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["msg"] != "merge failed" {
		t.Fatalf("unexpected msg field: %v", payload["msg"])
	}
	if payload["level"] != "error" {
		t.Fatalf("unexpected level field: %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatal("expected ts field")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Info("ignored")
}
