package logging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"platter/internal/config"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return string(data)
}

func TestConsoleHandlerWritesComponentAndFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.log")
	logger, err := New(Options{Level: "info", Format: "console", Paths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	Component(logger, "freedb").Info("lookup complete", String(FieldDiscID, "0d023e02"), Int("matches", 2))

	out := readLog(t, path)
	for _, want := range []string{"INFO", "freedb: lookup complete", "disc_id=0d023e02", "matches=2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "component=") {
		t.Fatalf("component should be rendered as prefix, got %q", out)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.log")
	logger, err := New(Options{Format: "console", Paths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("matched", String("title", "Abbey Road"), Error(errors.New("boom")))

	out := readLog(t, path)
	if !strings.Contains(out, `title="Abbey Road"`) {
		t.Fatalf("expected quoted title, got %q", out)
	}
	if !strings.Contains(out, "error=boom") {
		t.Fatalf("expected error field, got %q", out)
	}
}

func TestJSONHandlerRenamesKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "json.log")
	logger, err := New(Options{Level: "info", Format: "json", Paths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("slow server", String(FieldEventType, "freedb_slow"))

	var payload map[string]any
	line := strings.TrimSpace(readLog(t, path))
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("unmarshal %q: %v", line, err)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if payload[FieldEventType] != "freedb_slow" {
		t.Fatalf("unexpected event_type %v", payload[FieldEventType])
	}
}

func TestLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.log")
	logger, err := New(Options{Level: "warn", Format: "console", Paths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	out := readLog(t, path)
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected filtering result %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	cfg := config.Default()
	cfg.Logging.Dir = dir
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Error("drive unavailable")

	if !strings.Contains(readLog(t, filepath.Join(dir, "platter.log")), "drive unavailable") {
		t.Fatal("expected message in platter.log")
	}
}

func TestWithContextAddsCorrelationID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.log")
	logger, err := New(Options{Format: "json", Paths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := WithRequestID(context.Background(), "req-1")
	WithContext(ctx, logger).Info("query")

	if !strings.Contains(readLog(t, path), `"correlation_id":"req-1"`) {
		t.Fatal("expected correlation id in output")
	}
	if id, ok := RequestIDFromContext(context.Background()); ok || id != "" {
		t.Fatalf("expected no request id, got %q", id)
	}
}

func TestWarnInjectsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warn.log")
	logger, err := New(Options{Format: "json", Paths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Warn(logger, "no match", "freedb_no_match", String(FieldErrorHint, "try another server"))

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, path))), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload[FieldErrorHint] != "try another server" {
		t.Fatalf("hint overwritten: %v", payload[FieldErrorHint])
	}
	if payload[FieldImpact] == nil || payload[FieldEventType] != "freedb_no_match" {
		t.Fatalf("expected defaults injected, got %v", payload)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := Component(nil, "test")
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should not be enabled")
	}
	logger.Error("ignored")
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.log")
	logger, err := New(Options{Paths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger = logger.With(String(FieldDevice, "/dev/sr0")).WithGroup("toc")
	logger.Info("read", Int("tracks", 12), slog.Group("leadout", Int("lba", 43069)))

	out := readLog(t, path)
	for _, want := range []string{"device=/dev/sr0", "toc.tracks=12", "toc.leadout.lba=43069"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestErrorNilIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nil.log")
	logger, err := New(Options{Paths: []string{path}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("fine", Error(nil))
	if out := readLog(t, path); strings.Contains(out, "error=") {
		t.Fatalf("nil error rendered: %q", out)
	}
}
