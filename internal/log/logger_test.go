package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
)

func TestLoggerAppendAndReadAll(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if want := filepath.Join(dir, ".elicit", "log.jsonl"); l.Path() != want {
		t.Errorf("Path() = %q, want %q", l.Path(), want)
	}

	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	events := []LogEvent{
		{Time: at, Event: EventSessionStarted, ProjectID: "p1", SenderID: "user_1"},
		{Event: EventExchangeCompleted, ProjectID: "p1", MessageID: 3, DurationMs: 12},
		{Event: EventExportCompleted, ProjectID: "p1", File: "requirements_p1_2026-10-14.txt"},
	}
	for _, e := range events {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append(%s): %v", e.Event, err)
		}
	}

	got, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("ReadAll returned %d events, want %d", len(got), len(events))
	}
	if !got[0].Time.Equal(at) {
		t.Errorf("explicit time not kept: %v", got[0].Time)
	}
	if got[1].Time.IsZero() {
		t.Error("zero time should be filled in on append")
	}
	if got[1].MessageID != 3 || got[1].DurationMs != 12 {
		t.Errorf("exchange event = %+v", got[1])
	}
	if got[2].File != events[2].File {
		t.Errorf("File = %q, want %q", got[2].File, events[2].File)
	}
}

func TestLoggerDoesNotTruncate(t *testing.T) {
	dir := t.TempDir()
	first, err := NewLogger(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Append(LogEvent{Event: EventSessionStarted}); err != nil {
		t.Fatal(err)
	}

	second, err := NewLogger(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := second.Append(LogEvent{Event: EventSessionStopped}); err != nil {
		t.Fatal(err)
	}

	got, err := second.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events after reopening, want 2", len(got))
	}
}

func TestReadAllMissingFile(t *testing.T) {
	l := &Logger{path: filepath.Join(t.TempDir(), "absent.jsonl")}
	got, err := l.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll on missing file: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no events, got %d", len(got))
	}
}

func TestReadAllMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.jsonl")
	content := "{\"event\":\"session_started\"}\n\nnot json\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	l := &Logger{path: path}
	if _, err := l.ReadAll(); err == nil {
		t.Fatal("expected parse error for malformed line")
	}
}

func TestFilter(t *testing.T) {
	events := []LogEvent{
		{Event: EventSessionStarted},
		{Event: EventExchangeFailed},
		{Event: EventExchangeCompleted},
		{Event: EventExchangeFailed},
	}

	got := Filter(events, EventExchangeFailed, EventExchangeCompleted)
	if len(got) != 3 {
		t.Fatalf("Filter returned %d events, want 3", len(got))
	}
	if len(Filter(events)) != 0 {
		t.Error("Filter with no kinds should return nothing")
	}
}

func TestNewDiagnostics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "elicit.log")
	logger, err := NewDiagnostics("warn", false, path)
	if err != nil {
		t.Fatalf("NewDiagnostics: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read diagnostics file: %v", err)
	}
	if got := string(data); !strings.Contains(got, "kept") || strings.Contains(got, "dropped") {
		t.Errorf("unexpected diagnostics output: %s", got)
	}

	verbose, err := NewDiagnostics("error", true, "")
	if err != nil {
		t.Fatal(err)
	}
	if !verbose.Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose logger should enable debug")
	}

	if _, err := NewDiagnostics("chatty", false, ""); err == nil {
		t.Error("expected error for unknown level")
	}
}
