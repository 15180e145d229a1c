package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerWritesJSONWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New().SetOutput(buf).SetLevel(LevelDebug)

	logger.WithField("request_id", "abc").Info("card created", map[string]interface{}{"slug": "a-b-1"})

	var entry LogEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("failed to parse log json: %v", err)
	}
	if entry.Level != "INFO" || entry.Message != "card created" {
		t.Fatalf("unexpected log entry: %+v", entry)
	}
	if entry.Fields["request_id"] != "abc" {
		t.Fatalf("expected WithField value to propagate, got %v", entry.Fields)
	}
	if entry.Fields["slug"] != "a-b-1" {
		t.Fatalf("expected call-site field to propagate, got %v", entry.Fields)
	}
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New().SetOutput(buf).SetLevel(LevelError)

	logger.Debug("ignored")
	logger.Info("ignored")
	logger.Warn("ignored")
	if buf.Len() != 0 {
		t.Fatalf("expected sub-error levels to be filtered, got %q", buf.String())
	}

	logger.Error("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatal("expected error entry to be written")
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		Level(99):  "UNKNOWN",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestDefaultLoggerHelpers(t *testing.T) {
	buf := &bytes.Buffer{}
	orig := Default
	t.Cleanup(func() { Default = orig })
	Default = New().SetOutput(buf).SetLevel(LevelDebug)

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 entries from default helpers, got %d", len(lines))
	}
}
