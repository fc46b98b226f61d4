package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewProdLogsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("prod", WithWriter(&buf))

	log.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (output %q)", err, buf.String())
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want value", entry["key"])
	}
}

func TestNewDevLogsText(t *testing.T) {
	var buf bytes.Buffer
	log := New("dev", WithWriter(&buf))

	log.Info("hello dev")

	out := buf.String()
	if !strings.Contains(out, "hello dev") {
		t.Errorf("output %q does not contain message", out)
	}
	if json.Valid(buf.Bytes()) {
		t.Error("dev output should be human-readable, not JSON")
	}
}

func TestNewLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New("prod", WithWriter(&buf), WithLevel("warn"))

	log.Info("dropped")
	log.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info entry should have been filtered at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn entry missing")
	}
}

func TestNewLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "gateway.log")

	var buf bytes.Buffer
	log := New("prod", WithWriter(&buf), WithLogFile(logPath))

	log.Info("to file")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file %q does not contain entry", data)
	}
	if !strings.Contains(buf.String(), "to file") {
		t.Error("console output missing entry")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{" Error ", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
