package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLookupLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		ok       bool
	}{
		{"debug", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"DEBUG", LevelDebug, true},
		{"Warning", LevelWarn, true},
		{"dEbUg", LevelDebug, true},
		{"", LevelInfo, true},
		{"trace", LevelInfo, false},
		{"fatal", LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, ok := LookupLevel(tt.input)
			if level != tt.expected || ok != tt.ok {
				t.Errorf("LookupLevel(%q) = %v, %v; want %v, %v", tt.input, level, ok, tt.expected, tt.ok)
			}
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText}, // unrecognized defaults to text
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNew_JSONFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	log.Info("dropped")
	log.Warn("kept", "port", 5000)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if rec["msg"] != "kept" || rec["port"] != float64(5000) {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestForSurface(t *testing.T) {
	var buf bytes.Buffer
	log := ForSurface(New(Config{Output: &buf}), "memo")
	log.Info("hello")

	if !strings.Contains(buf.String(), "surface=memo") {
		t.Errorf("missing surface attribute: %q", buf.String())
	}

	// A nil logger must not panic.
	ForSurface(nil, "inventory").Info("discarded")
}

func TestOpen_TeesIntoFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "recstore.log")

	log, closeFn, err := Open(Config{Level: LevelInfo, Output: &buf, File: path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	log.With("surface", "memo").Info("started", "port", 5000)
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if !strings.Contains(buf.String(), "started") {
		t.Errorf("console output missing record: %q", buf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("file output is not JSON: %v", err)
	}
	if rec["surface"] != "memo" {
		t.Errorf("file record lost attrs: %v", rec)
	}
}

func TestOpen_WithoutFile(t *testing.T) {
	log, closeFn, err := Open(Config{Output: &bytes.Buffer{}})
	if err != nil || log == nil || closeFn == nil {
		t.Fatalf("Open() = %v, %v, %v", log, closeFn, err)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestOpen_BadPath(t *testing.T) {
	_, _, err := Open(Config{File: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	if err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
