package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWarnAndErrorAppendToConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doctree.log")
	Configure(path)
	defer Configure("")

	Warn("cannot bind %s twice", "session")
	Error(errors.New("fetch failed"))
	Error(nil)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "WARN cannot bind session twice") {
		t.Fatalf("unexpected warn line %q", lines[0])
	}
	if !strings.Contains(lines[1], "ERROR fetch failed") {
		t.Fatalf("unexpected error line %q", lines[1])
	}
}

func TestTraceRespectsToggle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	Configure(path)
	defer Configure("")

	Trace("ignored", nil)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no trace output while disabled")
	}

	SetTraceEnabled(true)
	defer SetTraceEnabled(false)
	if !TraceEnabled() {
		t.Fatalf("expected trace enabled")
	}
	Trace("tree.rebuild", map[string]interface{}{"nodes": 3})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("decode trace: %v", err)
	}
	if entry.Event != "tree.rebuild" {
		t.Fatalf("expected tree.rebuild, got %q", entry.Event)
	}
	if entry.Payload["nodes"] != float64(3) {
		t.Fatalf("expected nodes=3, got %v", entry.Payload["nodes"])
	}
}
