package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/doctree/internal/app"
	"github.com/atomicstack/doctree/internal/config"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			Position:   "doc.xml",
			Interval:   time.Second,
			Width:      80,
			Height:     24,
			ShowFooter: true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"position": "doc.xml",
			"interval": "1s",
			"width":    "80",
			"height":   "24",
			"footer":   "true",
		},
		Args: []string{"--footer", "doc.xml"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["position"] != "doc.xml" {
		t.Fatalf("expected position flag %q, got %v", "doc.xml", flagsValue["position"])
	}
	if flagsValue["interval"] != "1s" {
		t.Fatalf("expected interval 1s, got %v", flagsValue["interval"])
	}
	if flagsValue["width"] != "80" {
		t.Fatalf("expected width 80, got %v", flagsValue["width"])
	}
	if flagsValue["footer"] != "true" {
		t.Fatalf("expected footer flag true, got %v", flagsValue["footer"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if cfgValue.App != cfg.App {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, cfgValue.App)
	}
}

func TestKeysSubcommandPrintsPathKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.xml")
	if err := os.WriteFile(path, []byte(`<a><b/><b/></a>`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	root := newRootCommand(nil)
	var out strings.Builder
	root.SetOut(&out)
	root.SetArgs([]string{"keys", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("keys returned error: %v", err)
	}
	for _, key := range []string{"/a", "/a/b[1]", "/a/b[2]"} {
		if !strings.Contains(out.String(), key) {
			t.Fatalf("expected %s in output:\n%s", key, out.String())
		}
	}
}

func TestRootCommandRejectsBadFlags(t *testing.T) {
	root := newRootCommand(nil)
	root.SetArgs([]string{"keys", "--interval", "0s", "doc.xml"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected configuration error")
	}
}
