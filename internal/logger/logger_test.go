package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestInit_Writer(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Writer: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Close()

	InfoCF("api", "request sent", Fields{"status": 200, "elapsed": 15 * time.Millisecond})

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["component"] != "api" {
		t.Errorf("component = %v, want api", line["component"])
	}
	if line["message"] != "request sent" {
		t.Errorf("message = %v, want 'request sent'", line["message"])
	}
	if line["level"] != "info" {
		t.Errorf("level = %v, want info", line["level"])
	}
}

func TestDebugRequiresVerbose(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Writer: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Close()

	DebugCF("chat", "hidden", nil)
	if buf.Len() != 0 {
		t.Errorf("debug output without verbose: %q", buf.String())
	}

	if err := Init(Options{Writer: &buf, Verbose: true}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	DebugCF("chat", "shown", nil)
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug output missing with verbose: %q", buf.String())
	}
}

func TestErrorField(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Writer: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer Close()

	ErrorCF("api", "failed", Fields{"error": errors.New("boom")})
	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Errorf("error field not rendered: %q", buf.String())
	}
}

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "athena.log")
	if err := Init(Options{Path: path}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	WarnCF("commands", "written to file", nil)
	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file content = %q", string(data))
	}
}

func TestNoInitDiscards(t *testing.T) {
	if err := Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// Must not panic with the no-op logger
	InfoCF("chat", "nothing", Fields{"k": "v"})
}
