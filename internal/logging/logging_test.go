package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{" WARN ", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"info", log.InfoLevel},
		{"nonsense", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSONOutput(t *testing.T) {
	t.Setenv("TICKLE_DEBUG", "")

	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "info", Format: "json"})
	logger.Debug("hidden")
	logger.Info("task added", "id", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %s", out)
	}
	if !strings.Contains(out, `"msg":"task added"`) || !strings.Contains(out, `"id":3`) {
		t.Errorf("unexpected JSON output: %s", out)
	}
}

func TestDebugEnvForcesDebugLevel(t *testing.T) {
	t.Setenv("TICKLE_DEBUG", "1")

	var buf bytes.Buffer
	logger := New(&buf, Options{Level: "error"})
	logger.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("TICKLE_DEBUG=1 did not enable debug output: %q", buf.String())
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()

	fl, err := OpenFile(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	fl.Info("hello from test")
	if err := fl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(fl.Path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file missing message: %q", data)
	}
}

func TestOpenFileRejectsEmptyDir(t *testing.T) {
	if _, err := OpenFile("", DefaultOptions()); err == nil {
		t.Error("expected error for empty dir")
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"", "text", "JSON", "logfmt"} {
		if !ValidFormat(f) {
			t.Errorf("ValidFormat(%q) = false", f)
		}
	}
	if ValidFormat("xml") {
		t.Error("ValidFormat(xml) = true")
	}
}
