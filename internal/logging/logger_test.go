package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewComponentLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	base, err := New("debug", "json", &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	NewComponentLogger(base, "renderer").Info("frame", Float64("time", 1.5))

	out := buf.String()
	if !strings.Contains(out, `"component":"renderer"`) || !strings.Contains(out, `"time":1.5`) {
		t.Errorf("unexpected log line: %s", out)
	}
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	if _, err := New("loud", "text", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New("info", "xml", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestNilBaseIsNoop(t *testing.T) {
	NewComponentLogger(nil, "store").Error("ignored")
}
