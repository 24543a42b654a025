package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitRenderInspect(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := run(t, "init")
	if err != nil {
		t.Fatalf("init: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "textoverlay.toml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(out, "[+++] Sample scenario") {
		t.Fatalf("unexpected init output:\n%s", out)
	}

	png := filepath.Join(dir, "frame.png")
	out, err = run(t, "render", "--time", "3", "--output", png, "--width", "320", "--height", "180")
	if err != nil {
		t.Fatalf("render: %v\n%s", err, out)
	}
	if info, err := os.Stat(png); err != nil || info.Size() == 0 {
		t.Fatalf("frame not written: %v", err)
	}

	out, err = run(t, "inspect", "--time", "6", "--background", "#202020")
	if err != nil {
		t.Fatalf("inspect: %v\n%s", err, out)
	}
	for _, want := range []string{"fill-text", "speaking word 1", "Readability"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestFramesCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if out, err := run(t, "init"); err != nil {
		t.Fatalf("init: %v\n%s", err, out)
	}

	frames := filepath.Join(dir, "frames")
	out, err := run(t, "frames", "--from", "0", "--to", "0.2", "--fps", "10", "--width", "160", "--height", "90", "--output", frames, "--stats")
	if err != nil {
		t.Fatalf("frames: %v\n%s", err, out)
	}
	entries, err := os.ReadDir(frames)
	if err != nil || len(entries) != 3 {
		t.Fatalf("expected 3 frames, got %d (%v)", len(entries), err)
	}
	if !strings.Contains(out, "PERFORMANCE REPORT") {
		t.Errorf("stats not printed:\n%s", out)
	}
}

func TestCatalogCommands(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, "templates")
	if err != nil || !strings.Contains(out, "lower-third") {
		t.Fatalf("templates: %v\n%s", err, out)
	}
	out, err = run(t, "animations")
	if err != nil || !strings.Contains(out, "typing") || !strings.Contains(out, "amplitude=10") {
		t.Fatalf("animations: %v\n%s", err, out)
	}
}

func TestRenderWithoutScenario(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := run(t, "render"); err == nil {
		t.Fatal("expected an error without any scenario")
	}
}
