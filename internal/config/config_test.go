package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/textoverlay/internal/fonts"
	"github.com/ivlev/textoverlay/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("missing.toml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Width != want.Width || cfg.Height != want.Height || cfg.FPS != want.FPS || cfg.Duration != want.Duration {
		t.Fatalf("got %+v, want defaults", cfg)
	}
}

func TestLoadFileEnvAndPreset(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "textoverlay.toml", `
preset = "9:16"
fps = 25
duration = 12.5
log_level = "DEBUG"

[[fonts]]
family = "Amiri"
path = "fonts/Amiri-Regular.ttf"
`)
	t.Setenv("TEXTOVERLAY_DURATION", "20")
	t.Setenv("TEXTOVERLAY_SHOW_STATS", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Width != 720 || cfg.Height != 1280 {
		t.Errorf("preset not applied: %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS != 25 {
		t.Errorf("fps = %d, want 25", cfg.FPS)
	}
	if cfg.Duration != 20 || !cfg.ShowStats {
		t.Errorf("env overrides not applied: duration %g stats %v", cfg.Duration, cfg.ShowStats)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
	if len(cfg.Fonts) != 1 || cfg.Fonts[0].Family != "Amiri" {
		t.Errorf("fonts = %+v", cfg.Fonts)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "TEXTOVERLAY_WORKERS=3\n")
	t.Cleanup(func() { os.Unsetenv("TEXTOVERLAY_WORKERS") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 3 {
		t.Fatalf("workers = %d, want 3 from .env", cfg.Workers)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "bad.toml", "widht = 100\n")

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TEXTOVERLAY_FPS", "fast")

	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "TEXTOVERLAY_FPS") {
		t.Fatalf("expected env error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"unknown preset", func(c *Config) { c.Preset = "21:9" }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"font without path", func(c *Config) { c.Fonts = []fonts.Spec{{Family: "X"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, model.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestSampleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	data, err := Sample(Default())
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	path := writeFile(t, dir, "sample.toml", string(data))
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if cfg.Width != 1280 || cfg.OutputDir != "output" {
		t.Fatalf("unexpected %+v", cfg)
	}
}
