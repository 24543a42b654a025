// Package config loads the settings of the overlay preview: canvas size,
// timeline, fonts and output.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ivlev/textoverlay/internal/fonts"
)

// Config holds everything the CLI and the preview engine need.
type Config struct {
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	Preset   string  `toml:"preset"`
	FPS      int     `toml:"fps"`
	Duration float64 `toml:"duration"`
	Workers  int     `toml:"workers"`

	FontDir       string       `toml:"font_dir"`
	Fonts         []fonts.Spec `toml:"fonts"`
	DefaultFamily string       `toml:"default_family"`

	// Templates is an optional YAML file extending the built-in catalog.
	Templates string `toml:"templates"`

	// Background is an image path or a color; empty renders on transparent.
	Background string `toml:"background"`
	OutputDir  string `toml:"output_dir"`
	Scenario   string `toml:"scenario"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	ShowStats bool   `toml:"show_stats"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Width:         1280,
		Height:        720,
		FPS:           30,
		Duration:      10,
		DefaultFamily: fonts.DefaultFamily,
		OutputDir:     "output",
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load builds a config from defaults, the TOML file at path, a .env file in
// the working directory and TEXTOVERLAY_* variables, in that order. A
// missing file at path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("open config: %w", err)
		default:
			defer file.Close()
			if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Sample renders cfg as TOML for `textoverlay init`.
func Sample(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
