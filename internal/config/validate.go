package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/textoverlay/internal/logging"
	"github.com/ivlev/textoverlay/internal/model"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Preset != "" {
		if _, ok := Presets[c.Preset]; !ok {
			errs = append(errs, fmt.Errorf("preset: unknown %q", c.Preset))
		}
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) || c.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %g", c.Duration))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log_format: unknown %q", c.LogFormat))
	}
	for i, f := range c.Fonts {
		if f.Family == "" || f.Path == "" {
			errs = append(errs, fmt.Errorf("fonts[%d]: family and path are required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", model.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
