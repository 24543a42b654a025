package config

import (
	"fmt"
	"strconv"
	"strings"
)

const envPrefix = "TEXTOVERLAY_"

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(envPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = n
		return nil
	}

	str("PRESET", &c.Preset)
	str("FONT_DIR", &c.FontDir)
	str("DEFAULT_FAMILY", &c.DefaultFamily)
	str("TEMPLATES", &c.Templates)
	str("BACKGROUND", &c.Background)
	str("OUTPUT_DIR", &c.OutputDir)
	str("SCENARIO", &c.Scenario)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	for key, dst := range map[string]*int{"WIDTH": &c.Width, "HEIGHT": &c.Height, "FPS": &c.FPS, "WORKERS": &c.Workers} {
		if err := num(key, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(envPrefix + "DURATION"); ok {
		d, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%sDURATION: %w", envPrefix, err)
		}
		c.Duration = d
	}
	if v, ok := lookup(envPrefix + "SHOW_STATS"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%sSHOW_STATS: %w", envPrefix, err)
		}
		c.ShowStats = b
	}
	return nil
}
