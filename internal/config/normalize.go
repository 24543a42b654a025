package config

import (
	"strings"

	"github.com/ivlev/textoverlay/internal/fonts"
)

// Presets maps aspect presets to canvas sizes.
var Presets = map[string][2]int{
	"16:9": {1280, 720},
	"9:16": {720, 1280},
	"4:5":  {1080, 1350},
}

// Normalize applies the preset and fills blanks with defaults.
func (c *Config) Normalize() {
	c.Preset = strings.TrimSpace(c.Preset)
	if size, ok := Presets[c.Preset]; ok {
		c.Width, c.Height = size[0], size[1]
	}
	if strings.TrimSpace(c.DefaultFamily) == "" {
		c.DefaultFamily = fonts.DefaultFamily
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		c.OutputDir = "output"
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	for i := range c.Fonts {
		c.Fonts[i].Family = strings.TrimSpace(c.Fonts[i].Family)
	}
}
