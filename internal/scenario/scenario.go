// Package scenario reads and writes overlay scenarios: YAML documents that
// describe a canvas and the overlays placed on it.
package scenario

import (
	"github.com/ivlev/textoverlay/internal/fonts"
	"github.com/ivlev/textoverlay/internal/model"
)

const Version = "1.0"

// Scenario is a complete set of overlays for one video.
type Scenario struct {
	Version  string       `yaml:"version"`
	Width    int          `yaml:"width,omitempty"`
	Height   int          `yaml:"height,omitempty"`
	Duration float64      `yaml:"duration,omitempty"`
	Fonts    []fonts.Spec `yaml:"fonts,omitempty"`
	Overlays []Overlay    `yaml:"overlays"`
}

// Overlay is one text element. Template is applied first; the inline
// options override it.
type Overlay struct {
	Template      string             `yaml:"template,omitempty"`
	model.Options `yaml:",inline"`
	Animation     *Animation         `yaml:"animation,omitempty"`
	Words         []model.WordTiming `yaml:"words,omitempty"`
}

// Animation binds a catalog animation by id.
type Animation struct {
	ID     string             `yaml:"id"`
	Params map[string]float64 `yaml:"params,omitempty"`
}
