// Package effects holds the catalog of overlay animations. Every animation is
// a pure function of (element, time, params); the compositor may call it at
// any time in any order, e.g. after a seek.
package effects

import (
	"math"
	"sort"

	"github.com/ivlev/textoverlay/internal/model"
)

type Category string

const (
	Entrance Category = "entrance"
	Exit     Category = "exit"
	Emphasis Category = "emphasis"
	Text     Category = "text"
)

// Params are the numeric knobs of an animation.
type Params map[string]float64

// Transform is the time-local adjustment an animation contributes to one
// element for one frame.
type Transform struct {
	Opacity    float64 // multiplier on the element opacity
	TranslateX float64
	TranslateY float64
	Scale      float64
	Rotation   float64 // degrees, added to the element rotation
	// VisibleRunes limits the painted text to a prefix; -1 paints everything.
	VisibleRunes int
	// WordIndex is the audio-sync word being spoken; -1 when none.
	WordIndex int
}

// Identity leaves the element as it is.
func Identity() Transform {
	return Transform{Opacity: 1, Scale: 1, VisibleRunes: -1, WordIndex: -1}
}

// ApplyFunc computes the transform of el at time t.
type ApplyFunc func(el *model.Element, t float64, p Params) Transform

// Animation is one named strategy.
type Animation struct {
	ID       string
	Name     string
	Category Category
	Defaults Params
	Apply    ApplyFunc
}

// ParamNames lists the accepted parameter keys in sorted order.
func (a Animation) ParamNames() []string {
	names := make([]string, 0, len(a.Defaults))
	for k := range a.Defaults {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (a Animation) resolve(params map[string]float64) (Params, error) {
	out := make(Params, len(a.Defaults))
	for k, v := range a.Defaults {
		out[k] = v
	}
	for k, v := range params {
		if _, ok := a.Defaults[k]; !ok {
			return nil, model.Invalid("animation %q has no parameter %q", a.ID, k)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, model.Invalid("animation %q parameter %q must be finite", a.ID, k)
		}
		if k == "duration" && v <= 0 {
			return nil, model.Invalid("animation %q duration must be positive", a.ID)
		}
		out[k] = v
	}
	return out, nil
}
