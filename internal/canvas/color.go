package canvas

import (
	"image/color"
	"math"

	"github.com/ivlev/textoverlay/internal/model"
)

// MustColor parses a color that passed validation. Failures map to
// transparent.
func MustColor(s string) color.NRGBA {
	c, _ := model.ParseColor(s)
	return c
}

// WithAlpha scales the alpha of c by a.
func WithAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * math.Max(0, math.Min(1, a))))
	return n
}

// Transparent reports whether c paints nothing.
func Transparent(c color.Color) bool {
	if c == nil {
		return true
	}
	_, _, _, a := c.RGBA()
	return a == 0
}
