// Package source provides the picture the overlays are composited over in a
// preview: a still image, a slideshow of images or a solid color.
package source

import (
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/ivlev/textoverlay/internal/model"
)

// Source yields the background at a point of the timeline.
type Source interface {
	Frame(t float64) (image.Image, error)
	Close() error
}

// Open interprets value as a color first and as an image path otherwise.
// An empty value yields nil and no error.
func Open(value string, duration float64) (Source, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if _, err := os.Stat(value); err != nil {
		if c, cerr := model.ParseColor(value); cerr == nil {
			return NewSolidSource(c), nil
		}
	}
	return NewImageSource(value, duration)
}

// SolidSource is a single color.
type SolidSource struct {
	img *image.Uniform
}

func NewSolidSource(c color.Color) *SolidSource {
	return &SolidSource{img: image.NewUniform(c)}
}

func (s *SolidSource) Frame(float64) (image.Image, error) { return s.img, nil }

func (s *SolidSource) Close() error { return nil }
