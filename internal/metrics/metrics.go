// Package metrics measures text boxes for overlay layout.
package metrics

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/ivlev/textoverlay/internal/fonts"
	"github.com/ivlev/textoverlay/internal/model"
)

// Size is the measured extent of a (possibly multi-line) text.
type Size struct {
	Width      float64
	Height     float64
	Ascent     float64
	LineHeight float64
	Lines      []model.Line
	RTL        bool
	// Fallback is set when the requested family was not available.
	Fallback bool
}

// Measurer returns the bounding box of text set in a font.
type Measurer interface {
	Measure(text string, fd model.FontDescription) (Size, error)
}

// Generational is implemented by measurers whose results can improve over
// time, e.g. once a font finishes loading.
type Generational interface {
	Generation() uint64
}

// Service measures with faces from a font registry.
type Service struct {
	fonts *fonts.Registry
}

func NewService(reg *fonts.Registry) *Service {
	return &Service{fonts: reg}
}

// Measure sums glyph advances per line. Kerning is ignored so that width never
// shrinks when text grows.
func (s *Service) Measure(text string, fd model.FontDescription) (Size, error) {
	var size Size
	fallback, err := s.fonts.WithFace(fd, func(face font.Face) {
		size = measureFace(face, text, fd.Size)
	})
	if err != nil {
		return Size{}, err
	}
	size.Fallback = fallback
	size.RTL = IsRTL(text)
	return size, nil
}

func (s *Service) Generation() uint64 {
	return s.fonts.Generation()
}

func measureFace(face font.Face, text string, px float64) Size {
	m := face.Metrics()
	lineHeight := toFloat(m.Height)
	if lineHeight <= 0 {
		lineHeight = px * 1.2
	}
	notdef := fixed.Int26_6(math.Round(px * 0.5 * 64))

	lines := strings.Split(text, "\n")
	size := Size{
		Ascent:     toFloat(m.Ascent),
		LineHeight: lineHeight,
		Height:     float64(len(lines)) * lineHeight,
		Lines:      make([]model.Line, len(lines)),
	}
	for i, line := range lines {
		var w fixed.Int26_6
		advances := make([]float64, 0, len(line))
		for _, r := range line {
			adv, ok := face.GlyphAdvance(r)
			if !ok || adv < 0 {
				adv = notdef
			}
			w += adv
			advances = append(advances, toFloat(w))
		}
		width := toFloat(w)
		size.Lines[i] = model.Line{Text: line, Width: width, Advances: advances}
		size.Width = math.Max(size.Width, width)
	}
	return size
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// IsRTL reports whether the first strong character of text is right-to-left.
func IsRTL(text string) bool {
	for _, r := range text {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return true
		case bidi.L:
			return false
		}
	}
	return false
}

// VisualOrder rearranges one line from logical to display order, left to
// right, so that a drawer advancing to the right paints right-to-left runs
// correctly. Right-to-left runs are reversed with their brackets mirrored;
// glyphs are not shaped.
func VisualOrder(line string) string {
	if line == "" {
		return line
	}
	var p bidi.Paragraph
	if _, err := p.SetString(line); err != nil {
		return line
	}
	o, err := p.Order()
	if err != nil || o.NumRuns() == 0 {
		return line
	}

	runs := make([]string, o.NumRuns())
	for i := range runs {
		run := o.Run(i)
		text := run.String()
		if run.Direction() == bidi.RightToLeft {
			text = bidi.ReverseString(text)
		}
		runs[i] = text
	}
	// Runs come in logical order. With a single level of embedding a
	// right-to-left paragraph displays them back to front.
	if IsRTL(line) {
		slices.Reverse(runs)
	}
	return strings.Join(runs, "")
}

// Func adapts a plain function to Measurer.
type Func func(text string, fd model.FontDescription) (Size, error)

func (f Func) Measure(text string, fd model.FontDescription) (Size, error) {
	return f(text, fd)
}

// FixedAdvance measures every rune as ratio·size wide and lines as 1.2·size
// tall. It is deterministic and font independent, which makes it the usual
// choice in tests.
func FixedAdvance(ratio float64) Func {
	return func(text string, fd model.FontDescription) (Size, error) {
		if fd.Size <= 0 {
			return Size{}, model.Invalid("font size must be positive, got %g", fd.Size)
		}
		lines := strings.Split(text, "\n")
		lh := fd.Size * 1.2
		size := Size{
			Ascent:     fd.Size * 0.8,
			LineHeight: lh,
			Height:     float64(len(lines)) * lh,
			Lines:      make([]model.Line, len(lines)),
			RTL:        IsRTL(text),
		}
		for i, line := range lines {
			n := utf8.RuneCountInString(line)
			adv := fd.Size * ratio
			advances := make([]float64, n)
			for k := range advances {
				advances[k] = float64(k+1) * adv
			}
			w := float64(n) * adv
			size.Lines[i] = model.Line{Text: line, Width: w, Advances: advances}
			size.Width = math.Max(size.Width, w)
		}
		return size, nil
	}
}
