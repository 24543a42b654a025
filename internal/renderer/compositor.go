// Package renderer composites the active overlays of a store onto a surface
// for a single instant of the media timeline.
package renderer

import (
	"fmt"
	"log/slog"
	"math"
	"unicode/utf8"

	"github.com/ivlev/textoverlay/internal/audiosync"
	"github.com/ivlev/textoverlay/internal/canvas"
	"github.com/ivlev/textoverlay/internal/effects"
	"github.com/ivlev/textoverlay/internal/logging"
	"github.com/ivlev/textoverlay/internal/model"
	"github.com/ivlev/textoverlay/internal/overlay"
)

// Report summarizes one RenderTexts call.
type Report struct {
	Time    float64
	Drawn   int
	Skipped int
	Failed  map[string]error
	// Words holds the spoken word index of every audio-synced element drawn.
	Words map[string]int
}

// Compositor draws a store's overlays. It is stateless between frames, so
// any time may be rendered in any order. It never measures text itself:
// partially typed lines are sized from the advances cached in the geometry.
type Compositor struct {
	store      *overlay.Store
	animations *effects.Registry
	logger     *slog.Logger
}

func New(store *overlay.Store, animations *effects.Registry, logger *slog.Logger) *Compositor {
	if animations == nil {
		animations = effects.MustRegistry()
	}
	return &Compositor{
		store:      store,
		animations: animations,
		logger:     logging.NewComponentLogger(logger, "renderer"),
	}
}

// errorReporter is implemented by surfaces that collect draw errors instead
// of failing the call.
type errorReporter interface {
	TakeErr() error
}

// RenderTexts clears the surface and draws every element active at t in
// store order. A failing element is logged and skipped; the frame goes on.
func (c *Compositor) RenderTexts(s canvas.Surface, t float64) Report {
	rep := Report{Time: t, Failed: map[string]error{}, Words: map[string]int{}}

	s.Clear()
	if r, ok := s.(errorReporter); ok {
		_ = r.TakeErr()
	}
	c.store.EnsureGeometry()

	for _, el := range c.store.GetTexts() {
		if !el.ActiveAt(t) {
			rep.Skipped++
			continue
		}
		word, err := c.drawElement(s, &el, t)
		if err != nil {
			rep.Failed[el.ID] = err
			c.logger.Warn("overlay render failed",
				logging.String("id", el.ID), logging.Float64("time", t), logging.Error(err))
			continue
		}
		rep.Drawn++
		if word != nil {
			rep.Words[el.ID] = *word
		}
	}
	return rep
}

// CurrentWord returns the index of the word being spoken at t for an
// audio-synced element, or -1.
func (c *Compositor) CurrentWord(id string, t float64) (int, error) {
	el, err := c.store.Get(id)
	if err != nil {
		return -1, err
	}
	if el.Animation == nil || el.Animation.AnimationID != effects.AudioSyncID {
		return -1, nil
	}
	return audiosync.Schedule(el.Animation.Timings).IndexAt(t), nil
}

func (c *Compositor) drawElement(s canvas.Surface, el *model.Element, t float64) (word *int, err error) {
	s.Save()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", model.ErrRenderIsolation, r)
			word = nil
		}
		s.Restore()
		if rep, ok := s.(errorReporter); ok {
			if drawErr := rep.TakeErr(); drawErr != nil && err == nil {
				err = fmt.Errorf("%w: %w", model.ErrRenderIsolation, drawErr)
			}
		}
	}()

	tr := c.animations.Apply(el, t)
	st := el.Style

	s.SetGlobalAlpha(st.Opacity * tr.Opacity)
	s.Translate(el.X+tr.TranslateX, el.Y+tr.TranslateY)
	s.Rotate((el.Rotation + tr.Rotation) * math.Pi / 180)
	s.Scale(tr.Scale, tr.Scale)

	w, h := el.Layout.Width, el.Layout.Height
	if bg := canvas.MustColor(st.BackgroundColor); !canvas.Transparent(bg) {
		s.FillRect(-w/2, -h/2, w, h, st.BorderRadius, bg)
	}

	if st.Shadow.Enabled {
		s.SetShadow(canvas.Shadow{
			Color:   canvas.MustColor(st.Shadow.Color),
			Blur:    st.Shadow.Blur,
			OffsetX: st.Shadow.OffsetX,
			OffsetY: st.Shadow.OffsetY,
		})
	}

	fd := st.Font()
	lines := visibleLines(el, tr.VisibleRunes)
	if st.StrokeWidth > 0 {
		stroke := canvas.MustColor(st.StrokeColor)
		for _, ln := range lines {
			s.StrokeText(ln.text, ln.x, ln.y, fd, stroke, st.StrokeWidth)
		}
	}
	fill := canvas.MustColor(st.Color)
	for _, ln := range lines {
		s.FillText(ln.text, ln.x, ln.y, fd, fill)
	}

	if el.Animation != nil && el.Animation.AnimationID == effects.AudioSyncID {
		idx := tr.WordIndex
		word = &idx
	}
	return word, nil
}

type placedLine struct {
	text string
	x, y float64
}

// visibleLines positions the cached lines in element-local coordinates,
// cut to the first limit runes when limit >= 0.
func visibleLines(el *model.Element, limit int) []placedLine {
	g := el.Layout
	pad := el.Style.Padding
	left := -g.Width/2 + pad
	right := g.Width/2 - pad
	top := -g.Height/2 + pad

	out := make([]placedLine, 0, len(g.Lines))
	remaining := limit
	for i, ln := range g.Lines {
		text, width := ln.Text, ln.Width
		if limit >= 0 {
			if remaining <= 0 {
				break
			}
			n := utf8.RuneCountInString(text)
			if remaining < n {
				text = prefix(text, remaining)
				width = ln.PrefixWidth(remaining)
			}
			remaining -= n + 1 // line break
		}
		if text == "" {
			continue
		}
		y := top + g.Ascent + float64(i)*g.LineHeight
		out = append(out, placedLine{text: text, x: alignX(el.Style.TextAlign, g.RTL, left, right, width), y: y})
	}
	return out
}

func alignX(align string, rtl bool, left, right, width float64) float64 {
	switch align {
	case model.AlignStart:
		if rtl {
			return right - width
		}
		return left
	case model.AlignEnd:
		if rtl {
			return left
		}
		return right - width
	case model.AlignLeft:
		return left
	case model.AlignRight:
		return right - width
	default:
		return -width / 2
	}
}

func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
