package overlay

import (
	"math"

	"github.com/ivlev/textoverlay/internal/logging"
	"github.com/ivlev/textoverlay/internal/metrics"
	"github.com/ivlev/textoverlay/internal/model"
)

// measure recomputes the cached geometry of el. It must be called with mu held
// for writing, or on an element not yet shared. A failing measurer degrades to
// an estimate that is retried on the next EnsureGeometry.
func (s *Store) measure(el *model.Element) {
	fd := el.Style.Font()
	size, err := s.measurer.Measure(el.Text, fd)
	if err != nil {
		s.logger.Warn("measure failed, estimating geometry",
			logging.String("id", el.ID), logging.String("font", fd.String()), logging.Error(err))
		size = estimate(el.Text, fd)
	}

	pad := el.Style.Padding
	el.Layout = model.Geometry{
		Key:        el.Key(),
		Width:      size.Width + 2*pad,
		Height:     size.Height + 2*pad,
		Ascent:     size.Ascent,
		LineHeight: size.LineHeight,
		Lines:      size.Lines,
		RTL:        size.RTL,
		Fallback:   size.Fallback || err != nil,
		Generation: s.generation(),
	}
	el.Layout.MarkValid()
	el.Width, el.Height = el.Layout.Width, el.Layout.Height
}

func (s *Store) generation() uint64 {
	if g, ok := s.measurer.(metrics.Generational); ok {
		return g.Generation()
	}
	return 0
}

func estimate(text string, fd model.FontDescription) metrics.Size {
	m := metrics.FixedAdvance(0.5)
	if fd.Size <= 0 {
		fd.Size = 16
	}
	size, _ := m.Measure(text, fd)
	size.Fallback = true
	return size
}

// stale reports whether el needs measuring before it is drawn.
func (s *Store) stale(el *model.Element, gen uint64) bool {
	return el.GeometryStale() || (el.Layout.Fallback && gen > el.Layout.Generation)
}

// EnsureGeometry re-measures every overlay whose geometry is stale: the
// content changed, or it was measured with a fallback font and fonts have
// arrived since. It returns the number of overlays measured. The compositor
// calls it once per frame; it is cheap when nothing is stale.
func (s *Store) EnsureGeometry() int {
	gen := s.generation()

	s.mu.RLock()
	dirty := false
	for _, el := range s.elements {
		if s.stale(el, gen) {
			dirty = true
			break
		}
	}
	s.mu.RUnlock()
	if !dirty {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, el := range s.elements {
		if s.stale(el, gen) {
			s.measure(el)
			n++
		}
	}
	return n
}

// ElementAt returns the top-most overlay active at t whose rotated box
// contains (x, y). Animation offsets are not taken into account.
func (s *Store) ElementAt(x, y, t float64) (model.Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.elements) - 1; i >= 0; i-- {
		el := s.elements[i]
		if !el.ActiveAt(t) {
			continue
		}
		rad := -el.Rotation * math.Pi / 180
		dx, dy := x-el.X, y-el.Y
		lx := dx*math.Cos(rad) - dy*math.Sin(rad)
		ly := dx*math.Sin(rad) + dy*math.Cos(rad)
		if math.Abs(lx) <= el.Width/2 && math.Abs(ly) <= el.Height/2 {
			return el.Clone(), true
		}
	}
	return model.Element{}, false
}
