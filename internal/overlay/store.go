// Package overlay owns the ordered collection of text overlays. All mutation
// goes through Store; the compositor only reads.
package overlay

import (
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/ivlev/textoverlay/internal/effects"
	"github.com/ivlev/textoverlay/internal/logging"
	"github.com/ivlev/textoverlay/internal/metrics"
	"github.com/ivlev/textoverlay/internal/model"
	"github.com/ivlev/textoverlay/internal/templates"
)

// DefaultDuration is used as the active window of new overlays when the media
// duration is unknown.
const DefaultDuration = 5.0

// Config describes the preview the overlays are placed on.
type Config struct {
	Width    float64
	Height   float64
	Duration float64
	// FontFamily of newly added overlays.
	FontFamily string
}

// Store is the ordered overlay collection. Slice order is paint order,
// back to front. Mutations and render passes are serialized by mu.
type Store struct {
	mu         sync.RWMutex
	cfg        Config
	elements   []*model.Element
	selectedID string

	measurer   metrics.Measurer
	templates  *templates.Registry
	animations *effects.Registry
	logger     *slog.Logger
}

// New creates an empty store.
func New(cfg Config, m metrics.Measurer, tpl *templates.Registry, anims *effects.Registry, logger *slog.Logger) *Store {
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultDuration
	}
	if cfg.FontFamily == "" {
		cfg.FontFamily = "Go"
	}
	return &Store{
		cfg:        cfg,
		measurer:   m,
		templates:  tpl,
		animations: anims,
		logger:     logging.NewComponentLogger(logger, "overlay"),
	}
}

// SetDuration updates the media duration used for new overlays. Existing
// overlays keep their ranges.
func (s *Store) SetDuration(d float64) {
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return
	}
	s.mu.Lock()
	s.cfg.Duration = d
	s.mu.Unlock()
}

// AddText creates an overlay with defaults, merges opts over them, measures it,
// appends it on top and selects it. Invalid options are ignored with a warning;
// AddText never fails.
func (s *Store) AddText(opts model.Options) model.Element {
	s.mu.Lock()
	defer s.mu.Unlock()

	el := &model.Element{
		ID:        uuid.NewString(),
		Text:      model.DefaultText,
		X:         s.cfg.Width / 2,
		Y:         s.cfg.Height / 2,
		Style:     model.DefaultStyle(s.cfg.FontFamily),
		StartTime: 0,
		EndTime:   s.cfg.Duration,
	}

	if err := opts.Validate(); err != nil {
		s.logger.Warn("ignoring invalid options for new text", logging.Error(err))
	} else {
		candidate := el.Clone()
		opts.ApplyTo(&candidate)
		if candidate.EndTime > candidate.StartTime {
			*el = candidate
		} else {
			s.logger.Warn("ignoring options with empty time range",
				logging.Float64("start", candidate.StartTime), logging.Float64("end", candidate.EndTime))
		}
	}

	s.measure(el)
	s.elements = append(s.elements, el)
	s.selectedID = el.ID
	s.logger.Debug("text added", logging.String("id", el.ID))
	return el.Clone()
}

// UpdateText merges opts into the overlay. Geometry is re-measured before
// returning when the text or font changed. Invalid options leave the overlay
// untouched.
func (s *Store) UpdateText(id string, opts model.Options) (model.Element, error) {
	if err := opts.Validate(); err != nil {
		return model.Element{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	el, err := s.find(id)
	if err != nil {
		return model.Element{}, err
	}

	next := el.Clone()
	opts.ApplyTo(&next)
	if next.EndTime <= next.StartTime {
		return model.Element{}, model.Invalid("endTime %g must be after startTime %g", next.EndTime, next.StartTime)
	}
	if next.StartTime < 0 {
		return model.Element{}, model.Invalid("startTime must not be negative, got %g", next.StartTime)
	}
	if next.GeometryStale() {
		s.measure(&next)
	}
	*el = next
	return el.Clone(), nil
}

// DeleteText removes the overlay. A deleted selection moves to the first
// remaining overlay, or to none.
func (s *Store) DeleteText(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		err := model.NotFound("text", id)
		s.logger.Warn("delete failed", logging.Error(err))
		return err
	}
	s.elements = slices.Delete(s.elements, i, i+1)

	if s.selectedID == id {
		s.selectedID = ""
		if len(s.elements) > 0 {
			s.selectedID = s.elements[0].ID
		}
	}
	return nil
}

// SelectText makes id the selected overlay.
func (s *Store) SelectText(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.find(id); err != nil {
		return err
	}
	s.selectedID = id
	return nil
}

// ClearSelection deselects everything.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	s.selectedID = ""
	s.mu.Unlock()
}

// SelectedID returns the selected overlay id, or "" when none.
func (s *Store) SelectedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

// Selected returns the selected overlay.
func (s *Store) Selected() (model.Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(s.selectedID); i >= 0 {
		return s.elements[i].Clone(), true
	}
	return model.Element{}, false
}

// MoveSelectedText sets the anchor of the selected overlay.
func (s *Store) MoveSelectedText(x, y float64) (model.Element, error) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return model.Element{}, model.Invalid("position must be finite")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(s.selectedID)
	if i < 0 {
		return model.Element{}, model.ErrNoSelection
	}
	el := s.elements[i]
	el.X, el.Y = x, y
	return el.Clone(), nil
}

// Get returns one overlay by id.
func (s *Store) Get(id string) (model.Element, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, err := s.find(id)
	if err != nil {
		return model.Element{}, err
	}
	return el.Clone(), nil
}

// GetTexts returns the overlays in paint order. The elements are copies;
// changing them does not affect the store.
func (s *Store) GetTexts() []model.Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Element, len(s.elements))
	for i, el := range s.elements {
		out[i] = el.Clone()
	}
	return out
}

// Len returns the number of overlays.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elements)
}

// find must be called with mu held.
func (s *Store) find(id string) (*model.Element, error) {
	if i := s.index(id); i >= 0 {
		return s.elements[i], nil
	}
	err := model.NotFound("text", id)
	s.logger.Debug("lookup failed", logging.Error(err))
	return nil, err
}

func (s *Store) index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.elements, func(el *model.Element) bool { return el.ID == id })
}
