package overlay

import (
	"slices"

	"github.com/google/uuid"

	"github.com/ivlev/textoverlay/internal/audiosync"
	"github.com/ivlev/textoverlay/internal/effects"
	"github.com/ivlev/textoverlay/internal/logging"
	"github.com/ivlev/textoverlay/internal/model"
	"github.com/ivlev/textoverlay/internal/templates"
)

// ApplyTemplate merges the template's style fields into the overlay. Fields
// the template defines always win; everything else is untouched.
func (s *Store) ApplyTemplate(id, templateID string) (model.Element, error) {
	tpl, ok := s.templates.Get(templateID)
	if !ok {
		err := model.NotFound("template", templateID)
		s.logger.Warn("apply template failed", logging.Error(err))
		return model.Element{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	el, err := s.find(id)
	if err != nil {
		return model.Element{}, err
	}
	tpl.Apply(el)
	s.measure(el)
	return el.Clone(), nil
}

// GetTemplates lists the template catalog.
func (s *Store) GetTemplates() []templates.Template {
	return s.templates.List()
}

// ApplyAnimation binds an animation, replacing any previous one. Only one
// animation per overlay is supported.
func (s *Store) ApplyAnimation(id, animationID string, params map[string]float64) (model.Element, error) {
	if animationID == effects.AudioSyncID {
		return model.Element{}, model.Invalid("%s needs word timings, use SyncWithAudio", animationID)
	}
	resolved, err := s.animations.Resolve(animationID, params)
	if err != nil {
		s.logger.Warn("apply animation failed", logging.String("animation", animationID), logging.Error(err))
		return model.Element{}, err
	}
	return s.bind(id, &model.Binding{AnimationID: animationID, Params: resolved})
}

// RemoveAnimation unbinds the overlay's animation; it then renders static.
func (s *Store) RemoveAnimation(id string) (model.Element, error) {
	return s.bind(id, nil)
}

// GetAnimations lists the animation catalog.
func (s *Store) GetAnimations() []effects.Animation {
	return s.animations.List()
}

// SyncWithAudio binds a word timing schedule as the overlay's animation.
// Invalid timings fail with ErrInvalidInput and leave the overlay unchanged.
func (s *Store) SyncWithAudio(id string, timings []model.WordTiming) (model.Element, error) {
	schedule, err := audiosync.NewSchedule(timings)
	if err != nil {
		return model.Element{}, err
	}
	params, err := s.animations.Resolve(effects.AudioSyncID, nil)
	if err != nil {
		return model.Element{}, err
	}
	return s.bind(id, &model.Binding{
		AnimationID: effects.AudioSyncID,
		Params:      params,
		Timings:     []model.WordTiming(schedule),
	})
}

func (s *Store) bind(id string, b *model.Binding) (model.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, err := s.find(id)
	if err != nil {
		return model.Element{}, err
	}
	el.Animation = b
	return el.Clone(), nil
}

// DuplicateText copies an overlay under a new id, places the copy directly
// above the original and selects it.
func (s *Store) DuplicateText(id string) (model.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return model.Element{}, model.NotFound("text", id)
	}
	cp := s.elements[i].Clone()
	cp.ID = uuid.NewString()
	s.elements = slices.Insert(s.elements, i+1, &cp)
	s.selectedID = cp.ID
	return cp.Clone(), nil
}

// MoveLayer shifts an overlay delta places in paint order (positive is
// towards the front), clamped to the collection bounds.
func (s *Store) MoveLayer(id string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return -1, model.NotFound("text", id)
	}
	j := min(max(i+delta, 0), len(s.elements)-1)
	el := s.elements[i]
	s.elements = slices.Delete(s.elements, i, i+1)
	s.elements = slices.Insert(s.elements, j, el)
	return j, nil
}
