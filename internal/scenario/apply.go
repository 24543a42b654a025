package scenario

import (
	"fmt"

	"github.com/ivlev/textoverlay/internal/model"
	"github.com/ivlev/textoverlay/internal/overlay"
)

// Apply adds the scenario's overlays to store in order. It stops at the
// first overlay that cannot be applied; overlays before it stay added.
func Apply(sc *Scenario, store *overlay.Store) ([]model.Element, error) {
	if sc.Duration > 0 {
		store.SetDuration(sc.Duration)
	}
	out := make([]model.Element, 0, len(sc.Overlays))
	for i, ov := range sc.Overlays {
		el, err := applyOverlay(ov, store)
		if err != nil {
			return out, fmt.Errorf("overlay %d: %w", i, err)
		}
		out = append(out, el)
	}
	store.ClearSelection()
	return out, nil
}

// applyOverlay adds one overlay. A failing overlay is removed again so the
// store never holds a half-applied one.
func applyOverlay(ov Overlay, store *overlay.Store) (model.Element, error) {
	el := store.AddText(model.Options{})
	el, err := configure(el.ID, ov, store)
	if err != nil {
		_ = store.DeleteText(el.ID)
		return model.Element{}, err
	}
	return el, nil
}

func configure(id string, ov Overlay, store *overlay.Store) (model.Element, error) {
	if ov.Template != "" {
		if _, err := store.ApplyTemplate(id, ov.Template); err != nil {
			return model.Element{ID: id}, err
		}
	}
	el, err := store.UpdateText(id, ov.Options)
	if err != nil {
		return model.Element{ID: id}, err
	}
	switch {
	case len(ov.Words) > 0:
		el, err = store.SyncWithAudio(id, ov.Words)
	case ov.Animation != nil:
		el, err = store.ApplyAnimation(id, ov.Animation.ID, ov.Animation.Params)
	}
	if err != nil {
		return model.Element{ID: id}, err
	}
	return el, nil
}

// FromStore snapshots the store into a scenario.
func FromStore(store *overlay.Store, width, height int, duration float64) *Scenario {
	sc := &Scenario{Version: Version, Width: width, Height: height, Duration: duration}
	for _, el := range store.GetTexts() {
		sc.Overlays = append(sc.Overlays, fromElement(el))
	}
	return sc
}

func fromElement(el model.Element) Overlay {
	opts := model.StyleOptions(el.Style)
	opts.Text = model.Ptr(el.Text)
	opts.X = model.Ptr(el.X)
	opts.Y = model.Ptr(el.Y)
	opts.StartTime = model.Ptr(el.StartTime)
	opts.EndTime = model.Ptr(el.EndTime)
	if el.Rotation != 0 {
		opts.Rotation = model.Ptr(el.Rotation)
	}

	ov := Overlay{Options: opts}
	if b := el.Animation; b != nil {
		if len(b.Timings) > 0 {
			ov.Words = append([]model.WordTiming(nil), b.Timings...)
		} else {
			ov.Animation = &Animation{ID: b.AnimationID, Params: b.Params}
		}
	}
	return ov
}
