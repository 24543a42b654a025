package effects

import (
	"fmt"

	"github.com/ivlev/textoverlay/internal/model"
)

// Registry maps animation ids to strategies. It is filled once at startup
// and read-only afterwards, so lookups need no locking.
type Registry struct {
	byID  map[string]Animation
	order []string
}

// NewRegistry creates a registry with the builtin catalog plus extra.
func NewRegistry(extra ...Animation) (*Registry, error) {
	r := &Registry{byID: make(map[string]Animation)}
	for _, a := range append(Builtin(), extra...) {
		if err := r.register(a); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry is NewRegistry for catalogs known to be valid.
func MustRegistry(extra ...Animation) *Registry {
	r, err := NewRegistry(extra...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) register(a Animation) error {
	if a.ID == "" || a.Apply == nil {
		return model.Invalid("animation needs an id and an apply function")
	}
	if _, dup := r.byID[a.ID]; dup {
		return fmt.Errorf("animation %q registered twice", a.ID)
	}
	if a.Defaults == nil {
		a.Defaults = Params{}
	}
	r.byID[a.ID] = a
	r.order = append(r.order, a.ID)
	return nil
}

// Get returns an animation by id.
func (r *Registry) Get(id string) (Animation, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// List returns the catalog in registration order.
func (r *Registry) List() []Animation {
	out := make([]Animation, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Resolve merges params over the animation defaults. Unknown ids fail with
// ErrNotFound, unknown or non-finite params with ErrInvalidInput.
func (r *Registry) Resolve(id string, params map[string]float64) (Params, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, model.NotFound("animation", id)
	}
	return a.resolve(params)
}

// Apply evaluates the element's bound animation at t. Unbound elements and
// bindings to unknown ids get the identity transform.
func (r *Registry) Apply(el *model.Element, t float64) Transform {
	if el.Animation == nil {
		return Identity()
	}
	a, ok := r.byID[el.Animation.AnimationID]
	if !ok {
		return Identity()
	}
	params := Params(el.Animation.Params)
	if len(params) < len(a.Defaults) {
		var err error
		if params, err = a.resolve(el.Animation.Params); err != nil {
			return Identity()
		}
	}
	return a.Apply(el, t, params)
}
