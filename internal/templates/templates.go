// Package templates is the catalog of named style bundles.
package templates

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/textoverlay/internal/model"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Template is an immutable, named style bundle. Only the style fields it sets
// are applied.
type Template struct {
	ID    string        `yaml:"id"`
	Name  string        `yaml:"name"`
	Style model.Options `yaml:"style"`
}

// Apply overwrites the element style fields the template defines and
// invalidates the cached geometry. Applying the same template again yields the
// same style.
func (t Template) Apply(el *model.Element) {
	t.Style.ApplyStyle(&el.Style)
	el.InvalidateGeometry()
}

// Registry is a read-only catalog keyed by template id.
type Registry struct {
	byID  map[string]Template
	order []string
}

// NewRegistry returns the builtin catalog plus extra templates.
func NewRegistry(extra ...Template) (*Registry, error) {
	builtin, err := Parse(builtinCatalog)
	if err != nil {
		return nil, fmt.Errorf("builtin templates: %w", err)
	}
	r := &Registry{byID: make(map[string]Template)}
	for _, t := range append(builtin, extra...) {
		if err := r.add(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry is NewRegistry for catalogs known to be valid.
func MustRegistry(extra ...Template) *Registry {
	r, err := NewRegistry(extra...)
	if err != nil {
		panic(err)
	}
	return r
}

// LoadFile reads additional templates from a YAML file.
func LoadFile(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML sequence of templates. Unknown keys and templates that
// set anything but style fields are rejected.
func Parse(data []byte) ([]Template, error) {
	var list []Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&list); err != nil {
		return nil, model.Invalid("decode templates: %v", err)
	}
	for _, t := range list {
		if err := validate(t); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func validate(t Template) error {
	if t.ID == "" {
		return model.Invalid("template without id")
	}
	if !t.Style.StyleOnly() {
		return model.Invalid("template %q sets non-style fields", t.ID)
	}
	if err := t.Style.Validate(); err != nil {
		return fmt.Errorf("template %q: %w", t.ID, err)
	}
	return nil
}

func (r *Registry) add(t Template) error {
	if err := validate(t); err != nil {
		return err
	}
	if _, dup := r.byID[t.ID]; dup {
		return fmt.Errorf("template %q defined twice", t.ID)
	}
	r.byID[t.ID] = t
	r.order = append(r.order, t.ID)
	return nil
}

// Get returns a template by id.
func (r *Registry) Get(id string) (Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// List returns templates in catalog order.
func (r *Registry) List() []Template {
	out := make([]Template, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
