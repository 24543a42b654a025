package fonts

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/ivlev/textoverlay/internal/logging"
	"github.com/ivlev/textoverlay/internal/model"
)

// DefaultFamily is always available and used whenever a requested family is not.
const DefaultFamily = "Go"

// State is the lifecycle of one family variant.
type State int

const (
	StateUnknown State = iota
	StateRequested
	StateLoaded
	StateAvailable
)

func (s State) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateLoaded:
		return "loaded"
	case StateAvailable:
		return "available"
	default:
		return "unknown"
	}
}

type variant struct {
	family string
	bold   bool
	italic bool
}

func variantOf(fd model.FontDescription) variant {
	return variant{family: strings.ToLower(strings.TrimSpace(fd.Family)), bold: fd.Bold(), italic: fd.Italic()}
}

type faceKey struct {
	variant
	size float64
}

// sharedFace is a cached face together with the lock that serializes its use.
type sharedFace struct {
	mu   sync.Mutex
	face font.Face
}

// newFace is replaced in tests to simulate faces that cannot be built.
var newFace = func(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
}

type entry struct {
	name  string
	state State
	font  *opentype.Font
}

// Registry is the process-wide set of font families. Fonts arrive
// asynchronously; lookups never block on a load and fall back to
// DefaultFamily for anything that is not yet available.
//
// x/image faces keep internal buffers. Faces shared through WithFace are
// used under a per-face lock; NewFace hands out a face owned by the caller.
type Registry struct {
	mu         sync.Mutex
	entries    map[variant]*entry
	faces      map[faceKey]*sharedFace
	generation uint64
	logger     *slog.Logger
	warned     map[string]bool
}

// NewRegistry creates a registry with the built-in Go fonts available.
func NewRegistry(logger *slog.Logger) *Registry {
	r := &Registry{
		entries: make(map[variant]*entry),
		faces:   make(map[faceKey]*sharedFace),
		logger:  logging.NewComponentLogger(logger, "fonts"),
		warned:  make(map[string]bool),
	}

	builtin := []struct {
		weight, style string
		ttf           []byte
	}{
		{model.WeightNormal, model.StyleNormal, goregular.TTF},
		{model.WeightBold, model.StyleNormal, gobold.TTF},
		{model.WeightNormal, model.StyleItalic, goitalic.TTF},
		{model.WeightBold, model.StyleItalic, gobolditalic.TTF},
	}
	for _, b := range builtin {
		fd := model.FontDescription{Family: DefaultFamily, Weight: b.weight, Style: b.style}
		if err := r.LoadBytes(fd, b.ttf); err != nil {
			// The embedded fonts are known-good; a failure here is a broken build.
			panic(fmt.Sprintf("fonts: builtin %s: %v", fd, err))
		}
	}
	return r
}

// Request records that a family is wanted. It is a no-op for families that
// are already further along.
func (r *Registry) Request(fd model.FontDescription) {
	v := variantOf(fd)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[v]; !ok {
		r.entries[v] = &entry{name: fd.Family, state: StateRequested}
	}
}

// LoadBytes parses font data for the given family variant and makes it
// available. The family name in fd wins over the name stored in the font.
func (r *Registry) LoadBytes(fd model.FontDescription, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", fd.Family, err)
	}
	if strings.TrimSpace(fd.Family) == "" {
		name, err := f.Name(nil, sfnt.NameIDFamily)
		if err != nil || name == "" {
			return model.Invalid("font has no family name and none was given")
		}
		fd.Family = name
	}

	v := variantOf(fd)
	r.mu.Lock()
	e, ok := r.entries[v]
	if !ok {
		e = &entry{name: fd.Family}
		r.entries[v] = e
	}
	e.font = f
	e.state = StateLoaded
	r.mu.Unlock()

	// A face must be constructible before the family counts as available.
	check, err := newFace(f, 16)
	if err != nil {
		r.mu.Lock()
		if e.font == f {
			e.font = nil
			e.state = StateRequested
		}
		r.mu.Unlock()
		return fmt.Errorf("create face %s: %w", fd.Family, err)
	}
	_ = check.Close()

	r.mu.Lock()
	e.state = StateAvailable
	r.generation++
	for k := range r.faces {
		if k.variant == v {
			delete(r.faces, k)
		}
	}
	r.mu.Unlock()

	r.logger.Debug("font available", logging.String("family", fd.Family),
		logging.String("weight", fd.Weight), logging.String("style", fd.Style))
	return nil
}

// State returns the lifecycle state of a family variant.
func (r *Registry) State(fd model.FontDescription) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[variantOf(fd)]; ok {
		return e.state
	}
	return StateUnknown
}

// Available reports whether the exact family variant can be used.
func (r *Registry) Available(fd model.FontDescription) bool {
	return r.State(fd) == StateAvailable
}

// Generation increases every time a font becomes available. Geometry measured
// with a fallback face is stale once the generation moves.
func (r *Registry) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// Families lists the names of available families, sorted.
func (r *Registry) Families() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, e := range r.entries {
		if e.state == StateAvailable && !seen[e.name] {
			seen[e.name] = true
			out = append(out, e.name)
		}
	}
	sort.Strings(out)
	return out
}

// WithFace runs fn with a shared face for fd. Only users of the same face
// wait for each other. fallback is true when fd's family was not available
// and DefaultFamily was substituted.
func (r *Registry) WithFace(fd model.FontDescription, fn func(face font.Face)) (fallback bool, err error) {
	if fd.Size <= 0 {
		return false, model.Invalid("font size must be positive, got %g", fd.Size)
	}

	r.mu.Lock()
	v, f, fallback, err := r.resolve(fd)
	if err != nil {
		r.mu.Unlock()
		return fallback, err
	}
	k := faceKey{variant: v, size: fd.Size}
	sf, ok := r.faces[k]
	if !ok {
		face, err := newFace(f, fd.Size)
		if err != nil {
			r.mu.Unlock()
			return fallback, fmt.Errorf("create face %s: %w", fd, err)
		}
		sf = &sharedFace{face: face}
		r.faces[k] = sf
	}
	r.mu.Unlock()

	sf.mu.Lock()
	defer sf.mu.Unlock()
	fn(sf.face)
	return fallback, nil
}

// NewFace builds a face for fd that belongs to the caller and may be used
// without any registry lock, but by one goroutine at a time.
func (r *Registry) NewFace(fd model.FontDescription) (face font.Face, fallback bool, err error) {
	if fd.Size <= 0 {
		return nil, false, model.Invalid("font size must be positive, got %g", fd.Size)
	}
	r.mu.Lock()
	_, f, fallback, err := r.resolve(fd)
	r.mu.Unlock()
	if err != nil {
		return nil, fallback, err
	}
	face, err = newFace(f, fd.Size)
	if err != nil {
		return nil, fallback, fmt.Errorf("create face %s: %w", fd, err)
	}
	return face, fallback, nil
}

// resolve picks the available variant for fd. mu must be held.
func (r *Registry) resolve(fd model.FontDescription) (variant, *opentype.Font, bool, error) {
	v := variantOf(fd)
	fallback := false
	e, ok := r.entries[v]
	if !ok || e.state != StateAvailable {
		fallback = true
		v.family = strings.ToLower(DefaultFamily)
		e = r.entries[v]
		r.warnFallback(fd)
	}
	if e == nil || e.state != StateAvailable {
		return v, nil, fallback, fmt.Errorf("no face for %s: %w", fd, model.ErrResourceUnavailable)
	}
	return v, e.font, fallback, nil
}

func (r *Registry) warnFallback(fd model.FontDescription) {
	if r.warned[fd.Family] {
		return
	}
	r.warned[fd.Family] = true
	r.logger.Warn("font not available, using fallback",
		logging.String("family", fd.Family), logging.String("fallback", DefaultFamily))
}
