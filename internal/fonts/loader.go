package fonts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/textoverlay/internal/logging"
	"github.com/ivlev/textoverlay/internal/model"
)

// Spec names a font file and the family variant it provides.
type Spec struct {
	Family string `toml:"family" yaml:"family"`
	Path   string `toml:"path" yaml:"path"`
	Weight string `toml:"weight" yaml:"weight,omitempty"`
	Style  string `toml:"style" yaml:"style,omitempty"`
}

func (s Spec) description() model.FontDescription {
	weight, style := s.Weight, s.Style
	if weight == "" {
		weight = model.WeightNormal
	}
	if style == "" {
		style = model.StyleNormal
	}
	return model.FontDescription{Family: s.Family, Weight: weight, Style: style}
}

// Loader registers font files with a Registry in the background.
type Loader struct {
	Registry *Registry
	// Parallel bounds concurrent file reads; 0 means 4.
	Parallel int
	logger   *slog.Logger
}

func NewLoader(reg *Registry, logger *slog.Logger) *Loader {
	return &Loader{Registry: reg, Parallel: 4, logger: logging.NewComponentLogger(logger, "fonts")}
}

// Start marks every spec as requested and loads them concurrently. It
// returns immediately; the returned wait function blocks until all loads
// finished and reports the ones that failed. Failed fonts stay requested and
// lookups keep using the fallback.
func (l *Loader) Start(ctx context.Context, specs []Spec) (wait func() error) {
	for _, s := range specs {
		l.Registry.Request(s.description())
	}

	g, ctx := errgroup.WithContext(ctx)
	limit := l.Parallel
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)

	var mu sync.Mutex
	var failures []error

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, s := range specs {
			g.Go(func() error {
				if err := l.load(ctx, s); err != nil {
					l.logger.Warn("font load failed", logging.String("family", s.Family),
						logging.String("path", s.Path), logging.Error(err))
					mu.Lock()
					failures = append(failures, err)
					mu.Unlock()
				}
				return nil
			})
		}
		_ = g.Wait()
	}()

	return func() error {
		<-done
		mu.Lock()
		defer mu.Unlock()
		return errors.Join(failures...)
	}
}

// LoadAll is Start followed by wait.
func (l *Loader) LoadAll(ctx context.Context, specs []Spec) error {
	return l.Start(ctx, specs)()
}

func (l *Loader) load(ctx context.Context, s Spec) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return fmt.Errorf("read font %s: %v: %w", s.Path, err, model.ErrResourceUnavailable)
	}
	return l.Registry.LoadBytes(s.description(), data)
}

// DiscoverDir builds specs for every .ttf/.otf file in dir. The family is
// derived from the file name: "Amiri-Bold.ttf" → family "Amiri", bold.
func DiscoverDir(dir string) ([]Spec, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var specs []Spec
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		specs = append(specs, specFromFileName(filepath.Join(dir, e.Name())))
	}
	return specs, nil
}

func specFromFileName(path string) Spec {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s := Spec{Family: base, Path: path}
	i := strings.LastIndex(base, "-")
	if i <= 0 {
		return s
	}
	suffix := strings.ToLower(base[i+1:])
	switch suffix {
	case "regular":
	case "bold":
		s.Weight = model.WeightBold
	case "italic":
		s.Style = model.StyleItalic
	case "bolditalic":
		s.Weight, s.Style = model.WeightBold, model.StyleItalic
	default:
		return s
	}
	s.Family = base[:i]
	return s
}
