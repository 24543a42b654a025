// Package engine drives the compositor from an external clock: it renders
// single frames for a preview and exports frame sequences as PNG files.
package engine

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/ivlev/textoverlay/internal/canvas"
	"github.com/ivlev/textoverlay/internal/config"
	"github.com/ivlev/textoverlay/internal/effects"
	"github.com/ivlev/textoverlay/internal/fonts"
	"github.com/ivlev/textoverlay/internal/logging"
	"github.com/ivlev/textoverlay/internal/metrics"
	"github.com/ivlev/textoverlay/internal/overlay"
	"github.com/ivlev/textoverlay/internal/renderer"
	"github.com/ivlev/textoverlay/internal/source"
	"github.com/ivlev/textoverlay/internal/templates"
)

// Preview wires the overlay store, the compositor and a background.
type Preview struct {
	Config     *config.Config
	Fonts      *fonts.Registry
	Templates  *templates.Registry
	Animations *effects.Registry
	Store      *overlay.Store
	Compositor *renderer.Compositor
	Background source.Source

	logger    *slog.Logger
	waitFonts func() error
}

// NewPreview builds a preview from cfg. Fonts load in the background;
// overlays drawn before a font arrives use the fallback family and are
// re-measured once it is available.
func NewPreview(ctx context.Context, cfg *config.Config, base *slog.Logger) (*Preview, error) {
	logger := logging.NewComponentLogger(base, "engine")

	var extra []templates.Template
	if cfg.Templates != "" {
		var err error
		if extra, err = templates.LoadFile(cfg.Templates); err != nil {
			return nil, fmt.Errorf("templates: %w", err)
		}
	}
	tpl, err := templates.NewRegistry(extra...)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	bg, err := source.Open(cfg.Background, cfg.Duration)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	reg := fonts.NewRegistry(base)
	specs := append([]fonts.Spec(nil), cfg.Fonts...)
	if cfg.FontDir != "" {
		found, err := fonts.DiscoverDir(cfg.FontDir)
		if err != nil {
			logger.Warn("font dir unreadable", logging.String("dir", cfg.FontDir), logging.Error(err))
		}
		specs = append(specs, found...)
	}
	wait := fonts.NewLoader(reg, base).Start(ctx, specs)

	anims := effects.MustRegistry()
	svc := metrics.NewService(reg)
	store := overlay.New(overlay.Config{
		Width:      float64(cfg.Width),
		Height:     float64(cfg.Height),
		Duration:   cfg.Duration,
		FontFamily: cfg.DefaultFamily,
	}, svc, tpl, anims, base)

	comp := renderer.New(store, anims, base)

	return &Preview{
		Config:     cfg,
		Fonts:      reg,
		Templates:  tpl,
		Animations: anims,
		Store:      store,
		Compositor: comp,
		Background: bg,
		logger:     logger,
		waitFonts:  wait,
	}, nil
}

// WaitFonts blocks until the configured fonts finished loading. Failed
// fonts are reported but leave the preview usable.
func (p *Preview) WaitFonts() error {
	if p.waitFonts == nil {
		return nil
	}
	err := p.waitFonts()
	p.waitFonts = func() error { return err }
	return err
}

// Close releases the background.
func (p *Preview) Close() error {
	if p.Background == nil {
		return nil
	}
	return p.Background.Close()
}

// RenderFrame composites the overlays active at t over the background.
func (p *Preview) RenderFrame(t float64) (*image.RGBA, renderer.Report, error) {
	img := image.NewRGBA(image.Rect(0, 0, p.Config.Width, p.Config.Height))
	rep, err := p.renderInto(canvas.NewRaster(img, p.Fonts), t)
	return img, rep, err
}

// Inspect renders t onto a recorder and returns the draw calls.
func (p *Preview) Inspect(t float64) (*canvas.Recorder, renderer.Report) {
	rec := canvas.NewRecorder()
	rep := p.Compositor.RenderTexts(rec, t)
	return rec, rep
}

// BackgroundFrame renders only the background at t, scaled to the canvas.
// It returns nil when the preview has no background.
func (p *Preview) BackgroundFrame(t float64) (*image.RGBA, error) {
	if p.Background == nil {
		return nil, nil
	}
	bg, err := p.Background.Frame(t)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, p.Config.Width, p.Config.Height))
	r := canvas.NewRaster(img, p.Fonts)
	r.SetBackground(bg)
	r.Clear()
	return img, nil
}

func (p *Preview) renderInto(r *canvas.Raster, t float64) (renderer.Report, error) {
	if p.Background != nil {
		bg, err := p.Background.Frame(t)
		if err != nil {
			return renderer.Report{Time: t}, fmt.Errorf("background at %.3fs: %w", t, err)
		}
		r.SetBackground(bg)
	}
	return p.Compositor.RenderTexts(r, t), nil
}
