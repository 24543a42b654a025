package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ivlev/textoverlay/internal/config"
	"github.com/ivlev/textoverlay/internal/engine"
	"github.com/ivlev/textoverlay/internal/logging"
	"github.com/ivlev/textoverlay/internal/scenario"
)

type globalFlags struct {
	config     string
	preset     string
	width      int
	height     int
	fps        int
	workers    int
	background string
	logLevel   string
	stats      bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
	logger     *slog.Logger
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the config once and applies the command line flags on
// top of it.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Load(c.flags.config)
		if err != nil {
			c.configErr = err
			return
		}
		c.applyFlags(cmd, cfg)
		cfg.Normalize()
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
		if err != nil {
			c.configErr = err
			return
		}
		c.config, c.logger = cfg, logger
	})
	return c.config, c.configErr
}

func (c *commandContext) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool { return cmd.Flags().Changed(name) }
	if changed("preset") {
		cfg.Preset = c.flags.preset
	}
	if changed("width") {
		cfg.Width, cfg.Preset = c.flags.width, ""
	}
	if changed("height") {
		cfg.Height, cfg.Preset = c.flags.height, ""
	}
	if changed("fps") {
		cfg.FPS = c.flags.fps
	}
	if changed("workers") {
		cfg.Workers = c.flags.workers
	}
	if changed("background") {
		cfg.Background = c.flags.background
	}
	if changed("log-level") {
		cfg.LogLevel = c.flags.logLevel
	}
	if changed("stats") {
		cfg.ShowStats = c.flags.stats
	}
}

// openPreview builds the preview and loads the scenario named by arg, the
// config, or the newest file in the scenarios directory.
func (c *commandContext) openPreview(ctx context.Context, out io.Writer, arg string) (*engine.Preview, *scenario.Scenario, error) {
	cfg := c.config
	path := arg
	if path == "" {
		path = cfg.Scenario
	}
	if path == "" {
		latest, err := scenario.FindLatestScenario(scenario.DefaultDir)
		if err != nil {
			return nil, nil, fmt.Errorf("no scenario given and none found: %w", err)
		}
		path = latest
	}
	fmt.Fprintf(out, "[*] Scenario: %s\n", path)

	sc, err := scenario.ReadScenario(path)
	if err != nil {
		return nil, nil, err
	}

	if sc.Width > 0 && sc.Height > 0 && !c.sizeOverridden() {
		cfg.Width, cfg.Height = sc.Width, sc.Height
	}
	if sc.Duration > 0 {
		cfg.Duration = sc.Duration
	}
	cfg.Fonts = append(cfg.Fonts, sc.Fonts...)

	p, err := engine.NewPreview(ctx, cfg, c.logger)
	if err != nil {
		return nil, nil, err
	}
	if _, err := scenario.Apply(sc, p.Store); err != nil {
		p.Close()
		return nil, nil, err
	}
	if err := p.WaitFonts(); err != nil {
		fmt.Fprintf(out, "[!] Some fonts failed to load, using fallbacks: %v\n", err)
	}
	fmt.Fprintf(out, "[*] Canvas: %dx%d @ %d FPS | Overlays: %d\n", cfg.Width, cfg.Height, cfg.FPS, p.Store.Len())
	return p, sc, nil
}

func (c *commandContext) sizeOverridden() bool {
	return c.flags.width > 0 || c.flags.height > 0 || c.flags.preset != ""
}

func stdout(cmd *cobra.Command) io.Writer {
	if w := cmd.OutOrStdout(); w != nil {
		return w
	}
	return os.Stdout
}
