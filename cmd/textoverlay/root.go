package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "textoverlay",
		Short:         "Compose timed text overlays over video frames",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipConfig"] == "true" {
				return nil
			}
			_, err := ctx.ensureConfig(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "textoverlay.toml", "Configuration file path")
	pf.StringVar(&flags.preset, "preset", "", "Canvas preset: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	pf.IntVar(&flags.width, "width", 0, "Canvas width")
	pf.IntVar(&flags.height, "height", 0, "Canvas height")
	pf.IntVar(&flags.fps, "fps", 0, "Frames per second")
	pf.IntVar(&flags.workers, "workers", 0, "Render workers (0 = one per CPU)")
	pf.StringVar(&flags.background, "background", "", "Background image, image directory or color")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.stats, "stats", false, "Print a performance report")

	rootCmd.AddCommand(newRenderCommand(ctx))
	rootCmd.AddCommand(newFramesCommand(ctx))
	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newTemplatesCommand(ctx))
	rootCmd.AddCommand(newAnimationsCommand())
	rootCmd.AddCommand(newInitCommand())

	return rootCmd
}
