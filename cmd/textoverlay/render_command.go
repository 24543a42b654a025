package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/textoverlay/internal/engine"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var at float64
	var output string

	cmd := &cobra.Command{
		Use:   "render [scenario.yaml]",
		Short: "Render a single frame to PNG",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := stdout(cmd)
			p, _, err := ctx.openPreview(cmd.Context(), out, firstArg(args))
			if err != nil {
				return err
			}
			defer p.Close()

			t := engine.AlignTime(at, p.Config.FPS)
			img, rep, err := p.RenderFrame(t)
			if err != nil {
				return err
			}
			for id, ferr := range rep.Failed {
				fmt.Fprintf(out, "[!] Overlay %s failed: %v\n", id, ferr)
			}

			if output == "" {
				output = filepath.Join(p.Config.OutputDir, fmt.Sprintf("frame_%s_%.3fs.png", time.Now().Format("2006-01-02_15-04-05"), t))
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return err
			}
			if err := engine.WritePNG(output, img); err != nil {
				return err
			}
			fmt.Fprintf(out, "[+++] Frame at %.3fs: %d drawn, %d hidden -> %s\n", t, rep.Drawn, rep.Skipped, output)
			return nil
		},
	}
	cmd.Flags().Float64VarP(&at, "time", "t", 0, "Timeline position in seconds")
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG path (default: timestamped file in the output dir)")
	return cmd
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
