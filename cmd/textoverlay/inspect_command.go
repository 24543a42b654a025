package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/textoverlay/internal/analyzer"
	"github.com/ivlev/textoverlay/internal/canvas"
	"github.com/ivlev/textoverlay/internal/engine"
	"github.com/ivlev/textoverlay/internal/model"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var at float64

	cmd := &cobra.Command{
		Use:   "inspect [scenario.yaml]",
		Short: "List the draw calls of a frame and check overlay readability",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := stdout(cmd)
			p, _, err := ctx.openPreview(cmd.Context(), out, firstArg(args))
			if err != nil {
				return err
			}
			defer p.Close()

			t := engine.AlignTime(at, p.Config.FPS)
			rec, rep := p.Inspect(t)
			fmt.Fprintf(out, "[*] Frame %.3fs: %d drawn, %d hidden, %d failed\n", t, rep.Drawn, rep.Skipped, len(rep.Failed))
			fmt.Fprintln(out, renderTable(out, []string{"#", "Op", "Text", "X", "Y", "Rotation", "Alpha", "Font"},
				opRows(rec.Draws()), []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}))
			for id, word := range rep.Words {
				fmt.Fprintf(out, "[*] %s speaking word %d\n", id, word)
			}
			for id, ferr := range rep.Failed {
				fmt.Fprintf(out, "[!] %s: %v\n", id, ferr)
			}

			bg, err := p.BackgroundFrame(t)
			if err != nil {
				return err
			}
			if bg == nil {
				return nil
			}
			blocks, err := analyzer.NewContrastDetector().Detect(bg)
			if err != nil {
				return err
			}
			var active []model.Element
			for _, el := range p.Store.GetTexts() {
				if el.ActiveAt(t) {
					active = append(active, el)
				}
			}
			printFindings(out, analyzer.Check(bg, active, blocks))
			return nil
		},
	}
	cmd.Flags().Float64VarP(&at, "time", "t", 0, "Timeline position in seconds")
	return cmd
}

func opRows(ops []canvas.Op) [][]string {
	rows := make([][]string, 0, len(ops))
	for i, op := range ops {
		font := ""
		if op.Kind != canvas.OpFillRect {
			font = op.Font.String()
		}
		x, y := canvas.Apply(op.Transform, op.X, op.Y)
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			string(op.Kind),
			op.Text,
			fmt.Sprintf("%.1f", x),
			fmt.Sprintf("%.1f", y),
			fmt.Sprintf("%.1f°", op.Rotation()),
			fmt.Sprintf("%.2f", op.Alpha),
			font,
		})
	}
	return rows
}

func printFindings(out io.Writer, findings []analyzer.Finding) {
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		verdict := "ok"
		if !f.OK() {
			verdict = strings.Join(f.Warnings, ", ")
		}
		rows = append(rows, []string{
			f.ID,
			fmt.Sprintf("%.1f:1", f.Contrast),
			fmt.Sprintf("%.0f%%", f.EdgeDensity*100),
			verdict,
		})
	}
	fmt.Fprintln(out, renderTable(out, []string{"Overlay", "Contrast", "Edges", "Readability"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignRight}))
}
