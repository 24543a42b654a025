package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/textoverlay/internal/effects"
	"github.com/ivlev/textoverlay/internal/templates"
)

func newTemplatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the style templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []templates.Template
			if path := ctx.config.Templates; path != "" {
				var err error
				if extra, err = templates.LoadFile(path); err != nil {
					return err
				}
			}
			reg, err := templates.NewRegistry(extra...)
			if err != nil {
				return err
			}

			var rows [][]string
			for _, t := range reg.List() {
				rows = append(rows, []string{t.ID, t.Name, t.Style.String()})
			}
			out := stdout(cmd)
			fmt.Fprintln(out, renderTable(out, []string{"ID", "Name", "Style"}, rows, nil))
			return nil
		},
	}
}

func newAnimationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "animations",
		Short: "List the animations and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, a := range effects.MustRegistry().List() {
				rows = append(rows, []string{a.ID, a.Name, string(a.Category), formatParams(a.Defaults)})
			}
			out := stdout(cmd)
			fmt.Fprintln(out, renderTable(out, []string{"ID", "Name", "Category", "Defaults"}, rows, nil))
			return nil
		},
	}
}

func formatParams(p effects.Params) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, p[k])
	}
	return strings.Join(parts, " ")
}
