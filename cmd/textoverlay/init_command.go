package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/textoverlay/internal/config"
	"github.com/ivlev/textoverlay/internal/model"
	"github.com/ivlev/textoverlay/internal/scenario"
)

func newInitCommand() *cobra.Command {
	var dir string
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample config and scenario",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfig": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := stdout(cmd)

			cfgPath := filepath.Join(dir, "textoverlay.toml")
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "[!] %s exists, keeping it (use --force to overwrite)\n", cfgPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			} else {
				data, err := config.Sample(config.Default())
				if err != nil {
					return err
				}
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
				if err := os.WriteFile(cfgPath, data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(out, "[*] Config: %s\n", cfgPath)
			}

			scPath := scenario.GenerateScenarioPath(filepath.Join(dir, scenario.DefaultDir), time.Now())
			if err := scenario.WriteScenario(sampleScenario(), scPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "[+++] Sample scenario: %s\n", scPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to initialize")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	return cmd
}

func sampleScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Version:  scenario.Version,
		Width:    1280,
		Height:   720,
		Duration: 10,
		Overlays: []scenario.Overlay{
			{
				Template:  "title",
				Options:   model.Options{Text: model.Ptr("Text Overlay"), Y: model.Ptr(200.0), EndTime: model.Ptr(4.0)},
				Animation: &scenario.Animation{ID: "fade-in", Params: map[string]float64{"duration": 1}},
			},
			{
				Template:  "arabic-title",
				Options:   model.Options{Text: model.Ptr(model.DefaultText), StartTime: model.Ptr(2.0), EndTime: model.Ptr(8.0)},
				Animation: &scenario.Animation{ID: "typing", Params: map[string]float64{"duration": 2}},
			},
			{
				Template: "caption",
				Options:  model.Options{Text: model.Ptr("one two three"), Y: model.Ptr(640.0), StartTime: model.Ptr(5.0)},
				Words: []model.WordTiming{
					{Position: 0, StartTime: 5},
					{Position: 1, StartTime: 6},
					{Position: 2, StartTime: 7},
				},
			},
		},
	}
}
