package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/textoverlay/internal/model"
)

// WriteScenario writes a scenario to a YAML file, creating its directory.
func WriteScenario(sc *Scenario, path string) error {
	if sc.Version == "" {
		sc.Version = Version
	}
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadScenario reads a scenario from a YAML file.
func ReadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrResourceUnavailable, err)
	}
	return Parse(data)
}

// Parse decodes a scenario strictly: unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, model.Invalid("scenario: %v", err)
	}
	if sc.Version == "" {
		sc.Version = Version
	}
	for i, ov := range sc.Overlays {
		if err := ov.Options.Validate(); err != nil {
			return nil, fmt.Errorf("overlay %d: %w", i, err)
		}
	}
	return &sc, nil
}
