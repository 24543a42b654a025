package scenario

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ivlev/textoverlay/internal/system"
)

// DefaultDir is where scenarios are written when no path is given.
const DefaultDir = "scenarios"

// GenerateScenarioPath creates a timestamped scenario filename inside dir.
func GenerateScenarioPath(dir string, now time.Time) string {
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, fmt.Sprintf("scenario_%s.yaml", now.Format("2006-01-02_15-04-05")))
}

// FindLatestScenario finds the most recent scenario file in dir.
func FindLatestScenario(dir string) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	return system.FindLatest(dir, system.ScenarioExtensions...)
}
