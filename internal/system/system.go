package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/textoverlay/internal/model"
)

var (
	ImageExtensions    = []string{".jpg", ".jpeg", ".png"}
	ScenarioExtensions = []string{".yaml", ".yml"}
	FontExtensions     = []string{".ttf", ".otf"}
)

// FindLatest returns the most recently modified file in dir whose name ends
// with one of exts. If path names a file it is returned as is.
func FindLatest(path string, exts ...string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrResourceUnavailable, err)
	}
	if !fi.IsDir() {
		return path, nil
	}

	files, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrResourceUnavailable, err)
	}

	var latestFile string
	var latestTime time.Time
	for _, f := range files {
		if f.IsDir() || !HasExtension(f.Name(), exts...) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(path, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("%w: no %s files in %s", model.ErrNotFound, strings.Join(exts, "/"), path)
	}
	return latestFile, nil
}

// HasExtension reports whether name ends with one of exts, case-insensitively.
func HasExtension(name string, exts ...string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
