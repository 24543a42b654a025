package system

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivlev/textoverlay/internal/model"
)

func TestImagePoolReuse(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 8, 4)

	img := p.Get(rect)
	if img.Bounds() != rect {
		t.Fatalf("bounds = %v, want %v", img.Bounds(), rect)
	}
	p.Put(img)
	p.Put(nil)
	_ = p.Get(rect)

	allocated, _ := p.Stats()
	if allocated < 1 {
		t.Fatalf("allocated = %d, want at least 1", allocated)
	}
	if other := p.Get(image.Rect(0, 0, 2, 2)); other.Bounds().Dx() != 2 {
		t.Fatalf("unexpected bounds %v", other.Bounds())
	}
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.png")
	fresh := filepath.Join(dir, "fresh.JPG")
	skip := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, fresh, skip} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := FindLatest(dir, ImageExtensions...)
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if got != fresh {
		t.Fatalf("got %s, want %s", got, fresh)
	}

	got, err = FindLatest(skip, ImageExtensions...)
	if err != nil || got != skip {
		t.Fatalf("file path should be returned as is, got %q %v", got, err)
	}

	if _, err := FindLatest(dir, ".ttf"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := FindLatest(filepath.Join(dir, "missing")); !errors.Is(err, model.ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
}

func TestWorkers(t *testing.T) {
	tests := []struct {
		name      string
		stats     HostStats
		requested int
		want      int
	}{
		{"requested wins", HostStats{LogicalCPUs: 8}, 3, 3},
		{"per cpu", HostStats{LogicalCPUs: 8}, 0, 8},
		{"memory pressure", HostStats{LogicalCPUs: 8, UsedPercent: 90}, 0, 4},
		{"unknown cpus", HostStats{}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Workers(tt.requested); got != tt.want {
				t.Fatalf("Workers(%d) = %d, want %d", tt.requested, got, tt.want)
			}
		})
	}
}
