package source

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ivlev/textoverlay/internal/model"
)

func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for i := 0; i < 12; i++ {
		img.Set(i%4, i/4, c)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestOpenColor(t *testing.T) {
	src, err := Open("#ff0000", 10)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	img, err := src.Frame(3)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0xffff {
		t.Fatalf("expected red, got %v", img.At(0, 0))
	}

	if src, err := Open("  ", 10); src != nil || err != nil {
		t.Fatalf("empty value should give nil source, got %v %v", src, err)
	}
}

func TestImageSourceSlideshow(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), color.NRGBA{255, 0, 0, 255})
	writePNG(t, filepath.Join(dir, "b.png"), color.NRGBA{0, 0, 255, 255})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := Open(dir, 10)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()
	is := src.(*ImageSource)

	if is.PageCount() != 2 {
		t.Fatalf("pages = %d", is.PageCount())
	}
	tests := []struct {
		time float64
		page int
	}{{-1, 0}, {0, 0}, {4.99, 0}, {5, 1}, {10, 1}, {99, 1}}
	for _, tt := range tests {
		if got := is.PageAt(tt.time); got != tt.page {
			t.Errorf("PageAt(%g) = %d, want %d", tt.time, got, tt.page)
		}
	}

	w, h, err := is.Dimensions()
	if err != nil || w != 4 || h != 3 {
		t.Fatalf("Dimensions = %d %d %v", w, h, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := is.Frame(6); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	img, _ := is.Frame(6)
	if _, _, b, _ := img.At(1, 1).RGBA(); b != 0xffff {
		t.Fatalf("expected blue second page, got %v", img.At(1, 1))
	}
}

func TestImageSourceErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewImageSource(dir, 5); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("empty dir: expected ErrNotFound, got %v", err)
	}
	if _, err := Open(filepath.Join(dir, "missing.png"), 5); !errors.Is(err, model.ErrResourceUnavailable) {
		t.Fatalf("missing file: expected ErrResourceUnavailable, got %v", err)
	}

	broken := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(broken, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := NewImageSource(broken, 5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := src.Frame(0); !errors.Is(err, model.ErrResourceUnavailable) {
		t.Fatalf("broken file: expected ErrResourceUnavailable, got %v", err)
	}
}
