package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ivlev/textoverlay/internal/model"
	"github.com/ivlev/textoverlay/internal/system"
)

// ImageSource shows one image, or a directory of images as a slideshow with
// equal time per image. Decoded images are cached; concurrent requests for
// the same image decode it once.
type ImageSource struct {
	paths    []string
	duration float64

	mu     sync.RWMutex
	cache  map[int]image.Image
	decode singleflight.Group
}

func NewImageSource(path string, duration float64) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrResourceUnavailable, err)
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrResourceUnavailable, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && system.HasExtension(entry.Name(), system.ImageExtensions...) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no images in %s", model.ErrNotFound, path)
	}

	return &ImageSource{paths: paths, duration: duration, cache: make(map[int]image.Image)}, nil
}

// PageCount is the number of images.
func (s *ImageSource) PageCount() int {
	return len(s.paths)
}

// PageAt maps a time to the image shown then.
func (s *ImageSource) PageAt(t float64) int {
	n := len(s.paths)
	if n == 1 || s.duration <= 0 || t <= 0 {
		return 0
	}
	i := int(math.Floor(t / (s.duration / float64(n))))
	return min(i, n-1)
}

// Dimensions returns the size of the first image without decoding it fully.
func (s *ImageSource) Dimensions() (int, int, error) {
	f, err := os.Open(s.paths[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", model.ErrResourceUnavailable, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", model.ErrResourceUnavailable, s.paths[0], err)
	}
	return cfg.Width, cfg.Height, nil
}

func (s *ImageSource) Frame(t float64) (image.Image, error) {
	index := s.PageAt(t)

	s.mu.RLock()
	img, ok := s.cache[index]
	s.mu.RUnlock()
	if ok {
		return img, nil
	}

	v, err, _ := s.decode.Do(s.paths[index], func() (any, error) {
		img, err := decodeFile(s.paths[index])
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[index] = img
		s.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

func (s *ImageSource) Close() error {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
	return nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrResourceUnavailable, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrResourceUnavailable, path, err)
	}
	return img, nil
}
