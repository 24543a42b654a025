package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool recycles *image.RGBA buffers keyed by their bounds so that the
// per-frame text layers do not churn the GC.
type ImagePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex

	allocated atomic.Int64
	reused    atomic.Int64
}

var globalPool = NewImagePool()

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// GetImage returns an image with the given bounds from the shared pool.
// Contents are whatever the previous user left; callers clear it.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage hands img back to the shared pool.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

// PoolStats reports allocations and reuses of the shared pool.
func PoolStats() (allocated, reused int64) {
	return globalPool.Stats()
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	if img, ok := pool.Get().(*image.RGBA); ok {
		p.reused.Add(1)
		return img
	}
	p.allocated.Add(1)
	return image.NewRGBA(rect)
}

func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

func (p *ImagePool) Stats() (allocated, reused int64) {
	return p.allocated.Load(), p.reused.Load()
}
