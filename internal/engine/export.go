package engine

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/textoverlay/internal/canvas"
	"github.com/ivlev/textoverlay/internal/logging"
	"github.com/ivlev/textoverlay/internal/system"
)

// Stats describes one export.
type Stats struct {
	Frames        int
	FailedDraws   int
	Elapsed       time.Duration
	Workers       int
	Host          system.HostStats
	PoolAllocated int64
	PoolReused    int64
}

// EffectiveFPS is frames rendered per wall clock second.
func (s Stats) EffectiveFPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Elapsed.Seconds()
}

type renderedFrame struct {
	index int
	img   *image.RGBA
}

// ExportFrames renders every frame in [from, to] and writes it as
// frame_NNNNNN.png into dir. Rendering and encoding run in separate worker
// pools connected by a channel. Frames in which an overlay failed are
// still written; the failures are counted in Stats.
func (p *Preview) ExportFrames(ctx context.Context, from, to float64, dir string) (Stats, error) {
	start := time.Now()
	host := system.ReadHostStats(ctx)
	stats := Stats{Host: host, Workers: host.Workers(p.Config.Workers)}

	if err := p.WaitFonts(); err != nil {
		p.logger.Warn("continuing with fallback fonts", logging.Error(err))
	}

	first, last := FrameRange(from, to, p.Config.FPS)
	if last < first {
		return stats, fmt.Errorf("empty frame range [%g, %g]", from, to)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stats, err
	}

	total := last - first + 1
	renderWorkers := min(stats.Workers, total)
	encodeWorkers := min(4, total)

	jobs := make(chan int)
	results := make(chan renderedFrame, renderWorkers)
	var failed, written atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	renderers, rctx := errgroup.WithContext(gctx)
	renderers.Go(func() error {
		defer close(jobs)
		for i := first; i <= last; i++ {
			select {
			case jobs <- i:
			case <-rctx.Done():
				return rctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < renderWorkers; w++ {
		renderers.Go(func() error {
			img := image.NewRGBA(image.Rect(0, 0, p.Config.Width, p.Config.Height))
			raster := canvas.NewRaster(img, p.Fonts)
			for i := range jobs {
				if err := rctx.Err(); err != nil {
					return err
				}
				rep, err := p.renderInto(raster, FrameTime(i, p.Config.FPS))
				if err != nil {
					return err
				}
				failed.Add(int64(len(rep.Failed)))

				out := system.GetImage(img.Rect)
				copy(out.Pix, img.Pix)
				select {
				case results <- renderedFrame{index: i, img: out}:
				case <-rctx.Done():
					system.PutImage(out)
					return rctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(results)
		return renderers.Wait()
	})

	for w := 0; w < encodeWorkers; w++ {
		g.Go(func() error {
			for fr := range results {
				err := WritePNG(filepath.Join(dir, fmt.Sprintf("frame_%06d.png", fr.index)), fr.img)
				system.PutImage(fr.img)
				if err != nil {
					return err
				}
				if n := written.Add(1); n%int64(max(total/10, 1)) == 0 {
					p.logger.Info("frames written", logging.Int("done", int(n)), logging.Int("total", total))
				}
			}
			return nil
		})
	}

	err := g.Wait()
	stats.Frames = int(written.Load())
	stats.FailedDraws = int(failed.Load())
	stats.Elapsed = time.Since(start)
	stats.PoolAllocated, stats.PoolReused = system.PoolStats()
	return stats, err
}

// WritePNG encodes img into a new file at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
