package engine

import (
	"context"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/textoverlay/internal/canvas"
	"github.com/ivlev/textoverlay/internal/config"
	"github.com/ivlev/textoverlay/internal/model"
)

func TestAlignTime(t *testing.T) {
	tests := []struct {
		time float64
		fps  int
		want float64
	}{
		{1.01, 30, 1},
		{1.02, 30, 31.0 / 30},
		{2.5, 0, 2.5},
		{0.49, 2, 0.5},
	}
	for _, tt := range tests {
		if got := AlignTime(tt.time, tt.fps); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("AlignTime(%g, %d) = %g, want %g", tt.time, tt.fps, got, tt.want)
		}
	}
}

func TestFrameRange(t *testing.T) {
	tests := []struct {
		from, to    float64
		fps         int
		first, last int
	}{
		{0, 1, 30, 0, 30},
		{-2, 0.1, 30, 0, 3},
		{2, 4, 25, 50, 100},
		{3, 1, 30, 0, -1},
		{0, 1, 0, 0, -1},
	}
	for _, tt := range tests {
		first, last := FrameRange(tt.from, tt.to, tt.fps)
		if first != tt.first || last != tt.last {
			t.Errorf("FrameRange(%g, %g, %d) = %d..%d, want %d..%d", tt.from, tt.to, tt.fps, first, last, tt.first, tt.last)
		}
	}
	// the last frame of an overlay ending on a frame boundary lands inside it
	_, last := FrameRange(0, 4, 30)
	if FrameTime(last, 30) != 4 {
		t.Errorf("last frame time = %g", FrameTime(last, 30))
	}
}

func newPreview(t *testing.T) *Preview {
	t.Helper()
	cfg := config.Default()
	cfg.Width, cfg.Height = 160, 90
	cfg.Duration = 2
	cfg.Workers = 2
	cfg.Background = "#000000"

	p, err := NewPreview(context.Background(), &cfg, nil)
	if err != nil {
		t.Fatalf("NewPreview: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	if err := p.WaitFonts(); err != nil {
		t.Fatalf("WaitFonts: %v", err)
	}
	return p
}

func TestRenderFrame(t *testing.T) {
	p := newPreview(t)
	p.Store.AddText(model.Options{Text: model.Ptr("Go"), FontSize: model.Ptr(24.0), StartTime: model.Ptr(0.5)})

	img, rep, err := p.RenderFrame(0)
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if rep.Drawn != 0 || rep.Skipped != 1 {
		t.Errorf("report before start = %+v", rep)
	}
	if c := img.RGBAAt(80, 45); c.A != 255 || c.R != 0 {
		t.Errorf("expected opaque black background, got %v", c)
	}

	img, rep, err = p.RenderFrame(1)
	if err != nil || rep.Drawn != 1 {
		t.Fatalf("RenderFrame(1): %+v %v", rep, err)
	}
	lit := false
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 128 {
			lit = true
			break
		}
	}
	if !lit {
		t.Error("white text not painted")
	}
}

func TestInspect(t *testing.T) {
	p := newPreview(t)
	p.Store.AddText(model.Options{Text: model.Ptr("hi"), BackgroundColor: model.Ptr("#333")})

	rec, rep := p.Inspect(1)
	if rep.Drawn != 1 || !rec.Balanced() {
		t.Fatalf("report %+v balanced %v", rep, rec.Balanced())
	}
	draws := rec.Draws()
	if len(draws) != 2 || draws[0].Kind != canvas.OpFillRect || draws[1].Kind != canvas.OpFillText {
		t.Fatalf("draws = %+v", draws)
	}
}

func TestExportFrames(t *testing.T) {
	p := newPreview(t)
	p.Store.AddText(model.Options{Text: model.Ptr("frame")})
	dir := filepath.Join(t.TempDir(), "frames")

	stats, err := p.ExportFrames(context.Background(), 0, 0.1, dir)
	if err != nil {
		t.Fatalf("ExportFrames: %v", err)
	}
	if stats.Frames != 4 || stats.FailedDraws != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	for _, name := range []string{"frame_000000.png", "frame_000003.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if stats.EffectiveFPS() <= 0 {
		t.Error("expected positive effective fps")
	}
}

func TestExportFramesCanceled(t *testing.T) {
	p := newPreview(t)
	p.Store.AddText(model.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.ExportFrames(ctx, 0, 2, t.TempDir()); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestExportFramesSingleWorkerCoversRange(t *testing.T) {
	p := newPreview(t)
	p.Config.Workers = 1
	p.Store.AddText(model.Options{Text: model.Ptr("one worker")})
	dir := t.TempDir()

	stats, err := p.ExportFrames(context.Background(), 0, 1, dir)
	if err != nil {
		t.Fatalf("ExportFrames: %v", err)
	}
	want := p.Config.FPS + 1
	if stats.Frames != want || stats.Workers != 1 {
		t.Fatalf("stats = %+v, want %d frames from 1 worker", stats, want)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != want {
		t.Fatalf("wrote %d files, want %d", len(entries), want)
	}
}

func TestWritePNG(t *testing.T) {
	p := newPreview(t)
	img, _, err := p.RenderFrame(0)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "still.png")
	if err := WritePNG(path, img); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Fatalf("bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}

	if err := WritePNG(filepath.Join(t.TempDir(), "missing", "x.png"), img); err == nil {
		t.Fatal("expected an error for a missing directory")
	}
}
