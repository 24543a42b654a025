package canvas

import (
	"errors"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ivlev/textoverlay/internal/fonts"
	"github.com/ivlev/textoverlay/internal/metrics"
	"github.com/ivlev/textoverlay/internal/model"
	"github.com/ivlev/textoverlay/internal/system"
)

// kappa places cubic control points so that a quarter circle is approximated.
const kappa = 0.5522847498

// Raster is a Surface backed by an *image.RGBA. Shapes are filled with
// x/image/vector; text is rendered upright into a pooled layer and then
// composited through the current transform. Right-to-left runs are laid
// out in display order. A Raster keeps its own faces, so rasters on
// different goroutines draw text in parallel; a single Raster is not safe
// for concurrent use.
type Raster struct {
	stack
	dst        *image.RGBA
	fonts      *fonts.Registry
	background image.Image
	z          *vector.Rasterizer
	errs       []error

	faces   map[model.FontDescription]font.Face
	faceGen uint64
}

func NewRaster(dst *image.RGBA, reg *fonts.Registry) *Raster {
	r := &Raster{
		dst:   dst,
		fonts: reg,
		z:     vector.NewRasterizer(dst.Bounds().Dx(), dst.Bounds().Dy()),
		faces: make(map[model.FontDescription]font.Face),
	}
	r.stack.reset()
	return r
}

// Image returns the destination image.
func (r *Raster) Image() *image.RGBA { return r.dst }

// SetBackground sets the image Clear paints, scaled to the surface. nil
// clears to transparent.
func (r *Raster) SetBackground(img image.Image) { r.background = img }

// TakeErr returns and forgets the errors of draws since the last call.
func (r *Raster) TakeErr() error {
	err := errors.Join(r.errs...)
	r.errs = r.errs[:0]
	return err
}

func (r *Raster) Clear() {
	r.stack.reset()
	r.errs = r.errs[:0]
	b := r.dst.Bounds()
	switch bg := r.background.(type) {
	case nil:
		draw.Draw(r.dst, b, image.Transparent, image.Point{}, draw.Src)
		return
	case *image.Uniform:
		draw.Draw(r.dst, b, bg, image.Point{}, draw.Src)
		return
	}
	draw.ApproxBiLinear.Scale(r.dst, b, r.background, r.background.Bounds(), draw.Src, nil)
}

func (r *Raster) FillRect(x, y, w, h, radius float64, c color.Color) {
	if w <= 0 || h <= 0 || Transparent(c) {
		return
	}
	p := rectPath(x, y, w, h, radius)
	if sh := r.cur.shadow; sh.Enabled() {
		r.fillPath(p, Mul(f64.Aff3{1, 0, sh.OffsetX, 0, 1, sh.OffsetY}, r.cur.m), WithAlpha(sh.Color, r.cur.alpha))
	}
	r.fillPath(p, r.cur.m, WithAlpha(c, r.cur.alpha))
}

func (r *Raster) StrokeText(text string, x, y float64, fd model.FontDescription, c color.Color, width float64) {
	if width <= 0 {
		return
	}
	r.drawText(text, x, y, fd, c, width)
}

func (r *Raster) FillText(text string, x, y float64, fd model.FontDescription, c color.Color) {
	r.drawText(text, x, y, fd, c, 0)
}

func (r *Raster) drawText(text string, x, y float64, fd model.FontDescription, c color.Color, stroke float64) {
	if text == "" || Transparent(c) || r.cur.alpha <= 0 {
		return
	}
	face, err := r.face(fd)
	if err != nil {
		r.errs = append(r.errs, err)
		return
	}
	text = metrics.VisualOrder(text)
	if sh := r.cur.shadow; sh.Enabled() {
		layer, ox, oy := renderLayer(face, text, WithAlpha(sh.Color, r.cur.alpha), stroke)
		if sh.Blur > 0 {
			boxBlur(layer, int(math.Ceil(sh.Blur/2)))
		}
		m := Mul(f64.Aff3{1, 0, sh.OffsetX, 0, 1, sh.OffsetY}, r.cur.m)
		r.composite(layer, Mul(m, f64.Aff3{1, 0, x - ox, 0, 1, y - oy}))
		system.PutImage(layer)
	}
	layer, ox, oy := renderLayer(face, text, WithAlpha(c, r.cur.alpha), stroke)
	r.composite(layer, Mul(r.cur.m, f64.Aff3{1, 0, x - ox, 0, 1, y - oy}))
	system.PutImage(layer)
}

// face returns this raster's face for fd. Faces are dropped whenever the
// registry generation moves, so a font that arrives replaces its fallback.
func (r *Raster) face(fd model.FontDescription) (font.Face, error) {
	if gen := r.fonts.Generation(); gen != r.faceGen {
		clear(r.faces)
		r.faceGen = gen
	}
	if face, ok := r.faces[fd]; ok {
		return face, nil
	}
	face, _, err := r.fonts.NewFace(fd)
	if err != nil {
		return nil, err
	}
	r.faces[fd] = face
	return face, nil
}

func (r *Raster) composite(layer *image.RGBA, s2d f64.Aff3) {
	draw.BiLinear.Transform(r.dst, s2d, layer, layer.Bounds(), draw.Over, nil)
}

// renderLayer draws text upright into a pooled layer and returns the layer
// with the baseline origin inside it. With stroke > 0 the text is stamped
// around a circle of that diameter, a cheap outline.
func renderLayer(face font.Face, text string, c color.Color, stroke float64) (*image.RGBA, float64, float64) {
	bounds, advance := font.BoundString(face, text)
	pad := int(math.Ceil(stroke/2)) + 2
	minX := min(bounds.Min.X.Floor(), 0)
	maxX := max(bounds.Max.X.Ceil(), advance.Ceil())
	ascent := max(-bounds.Min.Y.Floor(), face.Metrics().Ascent.Ceil())
	descent := max(bounds.Max.Y.Ceil(), face.Metrics().Descent.Ceil())

	rect := image.Rect(0, 0, maxX-minX+2*pad, ascent+descent+2*pad)
	layer := system.GetImage(rect)
	draw.Draw(layer, rect, image.Transparent, image.Point{}, draw.Src)

	ox, oy := float64(pad-minX), float64(pad+ascent)
	d := font.Drawer{Dst: layer, Src: image.NewUniform(c), Face: face}
	stamp := func(dx, dy float64) {
		d.Dot = fixed.Point26_6{X: toFixed(ox + dx), Y: toFixed(oy + dy)}
		d.DrawString(text)
	}

	if stroke <= 0 {
		stamp(0, 0)
		return layer, ox, oy
	}
	radius := stroke / 2
	steps := 8
	if radius > 2 {
		steps = 16
	}
	for i := 0; i < steps; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(steps))
		stamp(radius*cos, radius*sin)
	}
	return layer, ox, oy
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

type segment struct {
	op  byte // 'M', 'L', 'C', 'Z'
	pts [3][2]float64
}

// rectPath builds a rectangle path, with rounded corners when radius > 0.
func rectPath(x, y, w, h, radius float64) []segment {
	rad := math.Min(radius, math.Min(w, h)/2)
	if rad <= 0 {
		return []segment{
			{op: 'M', pts: [3][2]float64{{x, y}}},
			{op: 'L', pts: [3][2]float64{{x + w, y}}},
			{op: 'L', pts: [3][2]float64{{x + w, y + h}}},
			{op: 'L', pts: [3][2]float64{{x, y + h}}},
			{op: 'Z'},
		}
	}
	k := rad * kappa
	r, b := x+w, y+h
	return []segment{
		{op: 'M', pts: [3][2]float64{{x + rad, y}}},
		{op: 'L', pts: [3][2]float64{{r - rad, y}}},
		{op: 'C', pts: [3][2]float64{{r - rad + k, y}, {r, y + rad - k}, {r, y + rad}}},
		{op: 'L', pts: [3][2]float64{{r, b - rad}}},
		{op: 'C', pts: [3][2]float64{{r, b - rad + k}, {r - rad + k, b}, {r - rad, b}}},
		{op: 'L', pts: [3][2]float64{{x + rad, b}}},
		{op: 'C', pts: [3][2]float64{{x + rad - k, b}, {x, b - rad + k}, {x, b - rad}}},
		{op: 'L', pts: [3][2]float64{{x, y + rad}}},
		{op: 'C', pts: [3][2]float64{{x, y + rad - k}, {x + rad - k, y}, {x + rad, y}}},
		{op: 'Z'},
	}
}

func (r *Raster) fillPath(path []segment, m f64.Aff3, c color.Color) {
	b := r.dst.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	pt := func(p [2]float64) (float32, float32) {
		x, y := Apply(m, p[0], p[1])
		return float32(x - float64(b.Min.X)), float32(y - float64(b.Min.Y))
	}
	for _, s := range path {
		switch s.op {
		case 'M':
			r.z.MoveTo(pt(s.pts[0]))
		case 'L':
			r.z.LineTo(pt(s.pts[0]))
		case 'C':
			bx, by := pt(s.pts[0])
			cx, cy := pt(s.pts[1])
			dx, dy := pt(s.pts[2])
			r.z.CubeTo(bx, by, cx, cy, dx, dy)
		case 'Z':
			r.z.ClosePath()
		}
	}
	r.z.Draw(r.dst, b, image.NewUniform(c), image.Point{})
}

// boxBlur blurs a premultiplied RGBA image in place with a horizontal and a
// vertical box pass.
func boxBlur(img *image.RGBA, radius int) {
	if radius <= 0 {
		return
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := make([]uint8, len(img.Pix))
	pass := func(src, dst []uint8, n, lines int, at func(line, i int) int) {
		for line := 0; line < lines; line++ {
			for i := 0; i < n; i++ {
				var sum [4]int
				count := 0
				for k := max(i-radius, 0); k <= min(i+radius, n-1); k++ {
					o := at(line, k)
					sum[0] += int(src[o])
					sum[1] += int(src[o+1])
					sum[2] += int(src[o+2])
					sum[3] += int(src[o+3])
					count++
				}
				o := at(line, i)
				for c := 0; c < 4; c++ {
					dst[o+c] = uint8(sum[c] / count)
				}
			}
		}
	}
	pass(img.Pix, tmp, w, h, func(y, x int) int { return y*img.Stride + x*4 })
	pass(tmp, img.Pix, h, w, func(x, y int) int { return y*img.Stride + x*4 })
}
