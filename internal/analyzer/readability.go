package analyzer

import (
	"image"
	"image/color"
	"math"

	"github.com/ivlev/textoverlay/internal/canvas"
	"github.com/ivlev/textoverlay/internal/model"
)

// Thresholds used by Check.
const (
	MinContrast    = 4.5  // WCAG AA for normal text
	MaxEdgeDensity = 0.12 // share of edge pixels under a box without background
)

// Finding is the readability verdict for one overlay.
type Finding struct {
	ID          string
	Box         image.Rectangle
	Contrast    float64
	EdgeDensity float64
	Covers      int // detected content blocks the box intersects
	Warnings    []string
}

// OK reports whether nothing was flagged.
func (f Finding) OK() bool { return len(f.Warnings) == 0 }

// Check measures each overlay against the background: text/background
// contrast, edge density under the box and overlap with content blocks.
func Check(bg image.Image, els []model.Element, blocks []Block) []Finding {
	gray := Grayscale(bg)
	edges := EdgeMap(gray, NewContrastDetector().EdgeThreshold)

	out := make([]Finding, 0, len(els))
	for _, el := range els {
		box := Bounds(el).Intersect(gray.Bounds())
		f := Finding{ID: el.ID, Box: box}
		if box.Empty() {
			f.Warnings = append(f.Warnings, "outside the canvas")
			out = append(out, f)
			continue
		}

		under := meanLuminance(gray, box)
		plate := canvas.MustColor(el.Style.BackgroundColor)
		if !canvas.Transparent(plate) {
			under = blend(luminance(plate), under, alphaOf(plate))
		}
		f.Contrast = contrastRatio(luminance(canvas.MustColor(el.Style.Color)), under)
		f.EdgeDensity = density(edges, box)
		for _, b := range blocks {
			if b.Rect.Overlaps(box) {
				f.Covers++
			}
		}

		if f.Contrast < MinContrast {
			f.Warnings = append(f.Warnings, "low contrast")
		}
		if f.EdgeDensity > MaxEdgeDensity && alphaOf(plate) < 0.5 && el.Style.StrokeWidth == 0 {
			f.Warnings = append(f.Warnings, "busy background")
		}
		if f.Covers > 0 {
			f.Warnings = append(f.Warnings, "covers content")
		}
		out = append(out, f)
	}
	return out
}

// Bounds is the axis aligned pixel box of the element's rotated rectangle.
func Bounds(el model.Element) image.Rectangle {
	hw, hh := el.Width/2, el.Height/2
	sin, cos := math.Sincos(el.Rotation * math.Pi / 180)
	ex := math.Abs(hw*cos) + math.Abs(hh*sin)
	ey := math.Abs(hw*sin) + math.Abs(hh*cos)
	return image.Rect(
		int(math.Floor(el.X-ex)), int(math.Floor(el.Y-ey)),
		int(math.Ceil(el.X+ex)), int(math.Ceil(el.Y+ey)),
	)
}

func meanLuminance(gray *image.Gray, r image.Rectangle) float64 {
	var sum float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sum += linear(float64(gray.GrayAt(x, y).Y) / 255)
		}
	}
	return sum / float64(r.Dx()*r.Dy())
}

func density(edges *image.Gray, r image.Rectangle) float64 {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if edges.GrayAt(x, y).Y > 0 {
				n++
			}
		}
	}
	return float64(n) / float64(r.Dx()*r.Dy())
}

// luminance is the WCAG relative luminance of c.
func luminance(c color.NRGBA) float64 {
	return 0.2126*linear(float64(c.R)/255) + 0.7152*linear(float64(c.G)/255) + 0.0722*linear(float64(c.B)/255)
}

func linear(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func contrastRatio(a, b float64) float64 {
	hi, lo := math.Max(a, b), math.Min(a, b)
	return (hi + 0.05) / (lo + 0.05)
}

func alphaOf(c color.NRGBA) float64 { return float64(c.A) / 255 }

func blend(top, bottom, alpha float64) float64 {
	return top*alpha + bottom*(1-alpha)
}
