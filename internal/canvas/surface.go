// Package canvas provides the 2D drawing surfaces overlays are painted on.
package canvas

import (
	"image/color"
	"math"

	"golang.org/x/image/math/f64"

	"github.com/ivlev/textoverlay/internal/model"
)

// Shadow is the drop shadow applied to subsequent draws. Offsets are in
// device pixels and are not affected by the transform. A nil Color disables it.
type Shadow struct {
	Color   color.Color
	Blur    float64
	OffsetX float64
	OffsetY float64
}

// Enabled reports whether the shadow paints anything.
func (s Shadow) Enabled() bool {
	if s.Color == nil {
		return false
	}
	_, _, _, a := s.Color.RGBA()
	return a > 0
}

// Surface is the set of primitives the compositor draws with. Transform,
// global alpha and shadow are state captured by Save and restored by Restore.
// Text positions are the left end of the baseline.
type Surface interface {
	Clear()
	Save()
	Restore()
	SetGlobalAlpha(alpha float64)
	Translate(x, y float64)
	Rotate(radians float64)
	Scale(sx, sy float64)
	SetShadow(s Shadow)
	FillRect(x, y, w, h, radius float64, c color.Color)
	StrokeText(text string, x, y float64, fd model.FontDescription, c color.Color, width float64)
	FillText(text string, x, y float64, fd model.FontDescription, c color.Color)
}

// Identity is the identity affine transform.
var Identity = f64.Aff3{1, 0, 0, 0, 1, 0}

// Mul returns a·b, i.e. b applied first.
func Mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// Apply maps (x, y) through m.
func Apply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// RotationDegrees extracts the rotation component of m.
func RotationDegrees(m f64.Aff3) float64 {
	return math.Atan2(m[3], m[0]) * 180 / math.Pi
}

// state is the part of a surface captured by Save.
type state struct {
	m      f64.Aff3
	alpha  float64
	shadow Shadow
}

func initialState() state {
	return state{m: Identity, alpha: 1}
}

// stack implements the state half of Surface for both surfaces.
type stack struct {
	cur   state
	saved []state
}

func (s *stack) reset() {
	s.cur = initialState()
	s.saved = s.saved[:0]
}

func (s *stack) Save() {
	s.saved = append(s.saved, s.cur)
}

// Restore pops the last saved state. An unbalanced Restore is ignored, as on
// an HTML canvas.
func (s *stack) Restore() {
	if n := len(s.saved); n > 0 {
		s.cur = s.saved[n-1]
		s.saved = s.saved[:n-1]
	}
}

func (s *stack) SetGlobalAlpha(alpha float64) {
	if math.IsNaN(alpha) {
		return
	}
	s.cur.alpha = math.Max(0, math.Min(1, alpha))
}

func (s *stack) Translate(x, y float64) {
	s.cur.m = Mul(s.cur.m, f64.Aff3{1, 0, x, 0, 1, y})
}

func (s *stack) Rotate(radians float64) {
	sin, cos := math.Sincos(radians)
	s.cur.m = Mul(s.cur.m, f64.Aff3{cos, -sin, 0, sin, cos, 0})
}

func (s *stack) Scale(sx, sy float64) {
	s.cur.m = Mul(s.cur.m, f64.Aff3{sx, 0, 0, 0, sy, 0})
}

func (s *stack) SetShadow(sh Shadow) {
	s.cur.shadow = sh
}

// Depth is the number of unmatched Save calls.
func (s *stack) Depth() int { return len(s.saved) }
