package canvas

import (
	"image/color"

	"golang.org/x/image/math/f64"

	"github.com/ivlev/textoverlay/internal/model"
)

type OpKind string

const (
	OpClear      OpKind = "clear"
	OpSave       OpKind = "save"
	OpRestore    OpKind = "restore"
	OpFillRect   OpKind = "fill-rect"
	OpStrokeText OpKind = "stroke-text"
	OpFillText   OpKind = "fill-text"
)

// Op is one recorded call together with the state it was issued under.
type Op struct {
	Kind        OpKind
	Text        string
	X, Y        float64
	W, H        float64
	Radius      float64
	Color       color.Color
	Font        model.FontDescription
	StrokeWidth float64
	Transform   f64.Aff3
	Alpha       float64
	Shadow      Shadow
	Depth       int
}

// Rotation is the rotation in degrees the op was drawn with.
func (o Op) Rotation() float64 { return RotationDegrees(o.Transform) }

// Paints reports whether the op draws pixels.
func (o Op) Paints() bool {
	return o.Kind == OpFillRect || o.Kind == OpStrokeText || o.Kind == OpFillText
}

// Recorder is a Surface that draws nothing and records every call. It backs
// compositor tests and dry runs.
type Recorder struct {
	stack
	Ops []Op
}

func NewRecorder() *Recorder {
	r := &Recorder{}
	r.stack.reset()
	return r
}

func (r *Recorder) record(op Op) {
	op.Transform = r.cur.m
	op.Alpha = r.cur.alpha
	op.Shadow = r.cur.shadow
	op.Depth = r.Depth()
	r.Ops = append(r.Ops, op)
}

// Clear drops the recorded ops of the previous frame and resets the state.
func (r *Recorder) Clear() {
	r.Ops = r.Ops[:0]
	r.stack.reset()
	r.record(Op{Kind: OpClear})
}

func (r *Recorder) Save() {
	r.record(Op{Kind: OpSave})
	r.stack.Save()
}

func (r *Recorder) Restore() {
	r.stack.Restore()
	r.record(Op{Kind: OpRestore})
}

func (r *Recorder) FillRect(x, y, w, h, radius float64, c color.Color) {
	r.record(Op{Kind: OpFillRect, X: x, Y: y, W: w, H: h, Radius: radius, Color: c})
}

func (r *Recorder) StrokeText(text string, x, y float64, fd model.FontDescription, c color.Color, width float64) {
	r.record(Op{Kind: OpStrokeText, Text: text, X: x, Y: y, Font: fd, Color: c, StrokeWidth: width})
}

func (r *Recorder) FillText(text string, x, y float64, fd model.FontDescription, c color.Color) {
	r.record(Op{Kind: OpFillText, Text: text, X: x, Y: y, Font: fd, Color: c})
}

// Draws returns only the ops that paint pixels.
func (r *Recorder) Draws() []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Paints() {
			out = append(out, op)
		}
	}
	return out
}

// Balanced reports whether every Save had a matching Restore.
func (r *Recorder) Balanced() bool {
	return r.Depth() == 0
}
