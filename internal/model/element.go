package model

import "unicode/utf8"

// DefaultText is the content of a freshly added overlay ("new text").
const DefaultText = "نص جديد"

const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
	AlignStart  = "start"
	AlignEnd    = "end"
)

// Shadow configures the drop shadow painted under the stroke and fill.
type Shadow struct {
	Enabled bool    `yaml:"enabled"`
	Color   string  `yaml:"color"`
	Blur    float64 `yaml:"blur"`
	OffsetX float64 `yaml:"offsetX"`
	OffsetY float64 `yaml:"offsetY"`
}

// Style holds every visual attribute a template may override.
type Style struct {
	FontFamily      string  `yaml:"fontFamily"`
	FontSize        float64 `yaml:"fontSize"`
	FontWeight      string  `yaml:"fontWeight"`
	FontStyle       string  `yaml:"fontStyle"`
	Color           string  `yaml:"color"`
	StrokeColor     string  `yaml:"strokeColor"`
	StrokeWidth     float64 `yaml:"strokeWidth"`
	BackgroundColor string  `yaml:"backgroundColor"`
	Padding         float64 `yaml:"padding"`
	BorderRadius    float64 `yaml:"borderRadius"`
	Shadow          Shadow  `yaml:"shadow"`
	Opacity         float64 `yaml:"opacity"`
	TextAlign       string  `yaml:"textAlign"`
}

// DefaultStyle returns the style of a freshly added overlay.
func DefaultStyle(family string) Style {
	return Style{
		FontFamily:  family,
		FontSize:    32,
		FontWeight:  WeightNormal,
		FontStyle:   StyleNormal,
		Color:       "#ffffff",
		StrokeColor: "#000000",
		Shadow: Shadow{
			Color: "rgba(0,0,0,0.5)",
			Blur:  4,
		},
		Opacity:   1,
		TextAlign: AlignCenter,
	}
}

// Font returns the font description of the style.
func (s Style) Font() FontDescription {
	return FontDescription{
		Family: s.FontFamily,
		Size:   s.FontSize,
		Weight: s.FontWeight,
		Style:  s.FontStyle,
	}
}

// WordTiming marks the moment a word of the bound text starts being spoken.
type WordTiming struct {
	Position  int     `yaml:"position" json:"position"`
	StartTime float64 `yaml:"startTime" json:"startTime"`
}

// Binding attaches one animation to an element.
type Binding struct {
	AnimationID string             `yaml:"id"`
	Params      map[string]float64 `yaml:"params,omitempty"`
	Timings     []WordTiming       `yaml:"timings,omitempty"`
}

// Clone returns a deep copy so callers never share maps with the store.
func (b *Binding) Clone() *Binding {
	if b == nil {
		return nil
	}
	out := &Binding{AnimationID: b.AnimationID}
	if b.Params != nil {
		out.Params = make(map[string]float64, len(b.Params))
		for k, v := range b.Params {
			out.Params[k] = v
		}
	}
	if b.Timings != nil {
		out.Timings = append([]WordTiming(nil), b.Timings...)
	}
	return out
}

// Line is one laid out line of an element's text.
type Line struct {
	Text  string
	Width float64
	// Advances[i] is the width of the first i+1 runes.
	Advances []float64
}

// PrefixWidth is the width of the first n runes of the line. Lines laid out
// without advances are estimated from the rune ratio.
func (l Line) PrefixWidth(n int) float64 {
	if n <= 0 {
		return 0
	}
	if n <= len(l.Advances) {
		return l.Advances[n-1]
	}
	total := utf8.RuneCountInString(l.Text)
	if n >= total || total == 0 {
		return l.Width
	}
	return l.Width * float64(n) / float64(total)
}

// GeometryKey is the tuple the cached geometry depends on.
type GeometryKey struct {
	Text       string
	FontSize   float64
	FontFamily string
	FontWeight string
	FontStyle  string
	Padding    float64
}

// Geometry is the measured layout of an element.
type Geometry struct {
	Key        GeometryKey
	Width      float64
	Height     float64
	Ascent     float64
	LineHeight float64
	Lines      []Line
	RTL        bool
	// Fallback is set when the element was measured with a substitute font.
	Fallback   bool
	Generation uint64
	valid      bool
}

// Valid reports whether the geometry was ever computed.
func (g Geometry) Valid() bool { return g.valid }

// MarkValid stamps freshly measured geometry.
func (g *Geometry) MarkValid() { g.valid = true }

// Element is one timed, styled text overlay.
type Element struct {
	ID        string
	Text      string
	X         float64
	Y         float64
	Width     float64
	Height    float64
	Rotation  float64
	Style     Style
	StartTime float64
	EndTime   float64
	Animation *Binding
	Layout    Geometry
}

// Key returns the geometry key for the current content and font.
func (e *Element) Key() GeometryKey {
	return GeometryKey{
		Text:       e.Text,
		FontSize:   e.Style.FontSize,
		FontFamily: e.Style.FontFamily,
		FontWeight: e.Style.FontWeight,
		FontStyle:  e.Style.FontStyle,
		Padding:    e.Style.Padding,
	}
}

// GeometryStale reports whether Width/Height no longer match the content.
func (e *Element) GeometryStale() bool {
	return !e.Layout.Valid() || e.Layout.Key != e.Key()
}

// InvalidateGeometry forces a recompute before the next render.
func (e *Element) InvalidateGeometry() {
	e.Layout.valid = false
}

// ActiveAt reports whether the element is eligible to be drawn at t.
func (e *Element) ActiveAt(t float64) bool {
	return e.StartTime <= t && t <= e.EndTime
}

// RuneCount is the length used by the typing projection.
func (e *Element) RuneCount() int {
	return utf8.RuneCountInString(e.Text)
}

// Clone returns a copy that shares no mutable state with e.
func (e *Element) Clone() Element {
	out := *e
	out.Animation = e.Animation.Clone()
	if e.Layout.Lines != nil {
		out.Layout.Lines = make([]Line, len(e.Layout.Lines))
		for i, ln := range e.Layout.Lines {
			ln.Advances = append([]float64(nil), ln.Advances...)
			out.Layout.Lines[i] = ln
		}
	}
	return out
}
