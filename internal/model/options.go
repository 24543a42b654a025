package model

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Options is a partial element update. Nil fields are left untouched.
type Options struct {
	Text      *string  `yaml:"text,omitempty"`
	X         *float64 `yaml:"x,omitempty"`
	Y         *float64 `yaml:"y,omitempty"`
	Rotation  *float64 `yaml:"rotation,omitempty"`
	StartTime *float64 `yaml:"startTime,omitempty"`
	EndTime   *float64 `yaml:"endTime,omitempty"`

	FontFamily      *string  `yaml:"fontFamily,omitempty"`
	FontSize        *float64 `yaml:"fontSize,omitempty"`
	FontWeight      *string  `yaml:"fontWeight,omitempty"`
	FontStyle       *string  `yaml:"fontStyle,omitempty"`
	Color           *string  `yaml:"color,omitempty"`
	StrokeColor     *string  `yaml:"strokeColor,omitempty"`
	StrokeWidth     *float64 `yaml:"strokeWidth,omitempty"`
	BackgroundColor *string  `yaml:"backgroundColor,omitempty"`
	Padding         *float64 `yaml:"padding,omitempty"`
	BorderRadius    *float64 `yaml:"borderRadius,omitempty"`
	ShadowEnabled   *bool    `yaml:"shadowEnabled,omitempty"`
	ShadowColor     *string  `yaml:"shadowColor,omitempty"`
	ShadowBlur      *float64 `yaml:"shadowBlur,omitempty"`
	ShadowOffsetX   *float64 `yaml:"shadowOffsetX,omitempty"`
	ShadowOffsetY   *float64 `yaml:"shadowOffsetY,omitempty"`
	Opacity         *float64 `yaml:"opacity,omitempty"`
	TextAlign       *string  `yaml:"textAlign,omitempty"`
}

// Ptr returns a pointer to v; handy for building Options literals.
func Ptr[T any](v T) *T { return &v }

// DecodeOptions parses a YAML or JSON mapping into Options. Keys outside the
// schema are rejected instead of being silently dropped.
func DecodeOptions(data []byte) (Options, error) {
	var opts Options
	if len(bytes.TrimSpace(data)) == 0 {
		return opts, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		return Options{}, Invalid("decode options: %v", err)
	}
	return opts, opts.Validate()
}

// OptionsFromMap converts a loosely typed map, as produced by generic decoders,
// into Options with the same strictness as DecodeOptions.
func OptionsFromMap(m map[string]any) (Options, error) {
	if len(m) == 0 {
		return Options{}, nil
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return Options{}, Invalid("encode options: %v", err)
	}
	return DecodeOptions(data)
}

// Empty reports whether no field is set.
func (o Options) Empty() bool {
	return o == Options{}
}

// StyleOnly reports whether only style keys are set. Templates must satisfy it.
func (o Options) StyleOnly() bool {
	return o.Text == nil && o.X == nil && o.Y == nil && o.Rotation == nil &&
		o.StartTime == nil && o.EndTime == nil
}

// TouchesGeometry reports whether applying o may change the geometry key.
func (o Options) TouchesGeometry() bool {
	return o.Text != nil || o.FontSize != nil || o.FontFamily != nil ||
		o.FontWeight != nil || o.FontStyle != nil || o.Padding != nil
}

// Validate checks every set field. Opacity outside [0,1] is accepted and
// clamped on apply; non-finite numbers are not.
func (o Options) Validate() error {
	floats := []struct {
		name string
		v    *float64
	}{
		{"x", o.X}, {"y", o.Y}, {"rotation", o.Rotation},
		{"startTime", o.StartTime}, {"endTime", o.EndTime},
		{"fontSize", o.FontSize}, {"strokeWidth", o.StrokeWidth},
		{"padding", o.Padding}, {"borderRadius", o.BorderRadius},
		{"shadowBlur", o.ShadowBlur}, {"shadowOffsetX", o.ShadowOffsetX},
		{"shadowOffsetY", o.ShadowOffsetY}, {"opacity", o.Opacity},
	}
	for _, f := range floats {
		if f.v != nil && (math.IsNaN(*f.v) || math.IsInf(*f.v, 0)) {
			return Invalid("%s must be finite", f.name)
		}
	}

	if o.FontSize != nil && *o.FontSize <= 0 {
		return Invalid("fontSize must be positive, got %g", *o.FontSize)
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{{"strokeWidth", o.StrokeWidth}, {"padding", o.Padding}, {"borderRadius", o.BorderRadius}, {"shadowBlur", o.ShadowBlur}} {
		if f.v != nil && *f.v < 0 {
			return Invalid("%s must not be negative, got %g", f.name, *f.v)
		}
	}
	if o.StartTime != nil && *o.StartTime < 0 {
		return Invalid("startTime must not be negative, got %g", *o.StartTime)
	}
	if o.StartTime != nil && o.EndTime != nil && *o.EndTime <= *o.StartTime {
		return Invalid("endTime %g must be after startTime %g", *o.EndTime, *o.StartTime)
	}
	if o.FontFamily != nil && strings.TrimSpace(*o.FontFamily) == "" {
		return Invalid("fontFamily must not be empty")
	}
	for _, f := range []struct {
		name string
		v    *string
	}{{"color", o.Color}, {"strokeColor", o.StrokeColor}, {"backgroundColor", o.BackgroundColor}, {"shadowColor", o.ShadowColor}} {
		if f.v == nil {
			continue
		}
		if _, err := ParseColor(*f.v); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	if err := oneOf("fontWeight", o.FontWeight, WeightNormal, WeightBold); err != nil {
		return err
	}
	if err := oneOf("fontStyle", o.FontStyle, StyleNormal, StyleItalic); err != nil {
		return err
	}
	return oneOf("textAlign", o.TextAlign, AlignLeft, AlignCenter, AlignRight, AlignStart, AlignEnd)
}

func oneOf(name string, v *string, allowed ...string) error {
	if v == nil {
		return nil
	}
	for _, a := range allowed {
		if *v == a {
			return nil
		}
	}
	return Invalid("%s %q is not one of %s", name, *v, strings.Join(allowed, ", "))
}

// ApplyTo merges every set field into e, last write wins. It does not touch
// geometry; callers decide when to re-measure.
func (o Options) ApplyTo(e *Element) {
	setString(&e.Text, o.Text)
	setFloat(&e.X, o.X)
	setFloat(&e.Y, o.Y)
	setFloat(&e.Rotation, o.Rotation)
	setFloat(&e.StartTime, o.StartTime)
	setFloat(&e.EndTime, o.EndTime)
	o.ApplyStyle(&e.Style)
}

// ApplyStyle merges only the style fields into s.
func (o Options) ApplyStyle(s *Style) {
	setString(&s.FontFamily, o.FontFamily)
	setFloat(&s.FontSize, o.FontSize)
	setString(&s.FontWeight, o.FontWeight)
	setString(&s.FontStyle, o.FontStyle)
	setString(&s.Color, o.Color)
	setString(&s.StrokeColor, o.StrokeColor)
	setFloat(&s.StrokeWidth, o.StrokeWidth)
	setString(&s.BackgroundColor, o.BackgroundColor)
	setFloat(&s.Padding, o.Padding)
	setFloat(&s.BorderRadius, o.BorderRadius)
	if o.ShadowEnabled != nil {
		s.Shadow.Enabled = *o.ShadowEnabled
	}
	setString(&s.Shadow.Color, o.ShadowColor)
	setFloat(&s.Shadow.Blur, o.ShadowBlur)
	setFloat(&s.Shadow.OffsetX, o.ShadowOffsetX)
	setFloat(&s.Shadow.OffsetY, o.ShadowOffsetY)
	if o.Opacity != nil {
		s.Opacity = ClampOpacity(*o.Opacity)
	}
	setString(&s.TextAlign, o.TextAlign)
}

// ClampOpacity clamps v into [0,1].
func ClampOpacity(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// StyleOptions expresses a full style as Options, used when exporting elements.
func StyleOptions(s Style) Options {
	return Options{
		FontFamily:      Ptr(s.FontFamily),
		FontSize:        Ptr(s.FontSize),
		FontWeight:      Ptr(s.FontWeight),
		FontStyle:       Ptr(s.FontStyle),
		Color:           Ptr(s.Color),
		StrokeColor:     Ptr(s.StrokeColor),
		StrokeWidth:     Ptr(s.StrokeWidth),
		BackgroundColor: Ptr(s.BackgroundColor),
		Padding:         Ptr(s.Padding),
		BorderRadius:    Ptr(s.BorderRadius),
		ShadowEnabled:   Ptr(s.Shadow.Enabled),
		ShadowColor:     Ptr(s.Shadow.Color),
		ShadowBlur:      Ptr(s.Shadow.Blur),
		ShadowOffsetX:   Ptr(s.Shadow.OffsetX),
		ShadowOffsetY:   Ptr(s.Shadow.OffsetY),
		Opacity:         Ptr(s.Opacity),
		TextAlign:       Ptr(s.TextAlign),
	}
}

// String is used in log lines.
func (o Options) String() string {
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Sprintf("options(%v)", err)
	}
	return strings.TrimSpace(string(data))
}
