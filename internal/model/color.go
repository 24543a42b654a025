package model

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor understands #rgb, #rrggbb, #rrggbbaa, rgb(), rgba(), the SVG color
// names and transparent. The empty string is transparent.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "transparent" {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if strings.HasPrefix(s, "rgb") {
		return parseFunc(s)
	}
	return color.NRGBA{}, Invalid("unknown color %q", s)
}

func parseHex(h string) (color.NRGBA, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, Invalid("bad hex color #%s", h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, Invalid("bad hex color #%s: %v", h, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseFunc(s string) (color.NRGBA, error) {
	open, closing := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || closing < open {
		return color.NRGBA{}, Invalid("bad color %q", s)
	}
	parts := strings.Split(s[open+1:closing], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, Invalid("bad color %q", s)
	}
	var ch [4]float64
	ch[3] = 1
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return color.NRGBA{}, Invalid("bad color %q: %v", s, err)
		}
		ch[i] = v
	}
	clamp := func(v, hi float64) float64 { return math.Max(0, math.Min(hi, v)) }
	return color.NRGBA{
		R: uint8(math.Round(clamp(ch[0], 255))),
		G: uint8(math.Round(clamp(ch[1], 255))),
		B: uint8(math.Round(clamp(ch[2], 255))),
		A: uint8(math.Round(clamp(ch[3], 1) * 255)),
	}, nil
}
