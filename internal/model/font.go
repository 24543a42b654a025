package model

import (
	"fmt"
	"strings"
)

const (
	WeightNormal = "normal"
	WeightBold   = "bold"

	StyleNormal = "normal"
	StyleItalic = "italic"
)

// FontDescription identifies a face at a given pixel size.
type FontDescription struct {
	Family string
	Size   float64
	Weight string
	Style  string
}

// Bold reports whether the description asks for a bold face.
func (fd FontDescription) Bold() bool { return strings.EqualFold(fd.Weight, WeightBold) }

// Italic reports whether the description asks for an italic face.
func (fd FontDescription) Italic() bool { return strings.EqualFold(fd.Style, StyleItalic) }

// String renders the description in CSS font shorthand, e.g. "italic bold 32px Amiri".
func (fd FontDescription) String() string {
	var parts []string
	if fd.Italic() {
		parts = append(parts, StyleItalic)
	}
	if fd.Bold() {
		parts = append(parts, WeightBold)
	}
	parts = append(parts, fmt.Sprintf("%gpx", fd.Size), fd.Family)
	return strings.Join(parts, " ")
}
