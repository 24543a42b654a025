// Package analyzer inspects the background under overlays: it finds busy
// content regions and checks that overlay text stays readable on them.
package analyzer

import "image"

// Block is a detected content region of a background.
type Block struct {
	Rect       image.Rectangle
	Confidence float64 // 0.0-1.0
}

// Detector finds content regions in a background.
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}
