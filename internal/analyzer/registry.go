package analyzer

import "github.com/ivlev/textoverlay/internal/model"

// NewDetector creates a detector for the named variant.
func NewDetector(variant string) (Detector, error) {
	switch variant {
	case "contrast", "":
		return NewContrastDetector(), nil
	default:
		return nil, model.Invalid("unknown detector variant %q", variant)
	}
}
