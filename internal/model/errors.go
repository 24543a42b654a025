package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrResourceUnavailable = errors.New("resource unavailable")
	ErrRenderIsolation     = errors.New("render isolation failure")

	// ErrNoSelection is returned by selection-relative operations when nothing is selected.
	ErrNoSelection = fmt.Errorf("no selection: %w", ErrNotFound)
)

// NotFound wraps ErrNotFound with the kind and id that were looked up.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// Invalid wraps ErrInvalidInput with a formatted reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}
