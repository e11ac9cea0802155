package ocr

import "errors"

var (
	// ErrNoSections is returned when a layout has nothing to crop for a weapon kind.
	ErrNoSections = errors.New("layout has no sections for weapon kind")
	// ErrOutOfBounds is returned when a section lies outside the screenshot.
	ErrOutOfBounds = errors.New("section outside image bounds")
)
