// Package debug records intermediate images produced while reading a clock.
//
// The pipeline talks to a Debugger only. Recorder writes numbered artifacts to
// a directory, one directory per input image; Nop discards everything and is
// what the pipeline uses when no debugger is given.
package debug

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/ironsheep/clockread/internal/detection"
)

var (
	// ErrNoArtifact is returned by ArtifactPath for a name that was never saved.
	ErrNoArtifact = errors.New("debug artifact not found")

	// ErrDuplicateArtifact is returned when a name is saved twice.
	ErrDuplicateArtifact = errors.New("debug artifact already saved")
)

// Overlay is drawn on top of an image before it is saved.
type Overlay struct {
	// Hands are drawn from their origin to their tip and numbered 1..n.
	Hands []detection.Hand

	// Regions are drawn as rectangle outlines.
	Regions []image.Rectangle

	// Color of the overlay. Red when nil.
	Color color.Color
}

// Debugger receives named debug images.
//
// Names must be unique per Debugger and must not contain path separators.
type Debugger interface {
	SaveImage(name string, img image.Image) error
	SaveImageWithOverlays(name string, img image.Image, overlay Overlay) error
	ArtifactPath(name string) (string, error)
}

// Nop is a Debugger that stores nothing.
type Nop struct{}

// SaveImage does nothing.
func (Nop) SaveImage(string, image.Image) error { return nil }

// SaveImageWithOverlays does nothing.
func (Nop) SaveImageWithOverlays(string, image.Image, Overlay) error { return nil }

// ArtifactPath always fails with ErrNoArtifact.
func (Nop) ArtifactPath(name string) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrNoArtifact, name)
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("debug artifact name is empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("debug artifact name %q contains a path separator", name)
	}
	return nil
}
