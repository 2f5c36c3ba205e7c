// Package screenshot is the thin contract over the OS screen grab: it
// returns the primary display as an RGBA bitmap whose dimensions match
// the display's reported size.
package screenshot

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ErrDisplayUnavailable means no active display was found. It is fatal
// at startup; a later grab failure only cancels the capture session.
var ErrDisplayUnavailable = errors.New("no active displays found")

// PrimaryBounds returns the bounds of the primary display (display 0).
func PrimaryBounds() (image.Rectangle, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return image.Rectangle{}, ErrDisplayUnavailable
	}
	return screenshot.GetDisplayBounds(0), nil
}

// CapturePrimary grabs the primary display. The returned image is owned
// by the caller and treated read-only for the rest of the capture
// session.
func CapturePrimary() (*image.RGBA, error) {
	bounds, err := PrimaryBounds()
	if err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture primary display: %w", err)
	}
	if got := img.Bounds(); got.Dx() != bounds.Dx() || got.Dy() != bounds.Dy() {
		return nil, fmt.Errorf("capture size %dx%d does not match display %dx%d",
			got.Dx(), got.Dy(), bounds.Dx(), bounds.Dy())
	}
	return img, nil
}
