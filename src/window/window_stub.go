//go:build !windows

package window

import "fmt"

// newPlatformOverlay is a stub for non-Windows platforms.
func newPlatformOverlay(title string, width, height int) (Overlay, error) {
	return nil, fmt.Errorf("overlay window not implemented for this platform")
}
