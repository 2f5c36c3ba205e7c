// Package window owns the full-screen overlay: a borderless topmost
// window the frame loop polls for input and presents packed-pixel
// buffers to. The platform implementation lives in a build-tagged file;
// everything above this package talks to the Overlay interface only.
package window

import "screen-snip/src/events"

// Frame is one polled snapshot of window input, taken once per frame on
// the UI thread. The cursor is clamped to the window rectangle.
type Frame struct {
	MouseX      int
	MouseY      int
	MouseInside bool
	MouseDown   bool
	Keys        [events.KeyCount]bool
	Open        bool
}

// Overlay is the narrow window contract the frame loop drives. All
// methods must be called from the thread that created the window.
type Overlay interface {
	// SetTitle updates the window title.
	SetTitle(title string)
	// SetPosition moves the window; (0,0) shows it, far negative
	// coordinates hide it without minimizing.
	SetPosition(x, y int)
	// Poll pumps pending window messages and snapshots the input state.
	Poll() Frame
	// Present blits a W*H buffer of packed 0xAARRGGBB pixels.
	Present(pix []uint32)
	// Close destroys the window; Poll reports Open=false afterwards.
	Close()
}

// New creates the platform overlay sized to the primary display.
// Implemented in window_windows.go; other platforms get a stub.
func New(title string, width, height int) (Overlay, error) {
	return newPlatformOverlay(title, width, height)
}
