// Package events defines the input events consumed by the interaction
// state machine and the per-frame queue that orders them.
package events

import "screen-snip/src/geom"

// Key identifies the window-focused keys the state machine reacts to.
type Key int

const (
	KeyEscape Key = iota
	KeyS

	// KeyCount is the number of tracked keys; the window layer sizes its
	// per-frame key array with it.
	KeyCount
)

func (k Key) String() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeyS:
		return "S"
	default:
		return "Unknown"
	}
}

// Event is the closed set of inputs the state machine folds over.
type Event interface {
	isEvent()
}

// KeyDown is an edge-triggered key press inside the overlay window.
type KeyDown struct{ Key Key }

// KeyUp is an edge-triggered key release inside the overlay window.
type KeyUp struct{ Key Key }

// MouseMove carries the cursor position, clamped to the window rectangle.
type MouseMove struct{ P geom.Point }

// MouseDown is a left-button press at P.
type MouseDown struct{ P geom.Point }

// MouseUp is a left-button release at P.
type MouseUp struct{ P geom.Point }

// CaptureRequested is posted by the global capture hotkey or the tray menu.
type CaptureRequested struct{}

// SaveRequested is posted by the global save hotkey or the tray menu. The
// state machine treats it exactly like a focused S keypress.
type SaveRequested struct{}

// Quit asks the frame loop to unwind.
type Quit struct{}

func (KeyDown) isEvent()          {}
func (KeyUp) isEvent()            {}
func (MouseMove) isEvent()        {}
func (MouseDown) isEvent()        {}
func (MouseUp) isEvent()          {}
func (CaptureRequested) isEvent() {}
func (SaveRequested) isEvent()    {}
func (Quit) isEvent()             {}
