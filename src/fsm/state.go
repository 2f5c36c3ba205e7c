// Package fsm implements the interaction state machine: five states
// around one captured image, driven by input events, emitting window and
// save side effects through a callbacks struct.
package fsm

import (
	"image"

	"screen-snip/src/compositor"
	"screen-snip/src/geom"
)

// State is the closed set of interaction states. Exactly one value is
// alive at a time; each variant carries only the data it needs, so no
// field is ever nil or a sentinel.
type State interface {
	Name() string
}

// Idle holds no image; the overlay is hidden off-screen.
type Idle struct{}

// Full shows the captured image with no selection yet.
type Full struct {
	Img   *image.RGBA
	Cache *compositor.Cache
}

// DraggingRed is a primary-rectangle drag in progress.
type DraggingRed struct {
	Img    *image.RGBA
	Cache  *compositor.Cache
	Anchor geom.Point
	Cursor geom.Point
}

// Red has a committed primary rectangle (over 10 px per axis).
type Red struct {
	Img   *image.RGBA
	Cache *compositor.Cache
	Red   geom.Rect
}

// DraggingGreen is a nested-rectangle drag in progress; Anchor lies
// inside Red by the entry guard and Cursor is clamped to Red.
type DraggingGreen struct {
	Img    *image.RGBA
	Cache  *compositor.Cache
	Red    geom.Rect
	Anchor geom.Point
	Cursor geom.Point
}

// Green has a committed nested rectangle (over 5 px per axis, inside Red).
type Green struct {
	Img   *image.RGBA
	Cache *compositor.Cache
	Red   geom.Rect
	Green geom.Rect
}

func (Idle) Name() string          { return "Idle" }
func (Full) Name() string          { return "Full" }
func (DraggingRed) Name() string   { return "DraggingRed" }
func (Red) Name() string           { return "Red" }
func (DraggingGreen) Name() string { return "DraggingGreen" }
func (Green) Name() string         { return "Green" }

// Render rebuilds the composite buffer for s. Idle has nothing to show
// and returns nil; the frame loop skips presentation then.
func Render(s State) []uint32 {
	switch st := s.(type) {
	case Full:
		return st.Cache.Compose(nil, nil)
	case DraggingRed:
		r := geom.RectFromPoints(st.Anchor, st.Cursor)
		return st.Cache.Compose(&r, nil)
	case Red:
		return st.Cache.Compose(&st.Red, nil)
	case DraggingGreen:
		g := geom.RectFromPoints(st.Anchor, st.Cursor)
		return st.Cache.Compose(&st.Red, &g)
	case Green:
		return st.Cache.Compose(&st.Red, &st.Green)
	default:
		return nil
	}
}
