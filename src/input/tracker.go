// Package input turns polled per-frame window state into edge-triggered
// events by diffing against the previous frame.
package input

import (
	"screen-snip/src/events"
	"screen-snip/src/geom"
	"screen-snip/src/window"
)

// Tracker remembers the previous frame's key and button state. The zero
// value is ready to use.
type Tracker struct {
	prev window.Frame
}

// Append diffs cur against the previous frame and pushes the resulting
// events: key transitions first, then at most one MouseMove (only while
// the cursor is inside the window), then left-button edges.
func (t *Tracker) Append(cur window.Frame, q *events.Queue) {
	for k := events.Key(0); k < events.KeyCount; k++ {
		switch {
		case cur.Keys[k] && !t.prev.Keys[k]:
			q.Push(events.KeyDown{Key: k})
		case !cur.Keys[k] && t.prev.Keys[k]:
			q.Push(events.KeyUp{Key: k})
		}
	}

	p := geom.Point{X: cur.MouseX, Y: cur.MouseY}
	if cur.MouseInside {
		q.Push(events.MouseMove{P: p})
	}
	switch {
	case cur.MouseDown && !t.prev.MouseDown:
		q.Push(events.MouseDown{P: p})
	case !cur.MouseDown && t.prev.MouseDown:
		q.Push(events.MouseUp{P: p})
	}

	t.prev = cur
}
