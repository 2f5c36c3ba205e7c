// Package eventloop drives the whole tool: a single-threaded frame loop
// that drains input events, folds them through the interaction state
// machine, recomposites and presents.
package eventloop

import (
	"context"
	"image"
	"log"
	"time"

	"screen-snip/src/events"
	"screen-snip/src/fsm"
	"screen-snip/src/geom"
	"screen-snip/src/input"
	"screen-snip/src/window"
)

// Deps are the external collaborators the loop wires into the state
// machine's side-effect hooks.
type Deps struct {
	// Grab captures the primary display.
	Grab func() (*image.RGBA, error)
	// Save writes a committed selection to disk.
	Save func(img *image.RGBA, red geom.Rect, green *geom.Rect)
	// ScreenW, ScreenH are the primary display dimensions; the hide
	// position is derived from them.
	ScreenW int
	ScreenH int
}

// Loop owns everything on the UI thread: the overlay, the per-frame
// queue, the input tracker and the current interaction state. The hotkey
// goroutine reaches it only through the events channel.
type Loop struct {
	overlay  window.Overlay
	hotkeys  <-chan events.Event
	hooks    fsm.Hooks
	queue    events.Queue
	tracker  input.Tracker
	state    fsm.State
	interval time.Duration
	quit     bool
}

// New builds a loop presenting at most targetFPS frames per second.
func New(ov window.Overlay, hotkeys <-chan events.Event, deps Deps, targetFPS int) *Loop {
	if targetFPS <= 0 {
		targetFPS = 60
	}
	l := &Loop{
		overlay:  ov,
		hotkeys:  hotkeys,
		state:    fsm.Idle{},
		interval: time.Second / time.Duration(targetFPS),
	}
	l.hooks = fsm.Hooks{
		Grab:       deps.Grab,
		Save:       deps.Save,
		ShowWindow: func() { ov.SetPosition(0, 0) },
		HideWindow: func() { ov.SetPosition(-2*deps.ScreenW, -2*deps.ScreenH) },
		SetTitle:   ov.SetTitle,
		Sleep:      time.Sleep,
		Terminate:  func() { l.quit = true },
	}
	return l
}

// Run paces frames until the window closes, the state machine terminates
// or ctx is cancelled. It must run on the thread that created the
// overlay.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if !l.frame() {
			log.Printf("Frame loop exiting from state %s", l.state.Name())
			return nil
		}
	}
}

// frame runs one iteration: drain, step, composite, present. Returns
// false when the loop should end.
func (l *Loop) frame() bool {
	f := l.overlay.Poll()
	if !f.Open {
		return false
	}

	// Cross-thread events first, then this frame's key diffs, then mouse.
	l.queue.DrainChannel(l.hotkeys)
	l.tracker.Append(f, &l.queue)

	for {
		ev, ok := l.queue.Pop()
		if !ok {
			break
		}
		if _, isQuit := ev.(events.Quit); isQuit {
			return false
		}
		l.state = fsm.Step(l.state, ev, l.hooks)
		if l.quit {
			return false
		}
	}

	if pix := fsm.Render(l.state); pix != nil {
		l.overlay.Present(pix)
	}
	return true
}

// State exposes the current interaction state for tests.
func (l *Loop) State() fsm.State { return l.state }

// Step feeds one event directly through the state machine, bypassing the
// overlay poll. Used by tests to drive scenarios deterministically.
func (l *Loop) Step(ev events.Event) {
	l.state = fsm.Step(l.state, ev, l.hooks)
}
