package fsm

import (
	"fmt"
	"image"
	"log"
	"os"
	"time"

	"screen-snip/src/compositor"
	"screen-snip/src/events"
	"screen-snip/src/geom"
)

// Window titles per state.
const (
	TitleIdle  = "Screen Capture - Press Ctrl+Alt+D to capture screen, ESC to exit"
	TitleFull  = "Screen captured - Click and drag to select region, ESC to cancel"
	TitleRed   = "Region selected - Press Ctrl+S to save, or click and drag to select sub-region, ESC to re-select"
	TitleGreen = "Sub-region selected - Press Ctrl+S to save, ESC to re-select"
)

// Commit thresholds: a drag must exceed these per axis or it is discarded.
const (
	minRedSpan   = 10
	minGreenSpan = 5
)

// preCaptureDelay lets the OS actually move the overlay off-screen before
// the framebuffer is read.
const preCaptureDelay = 100 * time.Millisecond

// Hooks are the side effects a transition may request. The frame loop
// wires them to the real window, grabber and writer; tests substitute
// recorders.
type Hooks struct {
	// Grab captures the primary display.
	Grab func() (*image.RGBA, error)
	// Save writes the selection to disk; green is nil for a plain red save.
	Save func(img *image.RGBA, red geom.Rect, green *geom.Rect)
	// ShowWindow moves the overlay to the origin.
	ShowWindow func()
	// HideWindow moves the overlay well off any plausible monitor.
	HideWindow func()
	// SetTitle updates the overlay title.
	SetTitle func(title string)
	// Sleep blocks the UI thread; only used for the pre-capture delay.
	Sleep func(d time.Duration)
	// Terminate ends the process from the Idle state.
	Terminate func()
}

// Step folds one event into the current state and returns the next one.
// The transition table is total: unmatched (state, event) pairs return
// the state unchanged and request no side effect.
func Step(s State, ev events.Event, fx Hooks) State {
	switch st := s.(type) {
	case Idle:
		return stepIdle(st, ev, fx)
	case Full:
		return stepFull(st, ev, fx)
	case DraggingRed:
		return stepDraggingRed(st, ev, fx)
	case Red:
		return stepRed(st, ev, fx)
	case DraggingGreen:
		return stepDraggingGreen(st, ev, fx)
	case Green:
		return stepGreen(st, ev, fx)
	default:
		return s
	}
}

func stepIdle(s Idle, ev events.Event, fx Hooks) State {
	switch e := ev.(type) {
	case events.KeyDown:
		if e.Key == events.KeyEscape {
			fx.Terminate()
		}
	case events.CaptureRequested:
		fx.HideWindow()
		fx.Sleep(preCaptureDelay)
		img, err := fx.Grab()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to capture screen: %v\n", err)
			log.Printf("Capture failed, staying idle: %v", err)
			return s
		}
		fx.ShowWindow()
		fx.SetTitle(TitleFull)
		log.Printf("Captured %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
		return Full{Img: img, Cache: compositor.NewCache(img)}
	}
	return s
}

func stepFull(s Full, ev events.Event, fx Hooks) State {
	switch e := ev.(type) {
	case events.KeyDown:
		if e.Key == events.KeyEscape {
			fx.HideWindow()
			fx.SetTitle(TitleIdle)
			return Idle{}
		}
	case events.MouseDown:
		return DraggingRed{Img: s.Img, Cache: s.Cache, Anchor: e.P, Cursor: e.P}
	}
	return s
}

func stepDraggingRed(s DraggingRed, ev events.Event, fx Hooks) State {
	switch e := ev.(type) {
	case events.MouseMove:
		s.Cursor = e.P
		return s
	case events.MouseUp:
		r := geom.RectFromPoints(s.Anchor, s.Cursor)
		if r.W > minRedSpan && r.H > minRedSpan {
			fx.SetTitle(TitleRed)
			return Red{Img: s.Img, Cache: s.Cache, Red: r}
		}
		log.Printf("Selection %s too small, discarding", r)
		fx.SetTitle(TitleFull)
		return Full{Img: s.Img, Cache: s.Cache}
	case events.KeyDown:
		if e.Key == events.KeyEscape {
			fx.SetTitle(TitleFull)
			return Full{Img: s.Img, Cache: s.Cache}
		}
	}
	return s
}

func stepRed(s Red, ev events.Event, fx Hooks) State {
	switch e := ev.(type) {
	case events.MouseDown:
		// Sub-selections start inside the committed rectangle only.
		if s.Red.Contains(e.P) {
			return DraggingGreen{Img: s.Img, Cache: s.Cache, Red: s.Red, Anchor: e.P, Cursor: e.P}
		}
		return s
	case events.KeyDown:
		switch e.Key {
		case events.KeyEscape:
			fx.SetTitle(TitleFull)
			return Full{Img: s.Img, Cache: s.Cache}
		case events.KeyS:
			return finishSave(s.Img, s.Red, nil, fx)
		}
	case events.SaveRequested:
		return finishSave(s.Img, s.Red, nil, fx)
	}
	return s
}

func stepDraggingGreen(s DraggingGreen, ev events.Event, fx Hooks) State {
	switch e := ev.(type) {
	case events.MouseMove:
		s.Cursor = s.Red.ClampPoint(e.P)
		return s
	case events.MouseUp:
		g := geom.RectFromPoints(s.Anchor, s.Cursor)
		if g.W > minGreenSpan && g.H > minGreenSpan {
			fx.SetTitle(TitleGreen)
			return Green{Img: s.Img, Cache: s.Cache, Red: s.Red, Green: g}
		}
		log.Printf("Sub-selection %s too small, discarding", g)
		fx.SetTitle(TitleRed)
		return Red{Img: s.Img, Cache: s.Cache, Red: s.Red}
	case events.KeyDown:
		if e.Key == events.KeyEscape {
			fx.SetTitle(TitleRed)
			return Red{Img: s.Img, Cache: s.Cache, Red: s.Red}
		}
	}
	return s
}

func stepGreen(s Green, ev events.Event, fx Hooks) State {
	switch e := ev.(type) {
	case events.KeyDown:
		switch e.Key {
		case events.KeyEscape:
			fx.SetTitle(TitleRed)
			return Red{Img: s.Img, Cache: s.Cache, Red: s.Red}
		case events.KeyS:
			return finishSave(s.Img, s.Red, &s.Green, fx)
		}
	case events.SaveRequested:
		return finishSave(s.Img, s.Red, &s.Green, fx)
	}
	return s
}

// finishSave invokes the writer and ends the capture session. Save
// failures are the writer's to report; the session ends either way.
func finishSave(img *image.RGBA, red geom.Rect, green *geom.Rect, fx Hooks) State {
	fx.Save(img, red, green)
	fx.HideWindow()
	fx.SetTitle(TitleIdle)
	return Idle{}
}
