package eventloop

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"screen-snip/src/events"
	"screen-snip/src/fsm"
	"screen-snip/src/geom"
	"screen-snip/src/window"
	"screen-snip/src/writer"
)

// fakeOverlay plays back a scripted frame sequence and records what the
// loop asks of the window.
type fakeOverlay struct {
	frames    []window.Frame
	titles    []string
	positions [][2]int
	presents  int
	lastPix   []uint32
	closed    bool
}

func (o *fakeOverlay) SetTitle(title string) { o.titles = append(o.titles, title) }
func (o *fakeOverlay) SetPosition(x, y int) { o.positions = append(o.positions, [2]int{x, y}) }
func (o *fakeOverlay) Poll() window.Frame {
	if len(o.frames) == 0 {
		return window.Frame{Open: !o.closed}
	}
	f := o.frames[0]
	if len(o.frames) > 1 {
		o.frames = o.frames[1:]
	}
	return f
}
func (o *fakeOverlay) Present(pix []uint32) {
	o.presents++
	o.lastPix = pix
}
func (o *fakeOverlay) Close() { o.closed = true }

func (o *fakeOverlay) lastPosition() [2]int {
	if len(o.positions) == 0 {
		return [2]int{}
	}
	return o.positions[len(o.positions)-1]
}

func testCapture(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 9, A: 255})
		}
	}
	return img
}

const screenW, screenH = 640, 480

func newTestLoop(ov window.Overlay, hotkeys <-chan events.Event, save func(*image.RGBA, geom.Rect, *geom.Rect)) *Loop {
	if save == nil {
		save = func(*image.RGBA, geom.Rect, *geom.Rect) {}
	}
	l := New(ov, hotkeys, Deps{
		Grab:    func() (*image.RGBA, error) { return testCapture(screenW, screenH), nil },
		Save:    save,
		ScreenW: screenW,
		ScreenH: screenH,
	}, 60)
	// Tests never want a real pre-capture delay.
	l.hooks.Sleep = func(time.Duration) {}
	return l
}

// inputFrame builds one polled input snapshot.
func inputFrame(x, y int, down bool, keys ...events.Key) window.Frame {
	f := window.Frame{MouseX: x, MouseY: y, MouseInside: true, MouseDown: down, Open: true}
	for _, k := range keys {
		f.Keys[k] = true
	}
	return f
}

func TestHotkeyCaptureShowsOverlay(t *testing.T) {
	ov := &fakeOverlay{}
	hotkeys := make(chan events.Event, 16)
	l := newTestLoop(ov, hotkeys, nil)

	hotkeys <- events.CaptureRequested{}
	if !l.frame() {
		t.Fatal("frame reported loop end")
	}

	if _, ok := l.State().(fsm.Full); !ok {
		t.Fatalf("state = %s, want Full", l.State().Name())
	}
	// Hide first for the grab, then show at the origin.
	if len(ov.positions) != 2 {
		t.Fatalf("positions = %v, want hide then show", ov.positions)
	}
	if ov.positions[0] != [2]int{-2 * screenW, -2 * screenH} {
		t.Errorf("hide position = %v", ov.positions[0])
	}
	if ov.positions[1] != [2]int{0, 0} {
		t.Errorf("show position = %v", ov.positions[1])
	}
	if ov.presents != 1 || len(ov.lastPix) != screenW*screenH {
		t.Errorf("presented %d times, last buffer %d pixels", ov.presents, len(ov.lastPix))
	}
}

func TestCaptureFailureLeavesOverlayHidden(t *testing.T) {
	ov := &fakeOverlay{}
	hotkeys := make(chan events.Event, 16)
	l := New(ov, hotkeys, Deps{
		Grab:    func() (*image.RGBA, error) { return nil, errors.New("no display") },
		Save:    func(*image.RGBA, geom.Rect, *geom.Rect) {},
		ScreenW: screenW,
		ScreenH: screenH,
	}, 60)
	l.hooks.Sleep = func(time.Duration) {}

	hotkeys <- events.CaptureRequested{}
	if !l.frame() {
		t.Fatal("frame reported loop end")
	}

	if _, ok := l.State().(fsm.Idle); !ok {
		t.Fatalf("state = %s, want Idle", l.State().Name())
	}
	if got := ov.lastPosition(); got != [2]int{-2 * screenW, -2 * screenH} {
		t.Errorf("last position = %v, overlay must stay hidden", got)
	}
	if ov.presents != 0 {
		t.Errorf("nothing should be presented while idle, got %d presents", ov.presents)
	}
}

func TestMouseDragCommitsSelection(t *testing.T) {
	ov := &fakeOverlay{frames: []window.Frame{
		inputFrame(100, 100, true),  // press
		inputFrame(500, 400, true),  // drag
		inputFrame(500, 400, false), // release
	}}
	l := newTestLoop(ov, nil, nil)

	l.Step(events.CaptureRequested{})
	for i := 0; i < 3; i++ {
		if !l.frame() {
			t.Fatalf("frame %d reported loop end", i)
		}
	}

	red, ok := l.State().(fsm.Red)
	if !ok {
		t.Fatalf("state = %s, want Red", l.State().Name())
	}
	if want := (geom.Rect{X: 100, Y: 100, W: 400, H: 300}); red.Red != want {
		t.Errorf("committed %v, want %v", red.Red, want)
	}
}

func TestNestedSelectionClampsToOuter(t *testing.T) {
	ov := &fakeOverlay{}
	l := newTestLoop(ov, nil, nil)

	for _, ev := range []events.Event{
		events.CaptureRequested{},
		events.MouseDown{P: geom.Point{X: 100, Y: 100}},
		events.MouseMove{P: geom.Point{X: 500, Y: 400}},
		events.MouseUp{P: geom.Point{X: 500, Y: 400}},
		events.MouseDown{P: geom.Point{X: 450, Y: 350}},
		events.MouseMove{P: geom.Point{X: 1000, Y: 1000}},
		events.MouseUp{P: geom.Point{X: 1000, Y: 1000}},
	} {
		l.Step(ev)
	}

	g, ok := l.State().(fsm.Green)
	if !ok {
		t.Fatalf("state = %s, want Green", l.State().Name())
	}
	if want := (geom.Rect{X: 450, Y: 350, W: 50, H: 50}); g.Green != want {
		t.Errorf("green = %v, want %v", g.Green, want)
	}
}

func TestSaveWritesWebPFile(t *testing.T) {
	root := t.TempDir()
	ov := &fakeOverlay{}
	l := newTestLoop(ov, nil, func(img *image.RGBA, red geom.Rect, green *geom.Rect) {
		if _, err := writer.Save(img, red, green, screenW, screenH, root); err != nil {
			t.Errorf("Save: %v", err)
		}
	})

	for _, ev := range []events.Event{
		events.CaptureRequested{},
		events.MouseDown{P: geom.Point{X: 100, Y: 100}},
		events.MouseMove{P: geom.Point{X: 500, Y: 400}},
		events.MouseUp{P: geom.Point{X: 500, Y: 400}},
		events.SaveRequested{},
	} {
		l.Step(ev)
	}

	if _, ok := l.State().(fsm.Idle); !ok {
		t.Fatalf("state = %s, want Idle after save", l.State().Name())
	}
	matches, err := filepath.Glob(filepath.Join(root, "W640H480", "screenshot_*.webp"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("written files = %v (err %v), want exactly one", matches, err)
	}
	info, err := os.Stat(matches[0])
	if err != nil || info.Size() == 0 {
		t.Fatalf("written file is empty or unreadable: %v", err)
	}
	if got := ov.lastPosition(); got != [2]int{-2 * screenW, -2 * screenH} {
		t.Errorf("overlay should be hidden after a save, last position %v", got)
	}
}

func TestEscapeLadderTerminatesLoop(t *testing.T) {
	ov := &fakeOverlay{frames: []window.Frame{
		inputFrame(0, 0, false, events.KeyEscape),
	}}
	l := newTestLoop(ov, nil, nil)

	l.Step(events.CaptureRequested{})
	l.Step(events.KeyDown{Key: events.KeyEscape}) // Full -> Idle
	if _, ok := l.State().(fsm.Idle); !ok {
		t.Fatalf("state = %s, want Idle", l.State().Name())
	}

	// ESC in Idle terminates; the frame that carries it reports the end.
	if l.frame() {
		t.Fatal("frame should report loop end after Idle+ESC")
	}
}

func TestQuitEventEndsLoop(t *testing.T) {
	ov := &fakeOverlay{}
	hotkeys := make(chan events.Event, 16)
	l := newTestLoop(ov, hotkeys, nil)

	hotkeys <- events.Quit{}
	if l.frame() {
		t.Fatal("frame should report loop end on Quit")
	}
}

func TestClosedWindowEndsRun(t *testing.T) {
	ov := &fakeOverlay{}
	ov.Close()
	l := newTestLoop(ov, nil, nil)

	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after the window closed")
	}
}

func TestRunHonorsContext(t *testing.T) {
	ov := &fakeOverlay{}
	l := newTestLoop(ov, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not exit after cancellation")
	}
}
