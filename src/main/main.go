package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"screen-snip/src/config"
	"screen-snip/src/eventloop"
	"screen-snip/src/events"
	"screen-snip/src/fsm"
	"screen-snip/src/geom"
	"screen-snip/src/hotkey"
	"screen-snip/src/logutil"
	"screen-snip/src/screenshot"
	"screen-snip/src/tray"
	"screen-snip/src/window"
	"screen-snip/src/writer"
)

func main() {
	// Ensure DPI awareness before creating any windows or querying metrics.
	enableDPIAwareness()

	// The overlay window and its message pump live on this thread for the
	// whole process lifetime.
	runtime.LockOSThread()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logutil.Setup(cfg.EnableFileLogging)

	// Single-instance guard: two instances would fight over the global
	// hotkeys. Hold the port for the process lifetime.
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", cfg.InstancePort))
	if err != nil {
		fmt.Fprintf(os.Stderr, "one is already running on port %d\n", cfg.InstancePort)
		os.Exit(1)
	}
	defer ln.Close()

	bounds, err := screenshot.PrimaryBounds()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open primary display: %v\n", err)
		os.Exit(1)
	}
	screenW, screenH := bounds.Dx(), bounds.Dy()

	fmt.Printf("Primary screen: %dx%d\n", screenW, screenH)
	fmt.Printf("Press %s to capture screen, ESC to exit\n", cfg.CaptureHotkey)
	fmt.Printf("Press %s to save selected region\n", cfg.SaveHotkey)

	ov, err := window.New(fsm.TitleIdle, screenW, screenH)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create overlay window: %v\n", err)
		os.Exit(1)
	}
	defer ov.Close()
	// Start hidden well off any plausible monitor.
	ov.SetPosition(-2*screenW, -2*screenH)

	hotkeyCh := make(chan events.Event, 16)
	post := func(ev events.Event) {
		select {
		case hotkeyCh <- ev:
		default:
		}
	}

	if err := hotkey.Listen(
		hotkey.Binding{Combo: cfg.CaptureHotkey, Fire: func() { post(events.CaptureRequested{}) }},
		hotkey.Binding{Combo: cfg.SaveHotkey, Fire: func() { post(events.SaveRequested{}) }},
	); err != nil {
		// Degraded but usable: the tray menu still injects the same events.
		fmt.Fprintf(os.Stderr, "Hotkey registration failed: %v\n", err)
		log.Printf("Continuing without global hotkeys: %v", err)
	}
	defer hotkey.Stop()

	go tray.Run(tray.Config{
		Tooltip:   fmt.Sprintf("Screen Snip - Press %s to capture", cfg.CaptureHotkey),
		OnCapture: func() { post(events.CaptureRequested{}) },
		OnSave:    func() { post(events.SaveRequested{}) },
		OnExit:    func() { post(events.Quit{}) },
	})
	defer tray.Quit()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
	}()

	deps := eventloop.Deps{
		Grab: screenshot.CapturePrimary,
		Save: func(img *image.RGBA, red geom.Rect, green *geom.Rect) {
			if _, err := writer.Save(img, red, green, screenW, screenH, cfg.OutputDir); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to save image: %v\n", err)
			}
		},
		ScreenW: screenW,
		ScreenH: screenH,
	}

	loop := eventloop.New(ov, hotkeyCh, deps, cfg.TargetFPS)
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("event loop stopped: %v", err)
	}
}
