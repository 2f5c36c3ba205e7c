// Package tray puts a small icon in the system tray whose menu mirrors
// the global hotkeys, for users who forget the key combos.
package tray

import (
	_ "embed"
	"log"

	"github.com/getlantern/systray"
)

//go:embed icon.ico
var iconData []byte

// Config carries the menu callbacks. OnCapture and OnSave run on the
// tray goroutine and must hand off quickly, exactly like hotkey
// callbacks.
type Config struct {
	Tooltip   string
	OnCapture func()
	OnSave    func()
	OnExit    func()
}

// Run starts the tray loop. It blocks until Quit is selected or
// systray.Quit is called, then invokes OnExit.
func Run(cfg Config) {
	systray.Run(func() { onReady(cfg) }, func() {
		if cfg.OnExit != nil {
			cfg.OnExit()
		}
	})
}

// Quit tears the tray icon down from outside the menu.
func Quit() {
	systray.Quit()
}

func onReady(cfg Config) {
	systray.SetIcon(iconData)
	systray.SetTitle("Screen Snip")
	systray.SetTooltip(cfg.Tooltip)

	mCapture := systray.AddMenuItem("Capture screen", "Grab the primary display into the overlay")
	mSave := systray.AddMenuItem("Save selection", "Save the committed selection")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit the application")

	go func() {
		for {
			select {
			case <-mCapture.ClickedCh:
				log.Printf("Tray: capture clicked")
				if cfg.OnCapture != nil {
					cfg.OnCapture()
				}
			case <-mSave.ClickedCh:
				log.Printf("Tray: save clicked")
				if cfg.OnSave != nil {
					cfg.OnSave()
				}
			case <-mQuit.ClickedCh:
				log.Printf("Tray: quit clicked")
				systray.Quit()
				return
			}
		}
	}()
}
