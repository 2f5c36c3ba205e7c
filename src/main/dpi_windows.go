//go:build windows

package main

import "golang.org/x/sys/windows"

// enableDPIAwareness sets per-monitor DPI awareness so window and
// capture coordinates agree on scaled displays. Prefers
// Shcore.SetProcessDpiAwareness (Win 8.1+), falls back to
// user32.SetProcessDPIAware.
func enableDPIAwareness() {
	shcore := windows.NewLazySystemDLL("Shcore.dll")
	setProcessDpiAwareness := shcore.NewProc("SetProcessDpiAwareness")
	const processPerMonitorDPIAware = 2
	if err := setProcessDpiAwareness.Find(); err == nil {
		_, _, _ = setProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		return
	}
	user32 := windows.NewLazySystemDLL("user32.dll")
	setProcessDPIAware := user32.NewProc("SetProcessDPIAware")
	if err := setProcessDPIAware.Find(); err == nil {
		_, _, _ = setProcessDPIAware.Call()
	}
}
