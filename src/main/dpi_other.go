//go:build !windows

package main

// enableDPIAwareness is a no-op off Windows.
func enableDPIAwareness() {}
