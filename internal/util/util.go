//go:build !windows

package util

import "os"

// IsRunFromGUI reports whether the process was started by double-click
// rather than from a shell. Always false outside windows.
func IsRunFromGUI() bool { return false }

// HideConsoleWindow is a no-op outside windows.
func HideConsoleWindow() {}

// EnableVirtualTerminal is a no-op outside windows; terminals there already
// understand ANSI escapes.
func EnableVirtualTerminal(*os.File) error { return nil }
