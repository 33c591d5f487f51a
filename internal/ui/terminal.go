// Package ui decides how jot talks to the terminal.
package ui

import (
	"os"

	"golang.org/x/term"
)

// Color modes accepted by display.colorize.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// IsTerminal returns true if stdout is connected to a terminal (TTY).
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor resolves a color mode to a decision. In auto mode it honors
// NO_COLOR, CLICOLOR=0 and CLICOLOR_FORCE before falling back to TTY detection.
func ShouldUseColor(mode string) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if os.Getenv("CLICOLOR_FORCE") != "" {
		return true
	}
	return IsTerminal()
}
