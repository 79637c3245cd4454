package ui

import "fmt"

// ANSI256 color codes.
const (
	colorAccent   = 74  // blue
	colorMuted    = 245 // medium gray
	colorInactive = 167 // soft red
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorMuted, s)
}

// RenderInactive returns s styled for deactivated products.
func RenderInactive(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", colorInactive, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
