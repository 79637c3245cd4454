package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether table output on stdout should use ANSI
// styling. NO_COLOR always wins (https://no-color.org), CLICOLOR_FORCE=1
// forces styling even when stdout is piped, CLICOLOR=0 turns it off, and
// otherwise styling follows TTY detection.
func ShouldUseColor() bool {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return false
	case envFlag("CLICOLOR_FORCE") == "1":
		return true
	case envFlag("CLICOLOR") == "0":
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func envFlag(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
