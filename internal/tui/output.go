package tui

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

// OutputMode is how command results are presented.
type OutputMode int

const (
	// OutputModePlain is uncolored static text.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is colored static text.
	OutputModeStyled
	// OutputModeInteractive is a full-screen Bubble Tea program.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func stdinIsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// DetectOutputMode picks the presentation for the current terminal.
//
// plain and NO_COLOR force plain text, CI and TERM=dumb force static output,
// and forceColor styles output even when stdout is not a terminal.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	if plain {
		return OutputModePlain
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		return OutputModePlain
	}
	if !IsTTY() {
		if forceColor {
			return OutputModeStyled
		}
		return OutputModePlain
	}
	if os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if ci, _ := strconv.ParseBool(os.Getenv("CI")); ci || !stdinIsTTY() {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// TerminalWidth returns the stdout width, or defaultWidth when unknown.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
