package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	colorHigh   = color.New(color.FgRed, color.Bold)
	colorMedium = color.New(color.FgYellow)
	colorLow    = color.New(color.FgCyan)
	colorHeader = color.New(color.Bold)
	colorMuted  = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatEnergy colors a line by the task's energy level.
func formatEnergy(energy, s string) string {
	switch energy {
	case "high":
		return colorHigh.Sprint(s)
	case "low":
		return colorLow.Sprint(s)
	default:
		return colorMedium.Sprint(s)
	}
}

// shortID renders the first id segment for compact CLI output.
func shortID(id string) string {
	if len(id) > 8 {
		return colorMuted.Sprint(id[:8])
	}
	return colorMuted.Sprint(id)
}
