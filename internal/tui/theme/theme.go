// Package theme provides color themes for the TUI.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string
	Bg          lipgloss.Color // base background
	BgHighlight lipgloss.Color // task blocks, subtle highlight
	BgSelection lipgloss.Color // cursor, selection
	Fg          lipgloss.Color // primary foreground
	FgMuted     lipgloss.Color // past blocks, gutter, muted elements
	Accent      lipgloss.Color // title, borders
	EnergyLow   lipgloss.Color
	EnergyMed   lipgloss.Color
	EnergyHigh  lipgloss.Color
	Warning     lipgloss.Color // errors, drag previews
	Done        lipgloss.Color // completed tasks
}

// Catppuccin-flavoured palettes, dark to light.
var themes = map[string]Theme{
	"mocha": {
		Name:        "mocha",
		Bg:          "#1e1e2e",
		BgHighlight: "#313244",
		BgSelection: "#45475a",
		Fg:          "#cdd6f4",
		FgMuted:     "#6c7086",
		Accent:      "#89b4fa",
		EnergyLow:   "#94e2d5",
		EnergyMed:   "#f9e2af",
		EnergyHigh:  "#f38ba8",
		Warning:     "#fab387",
		Done:        "#a6e3a1",
	},
	"macchiato": {
		Name:        "macchiato",
		Bg:          "#24273a",
		BgHighlight: "#363a4f",
		BgSelection: "#494d64",
		Fg:          "#cad3f5",
		FgMuted:     "#6e738d",
		Accent:      "#8aadf4",
		EnergyLow:   "#8bd5ca",
		EnergyMed:   "#eed49f",
		EnergyHigh:  "#ed8796",
		Warning:     "#f5a97f",
		Done:        "#a6da95",
	},
	"frappe": {
		Name:        "frappe",
		Bg:          "#303446",
		BgHighlight: "#414559",
		BgSelection: "#51576d",
		Fg:          "#c6d0f5",
		FgMuted:     "#737994",
		Accent:      "#8caaee",
		EnergyLow:   "#81c8be",
		EnergyMed:   "#e5c890",
		EnergyHigh:  "#e78284",
		Warning:     "#ef9f76",
		Done:        "#a6d189",
	},
	"latte": {
		Name:        "latte",
		Bg:          "#eff1f5",
		BgHighlight: "#ccd0da",
		BgSelection: "#bcc0cc",
		Fg:          "#4c4f69",
		FgMuted:     "#8c8fa1",
		Accent:      "#1e66f5",
		EnergyLow:   "#179299",
		EnergyMed:   "#df8e1d",
		EnergyHigh:  "#d20f39",
		Warning:     "#fe640b",
		Done:        "#40a02b",
	},
}

// Available returns the list of theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte"}
}

// Load returns the theme with the given name. An empty name picks a default
// for the terminal's background; unknown names fall back the same way.
func Load(name string) *Theme {
	name = strings.ToLower(name)
	if t, ok := themes[name]; ok {
		return &t
	}
	if termenv.HasDarkBackground() {
		t := themes["mocha"]
		return &t
	}
	t := themes["latte"]
	return &t
}

// Energy returns the block color for an energy level name.
func (t *Theme) Energy(level string) lipgloss.Color {
	switch level {
	case "low":
		return t.EnergyLow
	case "high":
		return t.EnergyHigh
	default:
		return t.EnergyMed
	}
}
