package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mbruna/tempo/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	// Title and header
	TitleStyle  lipgloss.Style
	HeaderStyle lipgloss.Style

	// Time gutter
	GutterStyle     lipgloss.Style
	GutterRuleStyle lipgloss.Style

	// Block styles by energy level
	BlockLowStyle  lipgloss.Style
	BlockMedStyle  lipgloss.Style
	BlockHighStyle lipgloss.Style

	BlockSelectedStyle lipgloss.Style
	BlockDoneStyle     lipgloss.Style
	BlockPreviewStyle  lipgloss.Style

	// Untimed list
	UntimedStyle         lipgloss.Style
	UntimedSelectedStyle lipgloss.Style

	// Prompt line
	PromptStyle lipgloss.Style

	// Status footer
	StatusStyle      lipgloss.Style
	StatusErrorStyle lipgloss.Style
	HelpStyle        lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	s.HeaderStyle = lipgloss.NewStyle().
		Foreground(t.FgMuted)

	s.GutterStyle = lipgloss.NewStyle().
		Foreground(t.FgMuted)

	s.GutterRuleStyle = lipgloss.NewStyle().
		Foreground(t.BgHighlight)

	block := lipgloss.NewStyle().
		Foreground(t.Bg).
		Bold(false)

	s.BlockLowStyle = block.Background(t.EnergyLow)
	s.BlockMedStyle = block.Background(t.EnergyMed)
	s.BlockHighStyle = block.Background(t.EnergyHigh)

	s.BlockSelectedStyle = lipgloss.NewStyle().
		Foreground(t.Fg).
		Background(t.BgSelection).
		Bold(true)

	s.BlockDoneStyle = lipgloss.NewStyle().
		Foreground(t.FgMuted).
		Background(t.BgHighlight).
		Strikethrough(true)

	s.BlockPreviewStyle = lipgloss.NewStyle().
		Foreground(t.Bg).
		Background(t.Warning)

	s.UntimedStyle = lipgloss.NewStyle().
		Foreground(t.Fg)

	s.UntimedSelectedStyle = lipgloss.NewStyle().
		Foreground(t.Fg).
		Background(t.BgSelection).
		Bold(true)

	s.PromptStyle = lipgloss.NewStyle().
		Foreground(t.Fg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Padding(0, 1)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(t.Done)

	s.StatusErrorStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(t.FgMuted)

	return s
}

// blockStyle picks the base style for a block by energy level and state.
func (s *Styles) blockStyle(energy string, selected, done bool) lipgloss.Style {
	switch {
	case selected:
		return s.BlockSelectedStyle
	case done:
		return s.BlockDoneStyle
	}
	switch energy {
	case "low":
		return s.BlockLowStyle
	case "high":
		return s.BlockHighStyle
	default:
		return s.BlockMedStyle
	}
}
