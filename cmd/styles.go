package cmd

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorText    = lipgloss.Color("#F9FAFB") // Almost white
	ColorMuted   = lipgloss.Color("#9CA3AF") // Gray
)

type Theme struct {
	HeaderStyle  lipgloss.Style
	CurrentStyle lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	LabelStyle   lipgloss.Style
}

func DefaultTheme() *Theme {
	return &Theme{
		HeaderStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1),

		CurrentStyle: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		SuccessStyle: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),

		WarningStyle: lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true),

		LabelStyle: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Inline(true),
	}
}

const (
	IconCheck   = "✓"
	IconCurrent = "▶"
)

func SuccessText(text string, theme *Theme) string {
	return theme.SuccessStyle.Render(IconCheck + " " + text)
}

func WarningText(text string, theme *Theme) string {
	return theme.WarningStyle.Render("⚠ " + text)
}
