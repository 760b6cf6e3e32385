// Package ui provides consistent CLI output styling for the toolrouter
// binary's search command output.
package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	ColorAccent = "33"  // Primary accent, used for headers and scores
	ColorDim    = "245" // Secondary/label text
	ColorBorder = "238" // Table/panel borders
	ColorRed    = "196" // Errors
	ColorYellow = "220" // Warnings, degraded paths
)

// Styles holds the styled components used across CLI output.
type Styles struct {
	Header  lipgloss.Style
	Label   lipgloss.Style
	Score   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Border  lipgloss.Style
}

// DefaultStyles returns the colored styles used on a terminal.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccent)),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDim)),
		Score:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBorder)),
	}
}

// PlainStyles returns unstyled components for non-TTY output (CI logs,
// redirected files).
func PlainStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Label:   lipgloss.NewStyle(),
		Score:   lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Border:  lipgloss.NewStyle(),
	}
}

// GetStyles returns DefaultStyles when plain is false, PlainStyles
// otherwise.
func GetStyles(plain bool) Styles {
	if plain {
		return PlainStyles()
	}
	return DefaultStyles()
}
