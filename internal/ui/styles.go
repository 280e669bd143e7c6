package ui

import "github.com/charmbracelet/lipgloss"

// Color palette. A single violet accent keeps output readable in both light
// and dark terminals.
const (
	ColorAccent   = "135" // primary accent - violet
	ColorWhite    = "255" // headers
	ColorGray     = "245" // secondary text
	ColorDarkGray = "238" // separators
	ColorRed      = "196" // errors
	ColorYellow   = "220" // warnings
	ColorGreen    = "114" // completed counts
)

// Styles holds the render styles for CLI and interactive output.
type Styles struct {
	Header  lipgloss.Style
	Accent  lipgloss.Style
	Dim     lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Rank    lipgloss.Style
	Prompt  lipgloss.Style
}

// DefaultStyles returns the styled components.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Rank:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccent)),
		Prompt:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccent)),
	}
}

// NoColorStyles returns unstyled components for pipes and NO_COLOR.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:  plain,
		Accent:  plain,
		Dim:     plain,
		Error:   plain,
		Warning: plain,
		Success: plain,
		Rank:    plain,
		Prompt:  plain,
	}
}
