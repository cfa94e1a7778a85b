// Package tui provides Bubble Tea components for the courier CLI.
//
// TUI rules:
//   - TUI is opt-in only (--progress flag on send)
//   - TUI shows the same byte counts the transport reports
//   - No TUI-exclusive data allowed
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	primaryColor = lipgloss.Color("#7C3AED") // Purple
	successColor = lipgloss.Color("#10B981") // Green
	errorColor   = lipgloss.Color("#EF4444") // Red
	mutedColor   = lipgloss.Color("#6B7280") // Gray
)

// Styles for TUI components.
var (
	// TitleStyle for the file name header.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// CounterStyle for the byte counter line.
	CounterStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// SuccessStyle for the completion line.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// ErrorStyle for failure states.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)
)
