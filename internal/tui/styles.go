// Package tui holds the lipgloss styles shared by the terminal output.
package tui

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	primaryColor   = lipgloss.Color("39")  // Blue
	secondaryColor = lipgloss.Color("245") // Gray
	accentColor    = lipgloss.Color("212") // Pink
	errorColor     = lipgloss.Color("196") // Red
	successColor   = lipgloss.Color("82")  // Green
	warningColor   = lipgloss.Color("214") // Orange
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	HintStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	RuleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	IndexStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	ModelIDStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // Cyan

	PromptStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	ResponseHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")). // Light yellow
				Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(successColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(warningColor)
)

// Banner renders the session header.
func Banner(title, subtitle string) string {
	rule := RuleStyle.Render("----------------------------------------")
	if subtitle == "" {
		return TitleStyle.Render(title) + "\n" + rule
	}
	return TitleStyle.Render(title) + "\n" + HintStyle.Render(subtitle) + "\n" + rule
}
