package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)

	symCheck = "✔"
	symCross = "✖"
)

var disableColor bool

// SetColorForcing overrides terminal detection for the one-line helpers.
func SetColorForcing(force, disable bool) {
	disableColor = disable
	if force {
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

func render(s lipgloss.Style, text string) string {
	if disableColor {
		return text
	}
	return s.Render(text)
}

// Success renders a check-marked line.
func Success(msg string) string { return render(successStyle, symCheck+" "+msg) }

// Failure renders a cross-marked line.
func Failure(msg string) string { return render(errorStyle, symCross+" "+msg) }

// Muted renders secondary text.
func Muted(msg string) string { return render(mutedStyle, msg) }
