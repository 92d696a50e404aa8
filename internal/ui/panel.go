package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panel draws a framed box in the theme's border colour.
func Panel(t Theme, lines []string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(1, 2)
	return border.Render(strings.Join(lines, "\n"))
}

// Toast renders one notification line in a small box coloured by outcome.
func Toast(t Theme, text string, failed bool) string {
	c := t.Success
	if failed {
		c = t.Error
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Foreground(c).
		Padding(0, 1).
		Render(text)
}
