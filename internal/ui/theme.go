package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles the palette for one display mode. It is a plain value:
// whoever renders gets it passed in and nothing reads a shared current
// theme.
type Theme struct {
	Dark bool

	Background, Title, Text, Muted lipgloss.Color
	Border, FocusBorder            lipgloss.Color
	Button, ButtonText             lipgloss.Color
	Success, Error                 lipgloss.Color
}

const (
	NameDark  = "dark"
	NameLight = "light"
)

// DarkTheme is the start-up default.
func DarkTheme() Theme {
	return Theme{
		Dark:        true,
		Background:  lipgloss.Color("#092756"),
		Title:       lipgloss.Color("#217093"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#9ca3af"),
		Border:      lipgloss.Color("#4b5563"),
		FocusBorder: lipgloss.Color("#3b82f6"),
		Button:      lipgloss.Color("#217093"),
		ButtonText:  lipgloss.Color("#ffffff"),
		Success:     lipgloss.Color("42"),
		Error:       lipgloss.Color("9"),
	}
}

func LightTheme() Theme {
	return Theme{
		Dark:        false,
		Background:  lipgloss.Color("#eff6ff"),
		Title:       lipgloss.Color("#1f2937"),
		Text:        lipgloss.Color("#1f2937"),
		Muted:       lipgloss.Color("#6b7280"),
		Border:      lipgloss.Color("#e5e7eb"),
		FocusBorder: lipgloss.Color("#3b82f6"),
		Button:      lipgloss.Color("#4eb8dd"),
		ButtonText:  lipgloss.Color("#ffffff"),
		Success:     lipgloss.Color("28"),
		Error:       lipgloss.Color("160"),
	}
}

// ThemeByName resolves "dark" or "light" (case-insensitive).
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameDark, "":
		return DarkTheme(), nil
	case NameLight:
		return LightTheme(), nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q (want %s or %s)", name, NameDark, NameLight)
}

// Toggle returns the opposite mode.
func (t Theme) Toggle() Theme {
	if t.Dark {
		return LightTheme()
	}
	return DarkTheme()
}

func (t Theme) Name() string {
	if t.Dark {
		return NameDark
	}
	return NameLight
}

// ToggleIcon is the label of the theme button: the mode you switch to.
func (t Theme) ToggleIcon() string {
	if t.Dark {
		return "🌞"
	}
	return "🌙"
}

func (t Theme) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Title)
}

func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted)
}

func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success)
}

// InputStyle frames a text input; focused inputs get the ring colour.
func (t Theme) InputStyle(width int, focused bool) lipgloss.Style {
	border := t.Border
	if focused {
		border = t.FocusBorder
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(t.Text).
		Padding(0, 1).
		Width(width)
}

// ButtonStyle renders the submit button. Disabled buttons are faint.
func (t Theme) ButtonStyle(width int, focused, disabled bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.ButtonText).
		Background(t.Button).
		Align(lipgloss.Center).
		Width(width)
	if focused && !disabled {
		s = s.Reverse(true)
	}
	if disabled {
		s = s.Faint(true)
	}
	return s
}
