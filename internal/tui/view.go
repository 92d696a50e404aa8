package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/formpost/internal/model"
	"github.com/idilsaglam/formpost/internal/ui"
)

const formWidth = 44

const (
	labelSubmit     = "Submit"
	labelSubmitting = "Submitting..."
)

func (m Model) View() string {
	t := m.theme

	themeBtn := m.themeButton()
	header := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.PlaceHorizontal(formWidth+6, lipgloss.Right, themeBtn),
		lipgloss.PlaceHorizontal(formWidth+6, lipgloss.Center, t.TitleStyle().Render("User Data")),
	)

	form := ui.Panel(t, []string{
		m.inputView(inputName, focusName),
		m.fieldHint(model.FieldName),
		m.inputView(inputEmail, focusEmail),
		m.fieldHint(model.FieldEmail),
		m.submitButton(),
	})

	endpoint := m.inputView(inputEndpoint, focusEndpoint)

	parts := []string{header, "", form, "", endpoint}
	if len(m.toasts) > 0 {
		parts = append(parts, "")
		for _, ts := range m.toasts {
			parts = append(parts, ui.Toast(t, ts.notice.Text, ts.notice.Failed()))
		}
	}
	parts = append(parts, "", m.help.ShortHelpView(m.keys.ShortHelp()))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (m Model) inputView(idx int, f focus) string {
	return m.theme.InputStyle(formWidth, m.focus == f).Render(m.inputs[idx].View())
}

// fieldHint shows the constraint message under the field that failed.
func (m Model) fieldHint(field string) string {
	if m.fieldErr == nil || m.fieldErr.Field != field {
		return ""
	}
	return m.theme.ErrorStyle().Render("! " + m.fieldErr.Message)
}

func (m Model) submitButton() string {
	label := labelSubmit
	if m.state.IsLoading {
		label = m.spinner.View() + " " + labelSubmitting
	}
	btn := m.theme.ButtonStyle(formWidth+2, m.focus == focusSubmit, m.state.IsLoading).Render(label)
	return "\n" + btn
}

func (m Model) themeButton() string {
	icon := " " + m.theme.ToggleIcon() + " "
	if m.focus == focusTheme {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.theme.FocusBorder).
			Render(icon)
	}
	return lipgloss.NewStyle().Padding(1, 1).Render(strings.TrimSpace(icon))
}
