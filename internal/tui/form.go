package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/formpost/internal/model"
	"github.com/idilsaglam/formpost/internal/notify"
	"github.com/idilsaglam/formpost/internal/submit"
	"github.com/idilsaglam/formpost/internal/ui"
)

// focus order follows the page: name, email, submit, endpoint, theme.
type focus int

const (
	focusName focus = iota
	focusEmail
	focusSubmit
	focusEndpoint
	focusTheme
	numFocus
)

// text inputs, indexed separately from focus
const (
	inputName = iota
	inputEmail
	inputEndpoint
	numInputs
)

const defaultToastDuration = 4 * time.Second

// Options wire the form to the outside world.
type Options struct {
	Client submit.Submitter
	// Notifier also receives every notice shown as a toast. Optional.
	Notifier      notify.Notifier
	Theme         ui.Theme
	Endpoint      string
	ToastDuration time.Duration
	Context       context.Context
}

type toast struct {
	id     int
	notice notify.Notice
}

type submitResultMsg struct{ err error }

type toastExpiredMsg struct{ id int }

type keyMap struct {
	Next, Prev, Enter, Theme, Dismiss, Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Theme:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "theme")),
		Dismiss: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "dismiss")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Enter, k.Theme, k.Dismiss, k.Quit}
}

// Model is the Bubble Tea model for the form.
type Model struct {
	ctx      context.Context
	client   submit.Submitter
	notifier notify.Notifier

	state    model.FormState
	theme    ui.Theme
	inputs   [numInputs]textinput.Model
	focus    focus
	fieldErr *model.FieldError

	spinner  spinner.Model
	toasts   []toast
	toastID  int
	toastTTL time.Duration

	keys   keyMap
	help   help.Model
	width  int
	height int
}

// New builds the form with the name input focused.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	theme := opts.Theme
	if theme == (ui.Theme{}) {
		theme = ui.DarkTheme()
	}
	ttl := opts.ToastDuration
	if ttl <= 0 {
		ttl = defaultToastDuration
	}

	m := Model{
		ctx:      ctx,
		client:   opts.Client,
		notifier: opts.Notifier,
		theme:    theme,
		state:    model.FormState{APIEndpoint: opts.Endpoint, DarkMode: theme.Dark},
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		toastTTL: ttl,
		keys:     newKeyMap(),
		help:     help.New(),
	}

	placeholders := [numInputs]string{"Name", "Email", "API Endpoint"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.Width = formWidth - 4
		m.inputs[i] = ti
	}
	m.inputs[inputEndpoint].SetValue(opts.Endpoint)
	m.inputs[inputName].Focus()
	m.applyTheme()
	return m
}

// State returns a copy of the form state.
func (m Model) State() model.FormState { return m.state }

// Theme returns the theme currently in use.
func (m Model) Theme() ui.Theme { return m.theme }

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case submitResultMsg:
		var cmd tea.Cmd
		m, cmd = m.pushNotice(submit.NoticeFor(msg.err))
		m.state.IsLoading = false
		return m, cmd

	case toastExpiredMsg:
		m.removeToast(msg.id)
		return m, nil

	case spinner.TickMsg:
		if !m.state.IsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Theme):
			m.toggleTheme()
			return m, nil
		case key.Matches(msg, m.keys.Dismiss):
			m.toasts = nil
			return m, nil
		case key.Matches(msg, m.keys.Next):
			cmd := m.setFocus((m.focus + 1) % numFocus)
			return m, cmd
		case key.Matches(msg, m.keys.Prev):
			cmd := m.setFocus((m.focus + numFocus - 1) % numFocus)
			return m, cmd
		case key.Matches(msg, m.keys.Enter):
			switch m.focus {
			case focusName, focusEmail, focusSubmit:
				return m.submit()
			case focusEndpoint:
				cmd := m.setFocus(focusTheme)
				return m, cmd
			case focusTheme:
				m.toggleTheme()
				return m, nil
			}
		}
	}

	idx, ok := inputFor(m.focus)
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	m.syncState()
	return m, cmd
}

// syncState copies every input into the form state; the inputs are
// controlled by it.
func (m *Model) syncState() {
	m.state.Name = m.inputs[inputName].Value()
	m.state.Email = m.inputs[inputEmail].Value()
	m.state.APIEndpoint = m.inputs[inputEndpoint].Value()
	if m.fieldErr != nil && m.state.CheckConstraints() == nil {
		m.fieldErr = nil
	}
}

func inputFor(f focus) (int, bool) {
	switch f {
	case focusName:
		return inputName, true
	case focusEmail:
		return inputEmail, true
	case focusEndpoint:
		return inputEndpoint, true
	}
	return 0, false
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	if idx, ok := inputFor(f); ok {
		cmd = m.inputs[idx].Focus()
	}
	return cmd
}

// submit runs the browser's constraint checks, then the endpoint check,
// then dispatches the POST as a command. It does nothing while a
// submission is in flight.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state.IsLoading {
		return m, nil
	}
	if fe := m.state.CheckConstraints(); fe != nil {
		m.fieldErr = fe
		f := focusName
		if fe.Field == model.FieldEmail {
			f = focusEmail
		}
		cmd := m.setFocus(f)
		return m, cmd
	}
	m.fieldErr = nil

	if err := submit.ValidateEndpoint(m.state.APIEndpoint); err != nil {
		nm, cmd := m.pushNotice(submit.NoticeFor(err))
		return nm, cmd
	}

	m.state.IsLoading = true
	return m, tea.Batch(m.dispatch(m.state.APIEndpoint, m.state.Payload()), m.spinner.Tick)
}

func (m Model) dispatch(endpoint string, p model.Payload) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		if client == nil {
			return submitResultMsg{err: &submit.Error{Kind: submit.KindOther, Message: submit.MsgServerError}}
		}
		return submitResultMsg{err: client.Submit(ctx, endpoint, p)}
	}
}

// pushNotice shows a toast and schedules its expiry.
func (m Model) pushNotice(n notify.Notice) (Model, tea.Cmd) {
	if m.notifier != nil {
		m.notifier.Notify(n)
	}
	m.toastID++
	id := m.toastID
	m.toasts = append(m.toasts, toast{id: id, notice: n})
	return m, tea.Tick(m.toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (m *Model) removeToast(id int) {
	out := make([]toast, 0, len(m.toasts))
	for _, t := range m.toasts {
		if t.id != id {
			out = append(out, t)
		}
	}
	m.toasts = out
}

func (m *Model) toggleTheme() {
	m.theme = m.theme.Toggle()
	m.state.DarkMode = m.theme.Dark
	m.applyTheme()
}

func (m *Model) applyTheme() {
	for i := range m.inputs {
		m.inputs[i].TextStyle = lipgloss.NewStyle().Foreground(m.theme.Text)
		m.inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(m.theme.Muted)
	}
	m.spinner.Style = lipgloss.NewStyle().Foreground(m.theme.ButtonText)
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(m.theme.Muted).Bold(true)
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(m.theme.Muted)
}
