package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the form full-screen and blocks until the user quits.
// Cancelling opts.Context ends the program cleanly.
func Run(opts Options) error {
	return run(opts, tea.WithAltScreen())
}

func run(opts Options, progOpts ...tea.ProgramOption) error {
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(New(opts), progOpts...)
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
