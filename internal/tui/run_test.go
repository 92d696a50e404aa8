package tui

import (
	"bytes"
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestRunCancelledContextIsCleanExit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var in, out bytes.Buffer
	err := run(Options{Context: ctx}, tea.WithInput(&in), tea.WithOutput(&out), tea.WithoutSignalHandler())
	assert.NoError(t, err)
}
