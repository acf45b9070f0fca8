package app

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/zjrosen/windrow/internal/config"
	"github.com/zjrosen/windrow/internal/source"
)

// Drives the full program loop: the engine starts with the first resize,
// fetches the initial window, and the applied notice flows back through the
// listener so the next render shows real rows instead of placeholders.
func TestApp_ProgramShowsFetchedRows(t *testing.T) {
	cfg := config.Defaults()
	cfg.Follow.Enabled = false

	m := New(Config{
		Cfg:    cfg,
		Source: source.NewSliceSource(source.GenerateEntries(200)),
	})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("#0001"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	if final, ok := tm.FinalModel(t).(Model); ok {
		final.Close()
	}
}
