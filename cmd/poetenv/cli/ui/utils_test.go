package ui

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// runModel feeds the model the messages produced by cmd for the given number of rounds and returns the final view.
func runModel(t testing.TB, m tea.Model, iterations int, cmd tea.Cmd) string {
	t.Helper()
	if iterations == 0 {
		iterations = 1
	}

	for i := 0; cmd != nil && i < iterations; i++ {
		var nextCmds []tea.Cmd
		for _, msg := range flatten(cmd()) {
			t.Logf("message: %+v %+v", reflect.TypeOf(msg), msg)
			var next tea.Cmd
			m, next = m.Update(msg)
			nextCmds = append(nextCmds, next)
		}
		cmd = tea.Batch(nextCmds...)
	}

	return m.View()
}

func flatten(msg tea.Msg) []tea.Msg {
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}

	var msgs []tea.Msg
	for _, cmd := range batch {
		if cmd == nil {
			continue
		}
		msgs = append(msgs, flatten(cmd())...)
	}
	return msgs
}
