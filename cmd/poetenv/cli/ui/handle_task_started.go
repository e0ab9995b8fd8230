package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/bubbly/bubbles/taskprogress"
	"github.com/anchore/poetenv/event"
	"github.com/anchore/poetenv/internal/log"
)

func (m *Handler) handleTaskStarted(e partybus.Event) []tea.Model {
	cmd, prog, err := event.ParseTaskStarted(e)
	if err != nil {
		log.WithFields("error", err).Warn("unable to parse event")
		return nil
	}

	tsk := taskprogress.New(
		m.Running,
		taskprogress.WithStagedProgressable(prog),
	)

	width := m.Config.TitleWidth
	if len(cmd.Title.WhileRunning) > width {
		width = len(cmd.Title.WhileRunning)
	}

	tsk.HideProgressOnSuccess = true
	tsk.TitleWidth = width
	tsk.HintEndCaps = nil
	tsk.TitleOptions = taskprogress.Title{
		Default: cmd.Title.Default,
		Running: cmd.Title.WhileRunning,
		Success: cmd.Title.OnSuccess,
		Failed:  cmd.Title.OnFail,
	}
	tsk.Context = []string{cmd.Context}
	tsk.WindowSize = m.WindowSize

	return []tea.Model{tsk}
}
