package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/poetenv/event"
	"github.com/anchore/poetenv/internal/log"
)

var _ tea.Model = (*selectionViewModel)(nil)

func (m *Handler) handlePythonVersionSelected(e partybus.Event) []tea.Model {
	selection, err := event.ParsePythonVersionSelected(e)
	if err != nil {
		log.WithFields("error", err).Warn("unable to parse event")
		return nil
	}

	return []tea.Model{newSelectionViewModel(*selection, m.Config.TitleWidth)}
}

// selectionViewModel is a static line describing the python version chosen for the project.
type selectionViewModel struct {
	Selection  event.Selection
	TitleWidth int

	CheckStyle   lipgloss.Style
	TitleStyle   lipgloss.Style
	VersionStyle lipgloss.Style
	ContextStyle lipgloss.Style
}

func newSelectionViewModel(selection event.Selection, titleWidth int) selectionViewModel {
	return selectionViewModel{
		Selection:    selection,
		TitleWidth:   titleWidth,
		CheckStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")), // 10 = high intensity green (ANSI 16 bit color code)
		TitleStyle:   lipgloss.NewStyle().Bold(true),
		VersionStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("13")), // 13 = high intensity magenta (ANSI 16 bit color code)
		ContextStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#777777")),
	}
}

func (m selectionViewModel) Init() tea.Cmd {
	return nil
}

func (m selectionViewModel) Update(tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m selectionViewModel) View() string {
	title := "Selected python"
	if m.Selection.Pinned {
		title = "Pinned python"
	}

	context := fmt.Sprintf("[constraint %s]", m.Selection.Constraint)

	return fmt.Sprintf(" %s %s %s %s",
		m.CheckStyle.Render("✔"),
		m.TitleStyle.Width(m.TitleWidth).Render(title),
		m.VersionStyle.Render(m.Selection.Version),
		m.ContextStyle.Render(context),
	)
}
