package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/bubbly"
	"github.com/anchore/poetenv/event"
)

var _ bubbly.EventHandler = (*Handler)(nil)

type HandlerConfig struct {
	TitleWidth int
}

// Handler turns library events into bubbletea models for the UI to render.
type Handler struct {
	WindowSize tea.WindowSizeMsg
	Running    *sync.WaitGroup
	Config     HandlerConfig

	bubbly.EventHandler
}

func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		TitleWidth: 30,
	}
}

func New(cfg HandlerConfig) *Handler {
	d := bubbly.NewEventDispatcher()

	h := &Handler{
		EventHandler: d,
		Running:      &sync.WaitGroup{},
		Config:       cfg,
	}

	d.AddHandlers(map[partybus.EventType]bubbly.EventHandlerFn{
		event.TaskStartedEvent:           h.handleTaskStarted,
		event.PythonVersionSelectedEvent: h.handlePythonVersionSelected,
	})

	return h
}

func (m *Handler) OnMessage(msg tea.Msg) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.WindowSize = msg
	}
}

func (m *Handler) Wait() {
	m.Running.Wait()
}
