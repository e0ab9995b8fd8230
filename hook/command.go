package hook

import (
	"strings"

	"github.com/anchore/poetenv"
)

// Command is a dependency manager command about to be run.
type Command struct {
	// Name is the full command name, e.g. "install", "env use" or "self update".
	Name string
	// Args are the arguments the command was invoked with, as given to the dependency manager.
	Args []string
	// Dir is the project directory the command operates on.
	Dir string
	// NeedsEnv is true for commands that run within the project's python environment.
	NeedsEnv bool

	env *poetenv.Environment
}

// IsSelf reports whether the command manages the dependency manager's own installation.
func (c *Command) IsSelf() bool {
	return c.Name == "self" || strings.HasPrefix(c.Name, "self ")
}

// Env returns the environment the command will run in, if one has been configured.
func (c *Command) Env() *poetenv.Environment {
	return c.env
}

func (c *Command) SetEnv(env *poetenv.Environment) {
	c.env = env
}

// ConsoleCommandEvent announces a command that is about to run.
type ConsoleCommandEvent struct {
	Command *Command
	stopped bool
}

func NewConsoleCommandEvent(cmd *Command) *ConsoleCommandEvent {
	return &ConsoleCommandEvent{Command: cmd}
}

func (e *ConsoleCommandEvent) IsPropagationStopped() bool {
	return e.stopped
}

// StopPropagation prevents lower priority listeners from seeing the event.
func (e *ConsoleCommandEvent) StopPropagation() {
	e.stopped = true
}

// ConsoleTerminateEvent announces a command has finished.
type ConsoleTerminateEvent struct {
	Command  *Command
	ExitCode int
}

func (e *ConsoleTerminateEvent) IsPropagationStopped() bool {
	return false
}
