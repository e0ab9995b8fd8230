package event

import (
	"github.com/wagoodman/go-partybus"
)

const (
	typePrefix    = "poetenv"
	cliTypePrefix = typePrefix + "-cli"

	// Events from the poetenv library

	// TaskStartedEvent is a generic, monitorable partybus event that occurs when a task has begun
	TaskStartedEvent partybus.EventType = typePrefix + "-task"

	// PythonVersionSelectedEvent is a partybus event that occurs when a python version has been chosen for a project
	PythonVersionSelectedEvent partybus.EventType = typePrefix + "-python-version-selected"

	// Events exclusively for the CLI

	// CLIReport is a partybus event that occurs when an analysis result is ready for final presentation to stdout
	CLIReport partybus.EventType = cliTypePrefix + "-report"

	// CLINotification is a partybus event that occurs when auxiliary information is ready for presentation to stderr
	CLINotification partybus.EventType = cliTypePrefix + "-notification"
)
