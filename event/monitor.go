package event

import (
	"github.com/wagoodman/go-progress"
)

type Task struct {
	Title   Title
	Context string
}

type Title struct {
	Default      string
	WhileRunning string
	OnSuccess    string
	OnFail       string
}

// Selection describes the python version chosen for a project and whether a new local pin was written for it.
type Selection struct {
	Version    string
	Constraint string
	Pinned     bool
}

var _ progress.StagedProgressable = (*ManualStagedProgress)(nil)

type ManualStagedProgress struct {
	*progress.AtomicStage
	*progress.Manual
}
