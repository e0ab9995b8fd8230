package pyenv

import (
	"context"
	"fmt"

	"github.com/wagoodman/go-partybus"
	"github.com/wagoodman/go-progress"

	"github.com/anchore/poetenv/event"
	"github.com/anchore/poetenv/internal/bus"
	"github.com/anchore/poetenv/internal/log"
	"github.com/anchore/poetenv/pyversion"
)

// EnsureInstalled installs the given version unless pyenv already has it.
func (c *Client) EnsureInstalled(ctx context.Context, v *pyversion.Version) error {
	installed, err := c.IsInstalled(ctx, v)
	if err != nil {
		return err
	}
	if installed {
		log.WithFields("version", v.String()).Debug("python already installed")
		return nil
	}

	prog := &event.ManualStagedProgress{
		AtomicStage: progress.NewAtomicStage("pyenv install " + v.String()),
		Manual:      progress.NewManual(-1),
	}

	bus.Publish(partybus.Event{
		Type: event.TaskStartedEvent,
		Source: event.Task{
			Title: event.Title{
				Default:      "Install python",
				WhileRunning: "Installing python",
				OnSuccess:    "Installed python",
				OnFail:       "Failed to install python",
			},
			Context: v.String(),
		},
		Value: prog,
	})

	log.WithFields("version", v.String()).Info("installing python")

	if err := c.Install(ctx, v); err != nil {
		prog.SetError(err)
		return fmt.Errorf("failed to install python %q: %w", v, err)
	}

	prog.SetCompleted()
	return nil
}
