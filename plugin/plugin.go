package plugin

import (
	"context"
	"errors"
	"fmt"

	"github.com/wagoodman/go-partybus"

	"github.com/anchore/poetenv"
	"github.com/anchore/poetenv/event"
	"github.com/anchore/poetenv/hook"
	"github.com/anchore/poetenv/internal/bus"
	"github.com/anchore/poetenv/internal/log"
	"github.com/anchore/poetenv/poetry"
	"github.com/anchore/poetenv/pyenv"
	"github.com/anchore/poetenv/pyversion"
)

// Priority places the pyenv listener ahead of the host's own environment configuration (priority 0).
const Priority = 1

// VersionManager is pyenv as seen by the plugin.
type VersionManager interface {
	poetenv.VersionManager
	Location(ctx context.Context) pyenv.Location
}

// Host is the dependency manager as seen by the plugin.
type Host interface {
	poetenv.EnvManager
	poetenv.Settings
}

type Config struct {
	Pyenv  pyenv.Config
	Poetry poetry.Config
}

// Plugin selects the python interpreter for dependency manager commands using pyenv.
type Plugin struct {
	versionManager func(dir string) VersionManager
	host           func(dir string) Host
	findProject    func(dir string) (string, error)
	loadProject    func(dir string) (*poetenv.Project, error)
}

func New(cfg Config) *Plugin {
	return &Plugin{
		versionManager: func(dir string) VersionManager {
			c := cfg.Pyenv
			c.Dir = dir
			return pyenv.NewClient(c)
		},
		host: func(dir string) Host {
			c := cfg.Poetry
			c.Dir = dir
			return poetry.NewClient(c)
		},
		findProject: poetry.FindProject,
		loadProject: poetry.LoadProject,
	}
}

// Activate subscribes the plugin to command events.
func (p *Plugin) Activate(d *hook.Dispatcher) {
	d.AddListener(hook.CommandEvent, p.ConfigurePyenv, Priority)
}

// ConfigurePyenv prepares a pyenv managed environment for commands that are about to run in one.
func (p *Plugin) ConfigurePyenv(ctx context.Context, e hook.Event, _ hook.EventName, _ *hook.Dispatcher) error {
	ce, ok := e.(*hook.ConsoleCommandEvent)
	if !ok {
		return nil
	}

	cmd := ce.Command
	if !cmd.NeedsEnv || cmd.IsSelf() {
		return nil
	}

	if cmd.Env() != nil {
		return nil
	}

	ctx, lgr := log.WithNested(ctx, "command", cmd.Name)

	// commands may run from anywhere below the project
	root, err := p.findProject(cmd.Dir)
	if err != nil {
		return err
	}

	prefer, err := p.host(root).PreferActivePython(ctx)
	if err != nil {
		return err
	}
	if !prefer {
		lgr.Debug("Not using pyenv because virtualenvs.prefer-active-python is set to false")
		return nil
	}

	env, err := p.Prepare(ctx, root)
	if err != nil {
		return err
	}

	cmd.SetEnv(env)

	if env.IsVenv() {
		lgr.Infof("Using virtualenv: %s", env.Path)
	}
	return nil
}

// Prepare selects, installs and pins the python version of the project holding dir, then creates the virtualenv
// for it. pyenv and the dependency manager both run from the project root.
func (p *Plugin) Prepare(ctx context.Context, dir string) (*poetenv.Environment, error) {
	lgr := log.FromContext(ctx)

	dir, err := p.findProject(dir)
	if err != nil {
		return nil, err
	}

	project, err := p.loadProject(dir)
	if err != nil {
		return nil, err
	}

	vm := p.VersionManager(ctx, dir)

	version, create, err := p.Select(ctx, vm, project.PythonConstraint)
	if err != nil {
		return nil, err
	}

	if err := vm.EnsureInstalled(ctx, version); err != nil {
		return nil, err
	}

	if create {
		if err := vm.SetLocalVersion(ctx, version); err != nil {
			return nil, err
		}
		lgr.WithFields("version", version.String(), "dir", dir).Info("pinned local python version")
	}

	bus.Publish(partybus.Event{
		Type: event.PythonVersionSelectedEvent,
		Value: event.Selection{
			Version:    version.String(),
			Constraint: project.PythonConstraint.String(),
			Pinned:     create,
		},
	})

	python, err := vm.Which(ctx)
	if err != nil {
		return nil, err
	}

	return p.host(dir).CreateVenv(ctx, python, create)
}

// VersionManager returns the pyenv client for the directory, reporting how pyenv was located.
func (p *Plugin) VersionManager(ctx context.Context, dir string) VersionManager {
	lgr := log.FromContext(ctx)

	vm := p.versionManager(dir)
	location := vm.Location(ctx)
	if !location.Located {
		lgr.Warn("pyenv was not found on your system, attempting to use default path for pyenv.")
	} else {
		lgr.Debugf("Using pyenv found at %s", location)
	}
	return vm
}

// Select returns the version the project should use: the local pin when it satisfies the constraint, otherwise the
// newest stable version pyenv can install that does. The returned flag indicates the version still needs pinning.
func (p *Plugin) Select(ctx context.Context, vm VersionManager, constraint *pyversion.Constraint) (*pyversion.Version, bool, error) {
	lgr := log.FromContext(ctx)

	local, err := vm.LocalVersion(ctx)
	switch {
	case errors.Is(err, pyenv.ErrInvalidPin):
		lgr.Warnf("ignoring local python version: %v", err)
	case err != nil:
		return nil, false, err
	}

	if local != nil && constraint.Allows(local) {
		lgr.WithFields("version", local.String()).Debug("using local python version")
		return local, false, nil
	}

	if local != nil {
		lgr.WithFields("version", local.String(), "constraint", constraint.String()).Debug("local python version does not satisfy constraint")
	}

	allowed, err := p.AllowedVersions(ctx, vm, constraint)
	if err != nil {
		return nil, false, err
	}

	latest, err := pyversion.Latest(allowed)
	if err != nil {
		return nil, false, fmt.Errorf("pyenv cannot install a python version satisfying %q: %w", constraint, err)
	}
	return latest, true, nil
}

// AllowedVersions lists the stable versions pyenv can install that satisfy the constraint.
func (p *Plugin) AllowedVersions(ctx context.Context, vm VersionManager, constraint *pyversion.Constraint) ([]*pyversion.Version, error) {
	versions, err := vm.RemoteVersions(ctx)
	if err != nil {
		return nil, err
	}
	return pyversion.Select(versions, constraint), nil
}
