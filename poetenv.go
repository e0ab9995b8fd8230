package poetenv

import (
	"context"

	"github.com/anchore/poetenv/pyversion"
)

// VersionManager is an external tool that installs python interpreters and records which one a project uses.
type VersionManager interface {
	LocalVersion(ctx context.Context) (*pyversion.Version, error)
	SetLocalVersion(ctx context.Context, v *pyversion.Version) error
	EnsureInstalled(ctx context.Context, v *pyversion.Version) error
	RemoteVersions(ctx context.Context) ([]*pyversion.Version, error)
	// Which returns the interpreter selected by the local pin.
	Which(ctx context.Context) (string, error)
}

// EnvManager creates the virtual environment a project's commands run in.
type EnvManager interface {
	CreateVenv(ctx context.Context, python string, force bool) (*Environment, error)
}

// Settings exposes the dependency manager configuration that governs interpreter selection.
type Settings interface {
	PreferActivePython(ctx context.Context) (bool, error)
}

// Project is the project a command operates on.
type Project struct {
	Name string
	Dir  string
	// PythonConstraint is the range of python versions the project declares compatibility with.
	PythonConstraint *pyversion.Constraint
}
