package option

import (
	"fmt"
	"os"

	"github.com/anchore/clio"
	"github.com/anchore/poetenv/poetry"
)

// Project selects the project a command operates on.
type Project struct {
	Dir string `json:"-" yaml:"-" mapstructure:"directory"`
}

func (o *Project) AddFlags(flags clio.FlagSet) {
	flags.StringVarP(&o.Dir, "directory", "C", "the working directory (the nearest pyproject.toml at or above it is used)")
}

// Resolve returns the directory holding the project's pyproject.toml.
func (o Project) Resolve() (string, error) {
	dir := o.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("unable to determine working directory: %w", err)
		}
		dir = cwd
	}
	return poetry.FindProject(dir)
}
