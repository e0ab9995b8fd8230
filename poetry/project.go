package poetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"

	"github.com/anchore/poetenv"
	"github.com/anchore/poetenv/internal/log"
	"github.com/anchore/poetenv/pyversion"
)

const ProjectFile = "pyproject.toml"

type pyproject struct {
	Project struct {
		Name           string `toml:"name"`
		RequiresPython string `toml:"requires-python"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name         string         `toml:"name"`
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// dependencySpec is the table form of a dependency, e.g. python = { version = "^3.9" }
type dependencySpec struct {
	Version string `mapstructure:"version"`
}

// FindProject walks up from dir to the nearest directory holding a pyproject.toml.
func FindProject(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(current, ProjectFile)); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no %s found in %q or any parent directory", ProjectFile, dir)
		}
		current = parent
	}
}

// LoadProject reads the project metadata from the pyproject.toml in dir.
func LoadProject(dir string) (*poetenv.Project, error) {
	path := filepath.Join(dir, ProjectFile)

	var doc pyproject
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}

	raw, err := pythonRequirement(doc)
	if err != nil {
		return nil, fmt.Errorf("unable to read python requirement from %s: %w", path, err)
	}

	constraint, err := pyversion.ParseConstraint(raw)
	if err != nil {
		return nil, err
	}

	name := doc.Tool.Poetry.Name
	if name == "" {
		name = doc.Project.Name
	}

	log.WithFields("project", name, "python", constraint.String()).Trace("loaded project")

	return &poetenv.Project{
		Name:             name,
		Dir:              dir,
		PythonConstraint: constraint,
	}, nil
}

func pythonRequirement(doc pyproject) (string, error) {
	value, ok := doc.Tool.Poetry.Dependencies["python"]
	if !ok {
		return doc.Project.RequiresPython, nil
	}

	switch v := value.(type) {
	case string:
		return v, nil
	case map[string]any:
		var spec dependencySpec
		if err := mapstructure.Decode(v, &spec); err != nil {
			return "", err
		}
		return spec.Version, nil
	}
	return "", errors.New("python dependency must be a string or a table")
}
