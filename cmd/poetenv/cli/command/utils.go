package command

import (
	"errors"
	"os/exec"

	"github.com/anchore/poetenv"
	"github.com/anchore/poetenv/cmd/poetenv/cli/option"
	"github.com/anchore/poetenv/poetry"
	"github.com/anchore/poetenv/pyenv"
	"github.com/anchore/poetenv/pyversion"
)

// ProjectConfig is the configuration shared by commands that operate on a single project.
type ProjectConfig struct {
	Config           string `json:"config" yaml:"config" mapstructure:"config"`
	option.AppConfig `json:"" yaml:",inline" mapstructure:",squash"`
	option.Project   `json:"" yaml:",inline" mapstructure:",squash"`
}

func newProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		AppConfig: option.DefaultAppConfig(),
	}
}

// loadProject finds and reads the project the command operates on.
func loadProject(cfg ProjectConfig) (*poetenv.Project, error) {
	dir, err := cfg.Project.Resolve()
	if err != nil {
		return nil, err
	}
	return poetry.LoadProject(dir)
}

func pyenvClient(cfg option.AppConfig, dir string) *pyenv.Client {
	c := cfg.Pyenv.Config()
	c.Dir = dir
	return pyenv.NewClient(c)
}

func versionStrings(versions []*pyversion.Version) []string {
	var out []string
	for _, v := range versions {
		out = append(out, v.String())
	}
	return out
}

// exitCode maps the result of waiting on a process to its exit code. Only failures to run the process are errors.
func exitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
