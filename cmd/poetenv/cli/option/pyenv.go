package option

import (
	"github.com/anchore/clio"
	"github.com/anchore/poetenv/pyenv"
)

type Pyenv struct {
	Path        string `json:"path" yaml:"path" mapstructure:"path"`
	InstallArgs string `json:"install-args" yaml:"install-args" mapstructure:"install-args"`
}

func (o *Pyenv) AddFlags(flags clio.FlagSet) {
	flags.StringVarP(&o.Path, "pyenv", "", "path to the pyenv executable (located automatically when not provided)")
}

func (o Pyenv) Config() pyenv.Config {
	return pyenv.Config{
		Path:        o.Path,
		InstallArgs: o.InstallArgs,
	}
}
