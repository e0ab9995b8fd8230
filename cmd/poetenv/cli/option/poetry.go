package option

import (
	"fmt"
	"strings"

	"github.com/anchore/clio"
	"github.com/anchore/fangs"
	"github.com/anchore/poetenv/poetry"
)

var _ fangs.PostLoader = (*Poetry)(nil)

type Poetry struct {
	Executable         string `json:"executable" yaml:"executable" mapstructure:"executable"`
	PreferActivePython string `json:"prefer-active-python" yaml:"prefer-active-python" mapstructure:"prefer-active-python"`
}

func DefaultPoetry() Poetry {
	return Poetry{
		Executable:         "poetry",
		PreferActivePython: poetry.PreferActivePythonAuto,
	}
}

func (o *Poetry) AddFlags(flags clio.FlagSet) {
	flags.StringVarP(&o.Executable, "poetry", "", "the poetry executable to run")
}

func (o *Poetry) PostLoad() error {
	o.PreferActivePython = strings.ToLower(strings.TrimSpace(o.PreferActivePython))
	switch o.PreferActivePython {
	case "":
		o.PreferActivePython = poetry.PreferActivePythonAuto
	case poetry.PreferActivePythonAuto, poetry.PreferActivePythonTrue, poetry.PreferActivePythonFalse:
	default:
		return fmt.Errorf("invalid poetry.prefer-active-python value %q (allowable values: %s, %s, %s)",
			o.PreferActivePython, poetry.PreferActivePythonAuto, poetry.PreferActivePythonTrue, poetry.PreferActivePythonFalse)
	}
	return nil
}

func (o Poetry) Config() poetry.Config {
	return poetry.Config{
		Executable:         o.Executable,
		PreferActivePython: o.PreferActivePython,
	}
}
