package option

import "github.com/anchore/clio"

type Versions struct {
	Remote  bool `json:"remote" yaml:"remote" mapstructure:"remote"`
	Allowed bool `json:"allowed" yaml:"allowed" mapstructure:"allowed"`
}

func (o *Versions) AddFlags(flags clio.FlagSet) {
	flags.BoolVarP(&o.Remote, "remote", "", "list the versions pyenv is able to install instead of the installed versions")
	flags.BoolVarP(&o.Allowed, "allowed", "", "list only stable versions that satisfy the project's python constraint")
}
