package option

import "github.com/anchore/poetenv/plugin"

type AppConfig struct {
	Pyenv  Pyenv  `json:"pyenv" yaml:"pyenv" mapstructure:"pyenv"`
	Poetry Poetry `json:"poetry" yaml:"poetry" mapstructure:"poetry"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Poetry: DefaultPoetry(),
	}
}

// PluginConfig is the configuration the pyenv plugin runs with.
func (o AppConfig) PluginConfig() plugin.Config {
	return plugin.Config{
		Pyenv:  o.Pyenv.Config(),
		Poetry: o.Poetry.Config(),
	}
}
