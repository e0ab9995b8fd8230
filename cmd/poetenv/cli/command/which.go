package command

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/anchore/clio"
	"github.com/anchore/poetenv/cmd/poetenv/cli/option"
	"github.com/anchore/poetenv/internal/bus"
)

type WhichConfig struct {
	Config           string `json:"config" yaml:"config" mapstructure:"config"`
	option.AppConfig `json:"" yaml:",inline" mapstructure:",squash"`
}

func Which(app clio.Application) *cobra.Command {
	cfg := &WhichConfig{
		AppConfig: option.DefaultAppConfig(),
	}

	return app.SetupCommand(&cobra.Command{
		Use:   "which",
		Short: "Show where pyenv was found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWhich(cmd.Context(), *cfg)
		},
	}, cfg)
}

func runWhich(ctx context.Context, cfg WhichConfig) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	location := pyenvClient(cfg.AppConfig, cwd).Location(ctx)
	if !location.Located {
		bus.Notify("pyenv was not found on your system, attempting to use default path for pyenv.")
	}
	bus.Report(location.String())
	return nil
}
