package command

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/anchore/clio"
	"github.com/anchore/poetenv/internal/bus"
	"github.com/anchore/poetenv/internal/log"
	"github.com/anchore/poetenv/plugin"
)

func Env(app clio.Application) *cobra.Command {
	cfg := newProjectConfig()

	return app.SetupCommand(&cobra.Command{
		Use:   "env",
		Short: "Select, install and pin the project's python version, then create its virtualenv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnv(cmd.Context(), *cfg)
		},
	}, cfg)
}

func runEnv(ctx context.Context, cfg ProjectConfig) error {
	project, err := loadProject(cfg)
	if err != nil {
		return err
	}

	ctx, lgr := log.WithNested(ctx, "project", project.Name)

	env, err := plugin.New(cfg.PluginConfig()).Prepare(ctx, project.Dir)
	if err != nil {
		return err
	}

	if env.IsVenv() {
		lgr.Infof("Using virtualenv: %s", env.Path)
		bus.Report(env.Path)
		return nil
	}
	bus.Report(env.Python)
	return nil
}
