package command

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/anchore/clio"
	"github.com/anchore/poetenv/internal/bus"
	"github.com/anchore/poetenv/plugin"
	"github.com/anchore/poetenv/pyversion"
)

func Install(app clio.Application) *cobra.Command {
	cfg := newProjectConfig()

	return app.SetupCommand(&cobra.Command{
		Use:   "install [VERSION]",
		Short: "Install a python version with pyenv (by default the version the project would use)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var version string
			if len(args) > 0 {
				version = args[0]
			}
			return runInstall(cmd.Context(), *cfg, version)
		},
	}, cfg)
}

func runInstall(ctx context.Context, cfg ProjectConfig, text string) error {
	project, err := loadProject(cfg)
	if err != nil {
		return err
	}

	p := plugin.New(cfg.PluginConfig())
	vm := p.VersionManager(ctx, project.Dir)

	var version *pyversion.Version
	if text != "" {
		version, err = pyversion.ParseToolToken(text)
	} else {
		version, _, err = p.Select(ctx, vm, project.PythonConstraint)
	}
	if err != nil {
		return err
	}

	if err := vm.EnsureInstalled(ctx, version); err != nil {
		return err
	}

	bus.Report(version.String())
	return nil
}
