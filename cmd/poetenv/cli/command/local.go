package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anchore/clio"
	"github.com/anchore/poetenv/internal/bus"
	"github.com/anchore/poetenv/pyversion"
)

func Local(app clio.Application) *cobra.Command {
	cfg := newProjectConfig()

	return app.SetupCommand(&cobra.Command{
		Use:   "local [VERSION]",
		Short: "Show the project's pinned python version, or pin a new one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runShowLocal(cmd.Context(), *cfg)
			}
			return runSetLocal(cmd.Context(), *cfg, args[0])
		},
	}, cfg)
}

func runShowLocal(ctx context.Context, cfg ProjectConfig) error {
	project, err := loadProject(cfg)
	if err != nil {
		return err
	}

	local, err := pyenvClient(cfg.AppConfig, project.Dir).LocalVersion(ctx)
	if err != nil {
		return err
	}
	if local == nil {
		bus.Notify("no local python version is pinned")
		return nil
	}

	if !project.PythonConstraint.Allows(local) {
		bus.Notify(fmt.Sprintf("python %s does not satisfy the project constraint %q", local, project.PythonConstraint))
	}
	bus.Report(local.String())
	return nil
}

func runSetLocal(ctx context.Context, cfg ProjectConfig, text string) error {
	project, err := loadProject(cfg)
	if err != nil {
		return err
	}

	version, err := pyversion.ParseToolToken(text)
	if err != nil {
		return err
	}

	if !project.PythonConstraint.Allows(version) {
		return fmt.Errorf("python %s does not satisfy the project constraint %q", version, project.PythonConstraint)
	}

	client := pyenvClient(cfg.AppConfig, project.Dir)
	if err := client.EnsureInstalled(ctx, version); err != nil {
		return err
	}
	if err := client.SetLocalVersion(ctx, version); err != nil {
		return err
	}

	bus.Report(version.String())
	return nil
}
