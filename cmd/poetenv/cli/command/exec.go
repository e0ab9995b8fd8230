package command

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/anchore/clio"
	"github.com/anchore/poetenv/cmd/poetenv/cli/option"
	"github.com/anchore/poetenv/hook"
	"github.com/anchore/poetenv/internal/log"
	"github.com/anchore/poetenv/plugin"
	"github.com/anchore/poetenv/poetry"
)

type ExecConfig struct {
	Config           string `json:"config" yaml:"config" mapstructure:"config"`
	option.AppConfig `json:"" yaml:",inline" mapstructure:",squash"`
}

// ExitError is returned when poetry ran but did not succeed.
type ExitError struct {
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("poetry exited with code %d", e.Code)
}

func Exec(app clio.Application) *cobra.Command {
	cfg := &ExecConfig{
		AppConfig: option.DefaultAppConfig(),
	}

	return app.SetupCommand(&cobra.Command{
		Use:                "exec [poetry args...]",
		Short:              "run poetry within the python environment selected by pyenv",
		Aliases:            []string{"poetry"},
		DisableFlagParsing: true, // pass these as arguments to poetry
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("unable to determine working directory: %w", err)
			}
			return runExec(cmd.Context(), *cfg, cwd, args)
		},
	}, cfg)
}

// executor runs a prepared process and returns its exit code.
type executor func(c *exec.Cmd) (int, error)

func runExec(ctx context.Context, cfg ExecConfig, cwd string, args []string) error {
	return execPoetry(ctx, cfg.AppConfig, cwd, args, plugin.New(cfg.PluginConfig()), run)
}

func execPoetry(ctx context.Context, cfg option.AppConfig, cwd string, args []string, p *plugin.Plugin, runner executor) error {
	command := poetry.ParseCommand(args, cwd)
	ctx, lgr := log.WithNested(ctx, "command", command.Name)

	poetryCfg := cfg.Poetry.Config()

	host := poetryCfg
	host.Dir = command.Dir

	d := hook.NewDispatcher()
	p.Activate(d)
	d.AddListener(hook.CommandEvent, poetry.NewClient(host).ConfigureEnv, 0)

	if _, err := d.Dispatch(ctx, hook.CommandEvent, hook.NewConsoleCommandEvent(command)); err != nil {
		return err
	}

	// relative project options are resolved by poetry itself, so poetry runs from the original working directory
	poetryCfg.Dir = cwd
	proc := poetry.NewClient(poetryCfg).Command(ctx, args)
	if env := command.Env(); env != nil {
		proc.Env = env.Environ(os.Environ())
		lgr.WithFields("env", env.Path, "python", env.Python).Debug("running poetry in environment")
	}

	code, err := runner(proc)
	if err != nil {
		return fmt.Errorf("unable to run poetry: %w", err)
	}

	if _, err := d.Dispatch(ctx, hook.TerminateEvent, &hook.ConsoleTerminateEvent{Command: command, ExitCode: code}); err != nil {
		return err
	}

	if code != 0 {
		return ExitError{Code: code}
	}
	return nil
}
