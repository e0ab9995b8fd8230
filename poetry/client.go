package poetry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/anchore/poetenv"
	"github.com/anchore/poetenv/hook"
	"github.com/anchore/poetenv/internal/log"
)

const (
	PreferActivePythonAuto  = "auto"
	PreferActivePythonTrue  = "true"
	PreferActivePythonFalse = "false"
)

var _ interface {
	poetenv.EnvManager
	poetenv.Settings
} = (*Client)(nil)

type Config struct {
	Executable string `json:"executable" yaml:"executable" mapstructure:"executable"`
	// PreferActivePython overrides poetry's own setting when not "auto".
	PreferActivePython string `json:"prefer-active-python" yaml:"prefer-active-python" mapstructure:"prefer-active-python"`
	// Dir is the project directory poetry runs in.
	Dir string `json:"-" yaml:"-" mapstructure:"-"`
}

type invocation struct {
	name   string
	args   []string
	dir    string
	stdout io.Writer
	stderr io.Writer
}

type runFunc func(ctx context.Context, inv invocation) (int, error)

// Client drives the poetry executable for environment management and configuration queries.
type Client struct {
	config Config
	runner runFunc
}

func NewClient(cfg Config) *Client {
	if cfg.Executable == "" {
		cfg.Executable = "poetry"
	}
	return &Client{
		config: cfg,
		runner: runProcess,
	}
}

// PreferActivePython reports whether poetry should use the python that is active in the shell (and therefore the
// one selected by pyenv) rather than the python poetry itself runs with.
func (c *Client) PreferActivePython(ctx context.Context) (bool, error) {
	switch strings.ToLower(c.config.PreferActivePython) {
	case PreferActivePythonTrue:
		return true, nil
	case PreferActivePythonFalse:
		return false, nil
	}

	value, found, err := c.setting(ctx, "virtualenvs.prefer-active-python")
	if err != nil {
		return false, err
	}
	if found {
		return value, nil
	}

	// newer versions of poetry prefer the active python unless told to use their own
	value, found, err = c.setting(ctx, "virtualenvs.use-poetry-python")
	if err != nil {
		return false, err
	}
	if found {
		return !value, nil
	}

	log.Debug("unable to determine poetry's python preference, assuming poetry's own python is preferred")
	return false, nil
}

func (c *Client) setting(ctx context.Context, key string) (value bool, found bool, err error) {
	out, code, err := c.output(ctx, "config", key)
	if err != nil {
		return false, false, err
	}
	if code != 0 {
		return false, false, nil
	}
	value, err = strconv.ParseBool(strings.TrimSpace(out))
	if err != nil {
		return false, false, fmt.Errorf("unexpected value for poetry setting %q: %q", key, strings.TrimSpace(out))
	}
	return value, true, nil
}

// CreateVenv points poetry at the given interpreter, creating the project's virtualenv if needed. When force is set
// any existing virtualenv for that interpreter is removed first.
func (c *Client) CreateVenv(ctx context.Context, python string, force bool) (*poetenv.Environment, error) {
	if force {
		out, code, err := c.combinedOutput(ctx, "env", "remove", python)
		if err != nil {
			return nil, err
		}
		if code != 0 {
			log.WithFields("python", python, "output", strings.TrimSpace(out)).Debug("no virtualenv removed")
		}
	}

	out, code, err := c.combinedOutput(ctx, "env", "use", python)
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, fmt.Errorf("unable to create virtualenv with %q (exit code %d): %s", python, code, strings.TrimSpace(out))
	}

	env, err := c.CurrentEnv(ctx)
	if err != nil {
		return nil, err
	}
	if env == nil {
		// virtualenv creation is disabled, so commands use the interpreter directly
		return &poetenv.Environment{Python: python}, nil
	}
	return env, nil
}

// CurrentEnv returns the project's active virtualenv, or nil when there is none.
func (c *Client) CurrentEnv(ctx context.Context) (*poetenv.Environment, error) {
	path, code, err := c.output(ctx, "env", "info", "--path")
	if err != nil {
		return nil, err
	}
	path = strings.TrimSpace(path)
	if code != 0 || path == "" {
		return nil, nil
	}

	python, code, err := c.output(ctx, "env", "info", "--executable")
	if err != nil {
		return nil, err
	}
	if code != 0 {
		python = ""
	}

	return &poetenv.Environment{
		Path:   path,
		Python: strings.TrimSpace(python),
	}, nil
}

// ConfigureEnv attaches the project's existing virtualenv to environment commands that do not yet have one. It is
// meant to run after any listener that selects the interpreter.
func (c *Client) ConfigureEnv(ctx context.Context, e hook.Event, _ hook.EventName, _ *hook.Dispatcher) error {
	ce, ok := e.(*hook.ConsoleCommandEvent)
	if !ok {
		return nil
	}
	cmd := ce.Command
	if !cmd.NeedsEnv || cmd.Env() != nil {
		return nil
	}

	env, err := c.CurrentEnv(ctx)
	if err != nil {
		return err
	}
	if env != nil {
		cmd.SetEnv(env)
	}
	return nil
}

// Command builds the process that runs poetry with the given arguments.
func (c *Client) Command(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.config.Executable, args...)
	cmd.Dir = c.config.Dir
	return cmd
}

func (c *Client) output(ctx context.Context, args ...string) (string, int, error) {
	var stdout bytes.Buffer
	code, err := c.run(ctx, &stdout, io.Discard, args...)
	return stdout.String(), code, err
}

func (c *Client) combinedOutput(ctx context.Context, args ...string) (string, int, error) {
	var out bytes.Buffer
	code, err := c.run(ctx, &out, &out, args...)
	return out.String(), code, err
}

func (c *Client) run(ctx context.Context, stdout, stderr io.Writer, args ...string) (int, error) {
	log.Trace("running: poetry " + strings.Join(args, " "))
	return c.runner(ctx, invocation{
		name:   c.config.Executable,
		args:   args,
		dir:    c.config.Dir,
		stdout: stdout,
		stderr: stderr,
	})
}

func runProcess(ctx context.Context, inv invocation) (int, error) {
	cmd := exec.CommandContext(ctx, inv.name, inv.args...)
	cmd.Dir = inv.dir
	cmd.Stdout = inv.stdout
	cmd.Stderr = inv.stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("unable to run %s: %w", inv.name, err)
}
