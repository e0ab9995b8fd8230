package pyenv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"sync"

	"github.com/anchore/poetenv/internal/log"
	"github.com/anchore/poetenv/pyversion"
)

// ErrInvalidPin is returned when the local version pin exists but cannot be interpreted as a python version.
var ErrInvalidPin = errors.New("invalid local python version")

var (
	// a line holding nothing but a version token, e.g. "  3.11.4" or "3.12-dev" (but not "pypy3.10-7.3.12")
	versionLinePattern = regexp.MustCompile(`(?im)^\s*(\d+\S*)\s*$`)
	noLocalPattern     = regexp.MustCompile(`no local version`)
)

type Config struct {
	// Path overrides locating pyenv on the host.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
	// InstallArgs are additional arguments to "pyenv install", rendered as a template with {{.Version}}.
	InstallArgs string `json:"install-args" yaml:"install-args" mapstructure:"install-args"`
	// Dir is the directory pyenv runs in, which determines which local pin is read and written.
	Dir string `json:"-" yaml:"-" mapstructure:"-"`
	// InstallOutput receives the output of "pyenv install". When nil the output is captured and only shown on failure.
	InstallOutput io.Writer `json:"-" yaml:"-" mapstructure:"-"`
}

type invocation struct {
	name   string
	args   []string
	dir    string
	stdout io.Writer
	stderr io.Writer
}

// runFunc runs a process to completion, returning its exit code. An error is only returned when the process could
// not be run at all.
type runFunc func(ctx context.Context, inv invocation) (int, error)

// Client runs pyenv subcommands and interprets their output.
type Client struct {
	config   Config
	locator  Locator
	runner   runFunc
	once     *sync.Once
	location Location
}

func NewClient(cfg Config) *Client {
	return &Client{
		config:  cfg,
		locator: NewLocator(),
		runner:  runProcess,
		once:    &sync.Once{},
	}
}

// Location returns where pyenv was found, searching for it on first use.
func (c *Client) Location(ctx context.Context) Location {
	c.once.Do(func() {
		if c.config.Path != "" {
			c.location = Location{Path: c.config.Path, Located: true}
			return
		}
		c.location = c.locator.Locate(ctx)
	})
	return c.location
}

// LocalVersion returns the version pinned for the current directory, or nil when there is no pin.
func (c *Client) LocalVersion(ctx context.Context) (*pyversion.Version, error) {
	out, code, err := c.output(ctx, "local")
	if err != nil {
		return nil, err
	}
	if code != 0 || noLocalPattern.MatchString(out) {
		return nil, nil
	}

	fields := strings.Fields(out)
	if len(fields) == 0 {
		return nil, nil
	}

	v, err := pyversion.ParseToolToken(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPin, fields[0], err)
	}
	return v, nil
}

// SetLocalVersion pins the given version for the current directory.
func (c *Client) SetLocalVersion(ctx context.Context, v *pyversion.Version) error {
	var stderr bytes.Buffer
	code, err := c.run(ctx, io.Discard, &stderr, "local", v.String())
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("unable to set local python version %q (exit code %d): %s", v, code, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// IsInstalled reports whether pyenv already has the given version installed. A version given with fewer components
// (e.g. "3.12") is satisfied by any installed version that extends it (e.g. "3.12.1" or "3.12-dev").
func (c *Client) IsInstalled(ctx context.Context, v *pyversion.Version) (bool, error) {
	out, code, err := c.output(ctx, "versions", "--bare")
	if err != nil {
		return false, err
	}
	if code != 0 {
		return false, nil
	}

	base, _, _ := strings.Cut(v.String(), "-")
	pattern := regexp.MustCompile(`(?m)^\s*` + regexp.QuoteMeta(base) + `([.-]\S*)?\s*$`)
	return pattern.MatchString(out), nil
}

// Install installs the given version with pyenv.
func (c *Client) Install(ctx context.Context, v *pyversion.Version) error {
	extra, err := renderInstallArgs(c.config.InstallArgs, v.String())
	if err != nil {
		return err
	}

	args := append([]string{"install", v.String()}, extra...)

	var captured bytes.Buffer
	out := c.config.InstallOutput
	if out == nil {
		out = &captured
	}

	log.WithFields("version", v.String()).Trace("running: pyenv " + strings.Join(args, " "))

	code, err := c.run(ctx, out, out, args...)
	if err != nil {
		return err
	}
	if code != 0 {
		return fmt.Errorf("unable to install python %q (exit code %d)\nOutput: %s", v, code, captured.String())
	}
	return nil
}

// RemoteVersions lists the versions pyenv is able to install, in the order pyenv lists them.
func (c *Client) RemoteVersions(ctx context.Context) ([]*pyversion.Version, error) {
	out, code, err := c.output(ctx, "install", "--list")
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, fmt.Errorf("unable to list installable python versions (exit code %d)", code)
	}
	return parseVersionLines(out), nil
}

// InstalledVersions lists the versions pyenv has installed.
func (c *Client) InstalledVersions(ctx context.Context) ([]*pyversion.Version, error) {
	out, code, err := c.output(ctx, "versions", "--bare")
	if err != nil {
		return nil, err
	}
	if code != 0 {
		return nil, fmt.Errorf("unable to list installed python versions (exit code %d)", code)
	}
	return parseVersionLines(out), nil
}

// Which returns the path to the python interpreter selected by pyenv for the current directory.
func (c *Client) Which(ctx context.Context) (string, error) {
	out, code, err := c.output(ctx, "which", "python")
	if err != nil {
		return "", err
	}
	path := strings.TrimSpace(out)
	if code != 0 || path == "" {
		return "", fmt.Errorf("pyenv was unable to resolve a python interpreter (exit code %d)", code)
	}
	return path, nil
}

func parseVersionLines(out string) []*pyversion.Version {
	var versions []*pyversion.Version
	for _, m := range versionLinePattern.FindAllStringSubmatch(out, -1) {
		v, err := pyversion.ParseToolToken(m[1])
		if err != nil {
			log.Tracef("skipping python version %q: %v", m[1], err)
			continue
		}
		versions = append(versions, v)
	}
	return versions
}

func (c *Client) output(ctx context.Context, args ...string) (string, int, error) {
	var stdout bytes.Buffer
	code, err := c.run(ctx, &stdout, io.Discard, args...)
	return stdout.String(), code, err
}

func (c *Client) run(ctx context.Context, stdout, stderr io.Writer, args ...string) (int, error) {
	name, argv := c.Location(ctx).command(args...)
	return c.runner(ctx, invocation{
		name:   name,
		args:   argv,
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
