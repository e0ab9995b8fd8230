package pyenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/anchore/poetenv/internal/log"
)

// Name is the name pyenv is invoked by when it cannot be found anywhere else.
const Name = "pyenv"

// Location describes how pyenv can be invoked on this host.
type Location struct {
	// Path is the executable to run (or the bare name when pyenv was not located).
	Path string
	// ShellFunction indicates pyenv is only available as a shell function and must be invoked through a shell.
	ShellFunction bool
	// Located is false when no search strategy found pyenv and the bare name is being assumed.
	Located bool
}

func (l Location) String() string {
	if l.ShellFunction {
		return Name + " (shell function)"
	}
	return l.Path
}

// command returns the program and arguments needed to run pyenv with the given arguments.
func (l Location) command(args ...string) (string, []string) {
	if l.ShellFunction {
		return "bash", append([]string{"-c", Name + ` "$@"`, Name}, args...)
	}
	return l.Path, args
}

// Locator searches the host for a pyenv installation.
type Locator struct {
	goos       string
	lookPath   func(file string) (string, error)
	getenv     func(key string) string
	fileExists func(path string) bool
	shellType  func(ctx context.Context, name string) (string, error)
}

func NewLocator() Locator {
	return Locator{
		goos:       runtime.GOOS,
		lookPath:   exec.LookPath,
		getenv:     os.Getenv,
		fileExists: fileExists,
		shellType:  bashType,
	}
}

// Locate tries, in order: the search path, well known installation directories, and (outside of windows) a shell
// function definition. When every strategy fails the bare name is returned and the location is flagged as not
// located.
func (l Locator) Locate(ctx context.Context) Location {
	var errs error

	path, err := l.lookPath(Name)
	if err == nil {
		return Location{Path: path, Located: true}
	}
	errs = multierror.Append(errs, fmt.Errorf("search path: %w", err))

	for _, candidate := range l.candidates() {
		if l.fileExists(candidate) {
			return Location{Path: candidate, Located: true}
		}
	}
	errs = multierror.Append(errs, fmt.Errorf("no executable found in well known directories"))

	if l.goos != "windows" {
		kind, err := l.shellType(ctx, Name)
		switch {
		case err != nil:
			errs = multierror.Append(errs, fmt.Errorf("shell lookup: %w", err))
		case kind == "function":
			return Location{Path: Name, ShellFunction: true, Located: true}
		default:
			errs = multierror.Append(errs, fmt.Errorf("shell lookup: %q is a %q, not a function", Name, kind))
		}
	}

	log.WithFields("error", errs).Debug("unable to locate pyenv")

	return Location{Path: Name, Located: false}
}

// candidates lists executables in well known installation directories, in order of preference.
func (l Locator) candidates() []string {
	var out []string
	if l.goos == "windows" {
		var dirs []string
		if home := l.getenv("USERPROFILE"); home != "" {
			dirs = append(dirs,
				filepath.Join(home, ".pyenv", "pyenv-win", "bin"),
				filepath.Join(home, ".pyenv", "bin"),
			)
		}
		dirs = append(dirs,
			filepath.Join(`C:\.pyenv`, "pyenv-win", "bin"),
			filepath.Join(`C:\.pyenv`, "bin"),
		)
		for _, dir := range dirs {
			out = append(out,
				filepath.Join(dir, Name+".exe"),
				filepath.Join(dir, Name+".bat"),
			)
		}
		return out
	}

	if root := l.getenv("PYENV_ROOT"); root != "" {
		out = append(out, filepath.Join(root, "bin", Name))
	}
	if home := l.getenv("HOME"); home != "" {
		out = append(out, filepath.Join(home, ".pyenv", "bin", Name))
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func bashType(ctx context.Context, name string) (string, error) {
	out, err := exec.CommandContext(ctx, "bash", "-c", "type -t "+name).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
