package pyenv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocator_Locate(t *testing.T) {
	notFound := func(string) (string, error) { return "", errors.New("not found") }
	noShell := func(context.Context, string) (string, error) { return "", errors.New("exit status 1") }
	env := func(vars map[string]string) func(string) string {
		return func(key string) string { return vars[key] }
	}
	existsOnly := func(paths ...string) func(string) bool {
		return func(p string) bool {
			for _, each := range paths {
				if each == p {
					return true
				}
			}
			return false
		}
	}

	userProfile := filepath.Join("Users", "someone")

	tests := []struct {
		name    string
		locator Locator
		want    Location
	}{
		{
			name: "found on search path",
			locator: Locator{
				goos:       "linux",
				lookPath:   func(string) (string, error) { return "/usr/local/bin/pyenv", nil },
				getenv:     env(nil),
				fileExists: existsOnly(),
				shellType:  noShell,
			},
			want: Location{Path: "/usr/local/bin/pyenv", Located: true},
		},
		{
			name: "windows user profile pyenv-win batch file",
			locator: Locator{
				goos:       "windows",
				lookPath:   notFound,
				getenv:     env(map[string]string{"USERPROFILE": userProfile}),
				fileExists: existsOnly(filepath.Join(userProfile, ".pyenv", "pyenv-win", "bin", "pyenv.bat")),
				shellType: func(context.Context, string) (string, error) {
					t.Fatal("shell functions are not consulted on windows")
					return "", nil
				},
			},
			want: Location{Path: filepath.Join(userProfile, ".pyenv", "pyenv-win", "bin", "pyenv.bat"), Located: true},
		},
		{
			name: "windows prefers exe over bat",
			locator: Locator{
				goos:     "windows",
				lookPath: notFound,
				getenv:   env(nil),
				fileExists: existsOnly(
					filepath.Join(`C:\.pyenv`, "bin", "pyenv.bat"),
					filepath.Join(`C:\.pyenv`, "bin", "pyenv.exe"),
				),
				shellType: noShell,
			},
			want: Location{Path: filepath.Join(`C:\.pyenv`, "bin", "pyenv.exe"), Located: true},
		},
		{
			name: "pyenv root",
			locator: Locator{
				goos:       "darwin",
				lookPath:   notFound,
				getenv:     env(map[string]string{"PYENV_ROOT": "/opt/pyenv", "HOME": "/home/someone"}),
				fileExists: existsOnly(filepath.Join("/opt/pyenv", "bin", "pyenv"), filepath.Join("/home/someone", ".pyenv", "bin", "pyenv")),
				shellType:  noShell,
			},
			want: Location{Path: filepath.Join("/opt/pyenv", "bin", "pyenv"), Located: true},
		},
		{
			name: "shell function",
			locator: Locator{
				goos:       "linux",
				lookPath:   notFound,
				getenv:     env(nil),
				fileExists: existsOnly(),
				shellType:  func(context.Context, string) (string, error) { return "function", nil },
			},
			want: Location{Path: "pyenv", ShellFunction: true, Located: true},
		},
		{
			name: "shell alias is not a function",
			locator: Locator{
				goos:       "linux",
				lookPath:   notFound,
				getenv:     env(nil),
				fileExists: existsOnly(),
				shellType:  func(context.Context, string) (string, error) { return "alias", nil },
			},
			want: Location{Path: "pyenv", Located: false},
		},
		{
			name: "not located anywhere",
			locator: Locator{
				goos:       "windows",
				lookPath:   notFound,
				getenv:     env(map[string]string{"USERPROFILE": userProfile}),
				fileExists: existsOnly(),
				shellType:  noShell,
			},
			want: Location{Path: "pyenv", Located: false},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.locator.Locate(context.Background()))
		})
	}
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "pyenv (shell function)", Location{Path: "pyenv", ShellFunction: true}.String())
	assert.Equal(t, "/usr/bin/pyenv", Location{Path: "/usr/bin/pyenv"}.String())
}

func TestLocation_command(t *testing.T) {
	name, args := Location{Path: "/usr/bin/pyenv"}.command("local", "3.12.1")
	assert.Equal(t, "/usr/bin/pyenv", name)
	assert.Equal(t, []string{"local", "3.12.1"}, args)

	name, args = Location{Path: "pyenv", ShellFunction: true}.command("local")
	assert.Equal(t, "bash", name)
	assert.Equal(t, []string{"-c", `pyenv "$@"`, "pyenv", "local"}, args)
}
