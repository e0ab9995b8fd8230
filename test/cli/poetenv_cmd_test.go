package cli

import (
	"path/filepath"
	"testing"
)

func TestPoetenvCmd(t *testing.T) {
	type step struct {
		name       string
		args       []string
		env        map[string]string
		assertions func(logPath, venvRoot string) []traitAssertion
	}

	tests := []struct {
		name  string
		steps []step
	}{
		{
			name: "environment command selects, installs and pins python",
			steps: []step{
				{
					name: "exec install",
					args: []string{"exec", "install"},
					assertions: func(logPath, venvRoot string) []traitAssertion {
						return []traitAssertion{
							assertSuccessfulReturnCode,
							assertPinnedVersion("3.12.1"),
							assertInvoked(logPath, "pyenv install 3.12.1"),
							assertInvoked(logPath, "poetry env use /fake-pyenv/versions/3.12.1/bin/python"),
							assertInOutput("VIRTUAL_ENV=" + filepath.Join(venvRoot, "app-py3.12")),
						}
					},
				},
				{
					name: "local shows the pin",
					args: []string{"local"},
					assertions: func(_, _ string) []traitAssertion {
						return []traitAssertion{
							assertSuccessfulReturnCode,
							assertInOutput("3.12.1"),
						}
					},
				},
			},
		},
		{
			name: "commands without an environment are passed through",
			steps: []step{
				{
					name: "exec config",
					args: []string{"poetry", "config", "--list"},
					assertions: func(logPath, _ string) []traitAssertion {
						return []traitAssertion{
							assertSuccessfulReturnCode,
							assertNoPin,
							assertNotInvoked(logPath, "pyenv"),
							assertInvoked(logPath, "poetry config --list"),
						}
					},
				},
			},
		},
		{
			name: "prefer-active-python disabled leaves pyenv alone",
			steps: []step{
				{
					name: "exec install",
					args: []string{"exec", "install"},
					env:  map[string]string{"FAKE_PREFER_ACTIVE_PYTHON": "false"},
					assertions: func(logPath, _ string) []traitAssertion {
						return []traitAssertion{
							assertSuccessfulReturnCode,
							assertNoPin,
							assertNotInvoked(logPath, "pyenv"),
						}
					},
				},
			},
		},
		{
			name: "version listing",
			steps: []step{
				{
					name: "allowed remote versions as json",
					args: []string{"versions", "--remote", "--allowed", "-o", "json"},
					assertions: func(_, _ string) []traitAssertion {
						return []traitAssertion{
							assertSuccessfulReturnCode,
							assertJson,
							assertInOutput(`"version": "3.11.7"`),
							assertInOutput(`"version": "3.12.1"`),
							assertNotInOutput(`"version": "3.10.13"`),
							assertNotInOutput(`"version": "3.13.0rc1"`),
						}
					},
				},
				{
					name: "jq",
					args: []string{"versions", "--jq", ".[].version"},
					assertions: func(_, _ string) []traitAssertion {
						return []traitAssertion{
							assertSuccessfulReturnCode,
							assertInOutput(`"3.11.7"`),
						}
					},
				},
			},
		},
		{
			name: "pin outside of the constraint is rejected",
			steps: []step{
				{
					name: "local",
					args: []string{"local", "3.10.13"},
					assertions: func(_, _ string) []traitAssertion {
						return []traitAssertion{
							assertFailingReturnCode,
							assertNoPin,
							assertInOutput("does not satisfy"),
						}
					},
				},
			},
		},
		{
			name: "which",
			steps: []step{
				{
					name: "which",
					args: []string{"which"},
					assertions: func(_, _ string) []traitAssertion {
						return []traitAssertion{
							assertSuccessfulReturnCode,
							assertInOutput(filepath.Join("testdata", "bin", "pyenv")),
						}
					},
				},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// we always have a clean project for every test, but a shared state for each step
			project := copyProject(t, "project")
			scratch := t.TempDir()
			logPath := filepath.Join(scratch, "invocations.log")
			venvRoot := filepath.Join(scratch, "venvs")

			for _, s := range test.steps {
				t.Run(s.name, func(t *testing.T) {
					if s.env == nil {
						s.env = make(map[string]string)
					}
					s.env["FAKE_LOG"] = logPath
					s.env["FAKE_VENV_ROOT"] = venvRoot

					cmd, stdout, stderr := runPoetenv(t, project, s.env, s.args...)
					for _, traitFn := range s.assertions(logPath, venvRoot) {
						traitFn(t, project, stdout, stderr, cmd.ProcessState.ExitCode())
					}

					logOutputOnFailure(t, cmd, stdout, stderr)
				})
			}
		})
	}
}
