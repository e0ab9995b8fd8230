package poetry

import (
	"path/filepath"
	"strings"

	"github.com/scylladb/go-set/strset"

	"github.com/anchore/poetenv/hook"
)

var (
	// commands that run within the project's environment
	envCommands = strset.New("add", "build", "install", "lock", "remove", "run", "shell", "show", "sync", "update")

	// commands that take a sub-command, which together form the command name
	groupCommands = strset.New("cache", "debug", "env", "python", "self", "source")

	// global options that consume the following argument as their value
	valueOptions = strset.New("-C", "--directory", "-P", "--project")
)

// ParseCommand interprets the arguments given to poetry, resolving the project directory relative to cwd.
func ParseCommand(args []string, cwd string) *hook.Command {
	cmd := &hook.Command{
		Args: args,
		Dir:  cwd,
	}

	var words []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}

		if strings.HasPrefix(arg, "-") {
			if len(words) > 0 {
				// options after the command name belong to the command
				continue
			}
			name, value, hasValue := strings.Cut(arg, "=")
			if !valueOptions.Has(name) {
				continue
			}
			if !hasValue {
				if i+1 >= len(args) {
					break
				}
				i++
				value = args[i]
			}
			cmd.Dir = resolveDir(cwd, value)
			continue
		}

		words = append(words, arg)
		if len(words) == 1 && groupCommands.Has(arg) {
			continue
		}
		break
	}

	cmd.Name = strings.Join(words, " ")
	cmd.NeedsEnv = len(words) > 0 && (envCommands.Has(words[0]) || (words[0] == "self" && len(words) > 1 && envCommands.Has(words[1])))
	return cmd
}

func resolveDir(cwd, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(cwd, dir)
}
