package poetenv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Environment is a python environment that commands can be run in.
type Environment struct {
	// Path is the root of the virtual environment, empty when the interpreter is used directly.
	Path string `json:"path"`
	// Python is the path to the interpreter.
	Python string `json:"python"`
}

func (e Environment) IsVenv() bool {
	return e.Path != ""
}

// BinDir is the directory holding the environment's executables.
func (e Environment) BinDir() string {
	if !e.IsVenv() {
		return filepath.Dir(e.Python)
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(e.Path, "Scripts")
	}
	return filepath.Join(e.Path, "bin")
}

// Environ returns the given process environment with this environment activated.
func (e Environment) Environ(base []string) []string {
	var out []string
	path := ""
	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		switch {
		case strings.EqualFold(key, "PATH"):
			path = value
			continue
		case e.IsVenv() && key == "VIRTUAL_ENV":
			continue
		}
		out = append(out, kv)
	}

	binDir := e.BinDir()
	if binDir != "" && binDir != "." {
		if path != "" {
			path = binDir + string(os.PathListSeparator) + path
		} else {
			path = binDir
		}
	}
	out = append(out, "PATH="+path)

	if e.IsVenv() {
		out = append(out, "VIRTUAL_ENV="+e.Path)
	}
	return out
}
