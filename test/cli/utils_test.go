package cli

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var showOutput = flag.Bool("show-output", false, "show stdout and stderr for failing tests")

func logOutputOnFailure(t testing.TB, cmd *exec.Cmd, stdout, stderr string) {
	if t.Failed() && showOutput != nil && *showOutput {
		t.Log("STDOUT:\n", stdout)
		t.Log("STDERR:\n", stderr)
		t.Log("COMMAND:", strings.Join(cmd.Args, " "))
	}
}

// runPoetenv runs the poetenv binary from dir with the fake pyenv and poetry executables first on the PATH.
func runPoetenv(t testing.TB, dir string, env map[string]string, args ...string) (*exec.Cmd, string, string) {
	cancel := make(chan bool, 1)
	defer func() {
		cancel <- true
	}()

	cmd := exec.Command(getBinaryLocation(t), args...)
	cmd.Dir = dir

	if env == nil {
		env = make(map[string]string)
	}
	env["PATH"] = fakeBinDir(t) + string(os.PathListSeparator) + os.Getenv("PATH")

	go func() {
		select {
		case <-cancel:
			return
		case <-time.After(60 * time.Second):
		}

		if cmd.Process != nil {
			// get a stack trace printed
			if err := cmd.Process.Signal(syscall.SIGABRT); err != nil {
				t.Errorf("error aborting: %+v", err)
			}
		}
	}()

	stdout, stderr, _ := runCommand(cmd, env)
	return cmd, stdout, stderr
}

func runCommand(cmd *exec.Cmd, env map[string]string) (string, string, error) {
	if env != nil {
		cmd.Env = append(os.Environ(), envMapToSlice(env)...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// ignore errors since this may be what the test expects
	err := cmd.Run()

	return stdout.String(), stderr.String(), err
}

func envMapToSlice(env map[string]string) (envList []string) {
	for key, val := range env {
		if key == "" {
			continue
		}
		envList = append(envList, fmt.Sprintf("%s=%s", key, val))
	}
	return
}

func fakeBinDir(t testing.TB) string {
	t.Helper()
	dir, err := filepath.Abs(filepath.Join("testdata", "bin"))
	require.NoError(t, err)
	return dir
}

// copyProject copies the project fixture into a fresh directory so tests can write pins into it.
func copyProject(t testing.TB, name string) string {
	t.Helper()
	dst := t.TempDir()

	src := filepath.Join("testdata", name)
	entries, err := os.ReadDir(src)
	require.NoError(t, err)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		in, err := os.Open(filepath.Join(src, entry.Name()))
		require.NoError(t, err)

		out, err := os.Create(filepath.Join(dst, entry.Name()))
		require.NoError(t, err)

		_, err = io.Copy(out, in)
		require.NoError(t, err)
		require.NoError(t, in.Close())
		require.NoError(t, out.Close())
	}
	return dst
}

func getBinaryLocation(t testing.TB) string {
	if os.Getenv("POETENV_BINARY_LOCATION") != "" {
		// POETENV_BINARY_LOCATION is the absolute path to the snapshot binary
		return os.Getenv("POETENV_BINARY_LOCATION")
	}
	return getBinaryLocationByOS(t, runtime.GOOS)
}

func getBinaryLocationByOS(t testing.TB, goOS string) string {
	// note: for amd64 we need to update the snapshot location with the v1 suffix
	// see : https://goreleaser.com/customization/build/#why-is-there-a-_v1-suffix-on-amd64-builds
	archPath := runtime.GOARCH
	if runtime.GOARCH == "amd64" {
		archPath = fmt.Sprintf("%s_v1", archPath)
	}
	// note: there is a subtle - vs _ difference between these versions
	switch goOS {
	case "darwin", "linux":
		return filepath.Join(repoRoot(t), "snapshot", fmt.Sprintf("%s-build_%s_%s", goOS, goOS, archPath), "poetenv")
	default:
		t.Fatalf("unsupported OS: %s", runtime.GOOS)
	}
	return ""
}

func repoRoot(t testing.TB) string {
	t.Helper()
	root, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		t.Fatalf("unable to find repo root dir: %+v", err)
	}
	absRepoRoot, err := filepath.Abs(strings.TrimSpace(string(root)))
	if err != nil {
		t.Fatal("unable to get abs path to repo root:", err)
	}
	return absRepoRoot
}
