package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/acarl005/stripansi"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type traitAssertion func(tb testing.TB, projectDir, stdout, stderr string, rc int)

func assertJson(tb testing.TB, _, stdout, _ string, _ int) {
	tb.Helper()
	var data interface{}

	if err := json.Unmarshal([]byte(stdout), &data); err != nil {
		tb.Errorf("expected to find a JSON report, but was unmarshalable: %+v", err)
	}
}

func assertNotInOutput(data string) traitAssertion {
	return func(tb testing.TB, _, stdout, stderr string, _ int) {
		tb.Helper()
		if strings.Contains(stripansi.Strip(stderr), data) {
			tb.Errorf("data=%q was found in stderr, but should not have been there", data)
		}
		if strings.Contains(stripansi.Strip(stdout), data) {
			tb.Errorf("data=%q was found in stdout, but should not have been there", data)
		}
	}
}

func assertInOutput(data string) traitAssertion {
	return func(tb testing.TB, _, stdout, stderr string, _ int) {
		tb.Helper()
		stdout = stripansi.Strip(stdout)
		stderr = stripansi.Strip(stderr)
		if !strings.Contains(stdout, data) && !strings.Contains(stderr, data) {
			tb.Errorf("data=%q was NOT found in any output, but should have been there", data)
			if showOutput != nil && *showOutput {
				tb.Errorf("STDOUT:%s\nSTDERR:%s", stdout, stderr)
			}
		}
	}
}

func assertFailingReturnCode(tb testing.TB, _, _, _ string, rc int) {
	tb.Helper()
	if rc == 0 {
		tb.Errorf("expected a failure but got rc=%d", rc)
	}
}

func assertSuccessfulReturnCode(tb testing.TB, _, _, _ string, rc int) {
	tb.Helper()
	if rc != 0 {
		tb.Errorf("expected no failure but got rc=%d", rc)
	}
}

// assertPinnedVersion checks the local version file pyenv maintains in the project.
func assertPinnedVersion(expected string) traitAssertion {
	return func(tb testing.TB, projectDir, _, _ string, _ int) {
		tb.Helper()

		content, err := os.ReadFile(filepath.Join(projectDir, ".python-version"))
		require.NoError(tb, err)

		if d := cmp.Diff(expected, strings.TrimSpace(string(content))); d != "" {
			tb.Errorf("unexpected pinned version (-want +got):\n%s", d)
		}
	}
}

func assertNoPin(tb testing.TB, projectDir, _, _ string, _ int) {
	tb.Helper()
	if _, err := os.Stat(filepath.Join(projectDir, ".python-version")); err == nil {
		tb.Errorf("expected no local version to be pinned")
	}
}

// assertInvoked checks the invocations the fake executables recorded.
func assertInvoked(logPath string, invocation string) traitAssertion {
	return func(tb testing.TB, _, _, _ string, _ int) {
		tb.Helper()
		content, err := os.ReadFile(logPath)
		require.NoError(tb, err)

		for _, line := range strings.Split(string(content), "\n") {
			if line == invocation {
				return
			}
		}
		tb.Errorf("expected %q to have been invoked, got:\n%s", invocation, content)
	}
}

func assertNotInvoked(logPath string, prefix string) traitAssertion {
	return func(tb testing.TB, _, _, _ string, _ int) {
		tb.Helper()
		content, err := os.ReadFile(logPath)
		if os.IsNotExist(err) {
			return
		}
		require.NoError(tb, err)

		for _, line := range strings.Split(string(content), "\n") {
			if strings.HasPrefix(line, prefix) {
				tb.Errorf("expected nothing starting with %q to have been invoked, got %q", prefix, line)
			}
		}
	}
}
