package command

import (
	"os"
	"os/exec"
)

func run(c *exec.Cmd) (int, error) {
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return exitCode(c.Run())
}
