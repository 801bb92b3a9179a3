// Package build runs the external toolchain stages: the cargo release
// build, the docker image build, and the optional archive export. Every
// process spawn goes through the Runner seam so stages are testable
// without a live toolchain.
package build

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Command describes one external process invocation.
type Command struct {
	Dir    string
	Name   string
	Args   []string
	Stdout io.Writer // defaults to os.Stdout
	Stderr io.Writer // defaults to os.Stderr
}

func (c Command) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner launches a process and blocks until it exits. A non-zero exit
// comes back as the error from Run; callers classify it per stage.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands with os/exec, streaming output through.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, cmd Command) error {
	log.Debug().Str("dir", cmd.Dir).Msgf("exec: %s", cmd)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = os.Stdin
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	return c.Run()
}

// exitStatus extracts the process exit code from a Run error, or -1 when
// the process never launched.
func exitStatus(err error) int {
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ee.ExitCode()
	}
	return -1
}
