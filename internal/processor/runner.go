package processor

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// Runner executes a rendered command line.
type Runner interface {
	Run(ctx context.Context, command string) error
}

// ShellRunner runs commands through a POSIX shell, the way system(3) does.
type ShellRunner struct {
	Shell  string
	Stdout io.Writer
	Stderr io.Writer
}

// NewShellRunner returns a runner using /bin/sh and the process's own
// standard output and error.
func NewShellRunner() *ShellRunner {
	return &ShellRunner{
		Shell:  "/bin/sh",
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run implements Runner.
func (r *ShellRunner) Run(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, r.Shell, "-c", command)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	return cmd.Run()
}
