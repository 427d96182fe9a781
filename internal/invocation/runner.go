package invocation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner executes assembled invocations against the external build
// system. The production implementation shells out to make; tests
// substitute a scripted runner.
type Runner interface {
	Run(ctx context.Context, inv Invocation) error
}

// ProcessError reports a simulator invocation that did not exit zero.
type ProcessError struct {
	// Target is the primary make target of the failed run.
	Target string

	// ExitCode is the process exit code, -1 when the process never ran.
	ExitCode int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ProcessError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("simulator target %s exited with code %d", e.Target, e.ExitCode)
	}
	return fmt.Sprintf("simulator target %s failed to start: %v", e.Target, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsProcessError returns true if the error is a simulator process
// failure. Uses errors.As to handle wrapped errors.
func IsProcessError(err error) bool {
	var pe *ProcessError
	return errors.As(err, &pe)
}

// MakeRunner launches the build system's run targets as blocking
// subprocesses. Exit code zero is the only success signal; there is no
// retry and no timeout beyond what the caller's context imposes.
type MakeRunner struct {
	// Dir is the working directory holding the simulation makefile.
	Dir string

	// Command overrides the build entry point. Defaults to "make".
	Command string

	// Stdout and Stderr receive the process output. Nil values inherit
	// the parent's streams so simulator output stays visible.
	Stdout io.Writer
	Stderr io.Writer
}

// Run launches the invocation and blocks until it exits.
// Returns nil on exit code zero and a *ProcessError otherwise.
func (r *MakeRunner) Run(ctx context.Context, inv Invocation) error {
	name := r.Command
	if name == "" {
		name = "make"
	}

	args := make([]string, 0, len(inv.Args)+1)
	args = append(args, inv.Target)
	args = append(args, inv.Args...)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ProcessError{Target: inv.Target, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return &ProcessError{Target: inv.Target, ExitCode: -1, Err: err}
	}

	return nil
}
