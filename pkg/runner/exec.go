package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// DefaultJournalctl is the journalctl binary looked up in PATH.
const DefaultJournalctl = "journalctl"

// Exec runs journalctl as a local child process.
type Exec struct {
	// Path is the journalctl binary. Empty means DefaultJournalctl.
	Path string

	// Sudo runs the query through `sudo -n` for access to the system journal.
	Sudo bool
}

// NewExec creates a local runner for the given journalctl path.
func NewExec(path string, sudo bool) *Exec {
	return &Exec{Path: path, Sudo: sudo}
}

// Run executes journalctl and returns its standard output.
func (r *Exec) Run(ctx context.Context, args []string) (string, error) {
	name, argv := r.command(args)

	cmd := exec.CommandContext(ctx, name, argv...) // #nosec G204 -- journalctl path comes from local config
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return "", &ExitError{
				Command:  r.path(),
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return "", &InvocationError{Command: r.path(), Err: err}
	}

	return stdout.String(), nil
}

func (r *Exec) path() string {
	if r.Path == "" {
		return DefaultJournalctl
	}
	return r.Path
}

// command returns the program and argument vector actually executed.
func (r *Exec) command(args []string) (string, []string) {
	if !r.Sudo {
		return r.path(), args
	}
	argv := make([]string, 0, len(args)+2)
	argv = append(argv, "-n", r.path())
	argv = append(argv, args...)
	return "sudo", argv
}
