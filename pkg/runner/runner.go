// Package runner executes journalctl queries and returns their output.
//
// A Runner is an opaque text producer: it receives the journalctl argument
// list and returns stdout on success. The journal decoders never see how
// the query was executed.
package runner

import (
	"context"
	"fmt"
	"strings"
)

// Runner runs one journalctl query.
type Runner interface {
	// Run executes journalctl with args and returns its standard output.
	// It returns an *InvocationError when the query could not be started
	// and an *ExitError when it ran but exited unsuccessfully.
	Run(ctx context.Context, args []string) (string, error)
}

// InvocationError means the query could not be started at all.
type InvocationError struct {
	Command string
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("running %s: %v", e.Command, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// ExitError means the query ran but exited with a non-zero status.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.ExitCode, stderr)
}
