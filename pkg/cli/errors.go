package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitOK = 0
	// ExitFindings means an analysis found errors, or warnings in strict mode.
	ExitFindings = 1
	// ExitUsage means a file could not be loaded or the command was misused.
	ExitUsage = 2
)

// ErrFindings is returned when analyzed configurations fail the run.
var ErrFindings = errors.New("analysis reported failing diagnostics")

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Code    int
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError wraps err with ExitUsage.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Code: ExitUsage, Err: err}
}

// NewFindingsError reports that command completed but the analysis failed.
func NewFindingsError(command string) *CommandError {
	return &CommandError{Command: command, Code: ExitFindings, Err: ErrFindings}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code != 0 {
		return cmdErr.Code
	}
	return ExitUsage
}
