package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent the failure categories of a chain run.
// Callers classify them with errors.Is; typed errors below unwrap to them.
var (
	// Precheck errors
	ErrDependencyMissing = errors.New("required tool not found in PATH")

	// Fetch errors
	ErrEmptyNoteID  = errors.New("secret note identifier cannot be empty")
	ErrToolNotFound = errors.New("secret manager tool could not be executed")
	ErrToolFailed   = errors.New("secret manager tool failed")

	// Materialize errors
	ErrEmptyVariableName   = errors.New("environment variable name for file mode is empty")
	ErrInvalidVariableName = errors.New("environment variable name for file mode is invalid")
	ErrWriteFailed         = errors.New("failed to write secret file")

	// Supervisor errors
	ErrSpawnFailed = errors.New("failed to start command")
	ErrInterrupted = errors.New("interrupted before command start")

	// Usage errors
	ErrUsage = errors.New("invalid usage")
)

// ToolError describes a secret manager invocation that ran but did not
// produce usable output.
type ToolError struct {
	// Command is the invocation as shown to the user, e.g. "rbw get db".
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "command '%s' failed", e.Command)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " with exit status %d", e.ExitCode)
	}
	if e.Stderr != "" {
		fmt.Fprintf(&b, ": %s", e.Stderr)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the category and the underlying cause.
func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrToolFailed}
	}
	return []error{ErrToolFailed, e.Err}
}

// SpawnError is returned when the child command could not be started.
// Code is the exit status this process reports for it.
type SpawnError struct {
	Command string
	Code    int
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to execute command '%s': %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() []error {
	return []error{ErrSpawnFailed, e.Err}
}
