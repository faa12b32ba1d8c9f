package domain

import (
	"errors"
	"fmt"
)

// Exit codes this tool reports for its own failures.
const (
	ExitCodeFailure       = 1
	ExitCodeCannotExecute = 126
	ExitCodeNotFound      = 127
	ExitCodeSignalBase    = 128
)

// OutcomeKind tells how the child terminated.
type OutcomeKind int

const (
	OutcomeExited OutcomeKind = iota
	OutcomeSignaled
)

// ChildOutcome is the termination result of the child process.
type ChildOutcome struct {
	Kind   OutcomeKind
	Code   int
	Signal int
}

// Exited returns the outcome of a child that exited normally.
func Exited(code int) ChildOutcome {
	return ChildOutcome{Kind: OutcomeExited, Code: code}
}

// Signaled returns the outcome of a child killed by a signal.
func Signaled(signal int) ChildOutcome {
	return ChildOutcome{Kind: OutcomeSignaled, Signal: signal}
}

// ExitCode maps the outcome to a shell-style exit status.
func (o ChildOutcome) ExitCode() int {
	if o.Kind == OutcomeSignaled {
		return ExitCodeSignalBase + o.Signal
	}
	return o.Code
}

func (o ChildOutcome) String() string {
	if o.Kind == OutcomeSignaled {
		return fmt.Sprintf("terminated by signal %d", o.Signal)
	}
	return fmt.Sprintf("exited with code %d", o.Code)
}

// ExitCategory classifies an ExitDecision independently of its numeric code.
type ExitCategory int

const (
	CategoryChild ExitCategory = iota
	CategoryDependencyMissing
	CategoryFetchFailed
	CategoryMaterializeFailed
	CategorySpawnFailed
	CategoryInterrupted
	CategoryUsage
)

func (c ExitCategory) String() string {
	switch c {
	case CategoryChild:
		return "child"
	case CategoryDependencyMissing:
		return "dependency_missing"
	case CategoryFetchFailed:
		return "fetch_failed"
	case CategoryMaterializeFailed:
		return "materialize_failed"
	case CategorySpawnFailed:
		return "spawn_failed"
	case CategoryInterrupted:
		return "interrupted"
	case CategoryUsage:
		return "usage"
	default:
		return "unknown"
	}
}

// ExitDecision is the final status of a run.
// Outcome is set only for CategoryChild; Err only for the other categories.
type ExitDecision struct {
	Code     int
	Category ExitCategory
	Outcome  *ChildOutcome
	Err      error
}

// IsChild reports whether the code was relayed from the child.
func (d ExitDecision) IsChild() bool {
	return d.Category == CategoryChild
}

// DecisionFromOutcome relays a child outcome.
func DecisionFromOutcome(o ChildOutcome) ExitDecision {
	return ExitDecision{Code: o.ExitCode(), Category: CategoryChild, Outcome: &o}
}

// DecisionFromError classifies a failure of this tool.
func DecisionFromError(err error) ExitDecision {
	d := ExitDecision{Code: ExitCodeFailure, Err: err}

	var spawnErr *SpawnError
	switch {
	case errors.As(err, &spawnErr):
		d.Category = CategorySpawnFailed
		if spawnErr.Code != 0 {
			d.Code = spawnErr.Code
		}
	case errors.Is(err, ErrDependencyMissing):
		d.Category = CategoryDependencyMissing
	case errors.Is(err, ErrEmptyNoteID),
		errors.Is(err, ErrToolNotFound),
		errors.Is(err, ErrToolFailed):
		d.Category = CategoryFetchFailed
	case errors.Is(err, ErrEmptyVariableName),
		errors.Is(err, ErrInvalidVariableName),
		errors.Is(err, ErrWriteFailed):
		d.Category = CategoryMaterializeFailed
	case errors.Is(err, ErrInterrupted):
		d.Category = CategoryInterrupted
	default:
		d.Category = CategoryUsage
	}

	return d
}
