// Package out defines output ports (interfaces) for infrastructure.
// These interfaces define the contract between use cases and driven adapters
// (vault CLI, filesystem, child processes).
package out

import (
	"context"

	"github.com/bnema/rbwchain/internal/domain"
)

// ProcessSpec describes the child to launch.
type ProcessSpec struct {
	Command string
	Args    []string
	// Env is the complete child environment; nothing is inherited implicitly.
	Env []string
}

// ProcessRunner starts a child process with inherited stdio and waits for it.
type ProcessRunner interface {
	// Run blocks until the child terminates. A start failure is returned as
	// *domain.SpawnError; a started child always yields an outcome.
	Run(ctx context.Context, spec ProcessSpec) (domain.ChildOutcome, error)
}
