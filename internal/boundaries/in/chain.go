// Package in defines input ports (use case interfaces) driven by adapters.
package in

import (
	"context"

	"github.com/bnema/rbwchain/internal/domain"
)

// ChainRequest is one invocation of the tool.
type ChainRequest struct {
	NoteID  string
	Mode    domain.DeliveryMode
	Command string
	Args    []string
	Debug   bool
}

// ChainService runs a command with a note delivered into its environment.
type ChainService interface {
	// Execute runs the whole pipeline and never returns without an exit
	// decision. Any secret file it created is gone by the time it returns.
	Execute(ctx context.Context, req ChainRequest) domain.ExitDecision
}
