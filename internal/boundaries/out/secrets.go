package out

import (
	"context"

	"github.com/bnema/rbwchain/internal/domain"
)

// SecretProvider defines the contract for fetching notes from a vault CLI.
type SecretProvider interface {
	// Tool returns the executable name the provider invokes (e.g., "rbw").
	Tool() string

	// Fetch retrieves a note by identifier. Exactly one tool invocation per call.
	Fetch(ctx context.Context, noteID string) (domain.SecretNote, error)
}

// ToolResolver checks that an executable can be found before it is used.
type ToolResolver interface {
	// Verify resolves name on the search path and returns its location.
	Verify(name string) (string, error)
}
