// Package toolpath checks that external tools can be found before they are run.
package toolpath

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bnema/rbwchain/internal/domain"
)

// Resolver looks tools up on PATH.
type Resolver struct {
	lookPath func(string) (string, error)
	log      *log.Logger
}

// NewResolver creates a PATH resolver.
func NewResolver(log *log.Logger) *Resolver {
	return &Resolver{lookPath: exec.LookPath, log: log}
}

// Verify returns the resolved location of name. It has no side effects
// beyond reading the filesystem.
func (r *Resolver) Verify(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty tool name", domain.ErrDependencyMissing)
	}

	path, err := r.lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: the '%s' command was not found in your system's PATH: %v", domain.ErrDependencyMissing, name, err)
	}

	r.log.Debug("resolved tool", "tool", name, "path", path)
	return path, nil
}
