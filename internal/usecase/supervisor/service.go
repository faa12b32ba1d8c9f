// Package supervisor launches the child with its composed environment, waits
// for it, and owns the release of any secret file handed to the child.
package supervisor

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/bnema/rbwchain/internal/boundaries/out"
	"github.com/bnema/rbwchain/internal/domain"
)

// Variables always injected into the child.
const (
	EnvVersion    = "RBWCHAIN_VERSION"
	EnvSecretNote = "RBWCHAIN_SECRET_NOTE"
	EnvDebug      = "RBWCHAIN_DEBUG"
)

// Request is a single supervised run.
type Request struct {
	Command   string
	Args      []string
	NoteID    string
	Overrides domain.Assignments
	// Artifact, when set, is released before Run returns on every path.
	Artifact out.Artifact
	Debug    bool
}

// Service implements process supervision.
type Service struct {
	runner  out.ProcessRunner
	environ func() []string
	version string
	log     *log.Logger
}

// NewService creates a supervisor. version is exported as RBWCHAIN_VERSION.
func NewService(runner out.ProcessRunner, version string, log *log.Logger) *Service {
	return &Service{
		runner:  runner,
		environ: os.Environ,
		version: version,
		log:     log,
	}
}

// Run spawns the command, waits for it and maps its termination to an exit
// decision. The artifact release is deferred first so it also covers spawn
// failures, interruptions and panics.
func (s *Service) Run(ctx context.Context, req Request) domain.ExitDecision {
	if req.Artifact != nil {
		defer s.release(req.Artifact)
	}

	if err := ctx.Err(); err != nil {
		s.log.Debug("not starting command", "command", req.Command, "reason", err)
		return domain.DecisionFromError(fmt.Errorf("%w: %v", domain.ErrInterrupted, err))
	}

	env := s.ComposeEnv(req)
	s.log.Debug("executing command", "command", req.Command, "args", req.Args, "variables", req.Overrides.Keys())

	outcome, err := s.runner.Run(ctx, out.ProcessSpec{
		Command: req.Command,
		Args:    req.Args,
		Env:     env.Environ(),
	})
	if err != nil {
		return domain.DecisionFromError(err)
	}

	return domain.DecisionFromOutcome(outcome)
}

// ComposeEnv builds the child environment: the current process environment,
// then the bookkeeping variables, then the delivery overrides. Later entries
// win. The process's own environment is left untouched.
func (s *Service) ComposeEnv(req Request) domain.Assignments {
	bookkeeping := domain.NewAssignments(
		domain.EnvAssignment{Key: EnvVersion, Value: s.version},
		domain.EnvAssignment{Key: EnvSecretNote, Value: req.NoteID},
	)
	if req.Debug {
		bookkeeping.Set(EnvDebug, "1")
	}

	return domain.AssignmentsFromEnviron(s.environ()).
		Merge(bookkeeping).
		Merge(req.Overrides)
}

// release deletes the artifact. Failure is logged, never fatal.
func (s *Service) release(artifact out.Artifact) {
	if err := artifact.Release(); err != nil {
		s.log.Error("failed to remove temporary file", "path", artifact.Path(), "err", err)
		return
	}
	s.log.Debug("temporary file released", "path", artifact.Path())
}
