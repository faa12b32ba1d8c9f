// Package chain implements the end-to-end run: check the vault tool, fetch
// the note, deliver it, then supervise the command.
package chain

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/bnema/rbwchain/internal/boundaries/in"
	"github.com/bnema/rbwchain/internal/boundaries/out"
	"github.com/bnema/rbwchain/internal/domain"
	"github.com/bnema/rbwchain/internal/usecase/delivery"
	"github.com/bnema/rbwchain/internal/usecase/supervisor"
)

// Service implements the ChainService interface.
type Service struct {
	resolver   out.ToolResolver
	secrets    out.SecretProvider
	files      out.SecretFileWriter
	supervisor *supervisor.Service
	log        *log.Logger
}

var _ in.ChainService = (*Service)(nil)

// NewService creates a new chain service.
func NewService(
	resolver out.ToolResolver,
	secrets out.SecretProvider,
	files out.SecretFileWriter,
	supervisor *supervisor.Service,
	log *log.Logger,
) *Service {
	return &Service{
		resolver:   resolver,
		secrets:    secrets,
		files:      files,
		supervisor: supervisor,
		log:        log,
	}
}

// Execute runs the pipeline. Steps run strictly in order and the first
// failure stops the run; the command is only started once its secret is ready.
func (s *Service) Execute(ctx context.Context, req in.ChainRequest) domain.ExitDecision {
	log := s.log.With("note", req.NoteID)

	if err := domain.ValidateNoteID(req.NoteID); err != nil {
		return s.fail(log, "invalid note identifier", err)
	}

	strategy, err := delivery.NewStrategy(req.Mode, s.files, s.log)
	if err != nil {
		return s.fail(log, "invalid delivery mode", err)
	}

	tool := s.secrets.Tool()
	if _, err := s.resolver.Verify(tool); err != nil {
		return s.fail(log, "dependency check failed", err)
	}

	note, err := s.secrets.Fetch(ctx, req.NoteID)
	if err != nil {
		return s.fail(log, "failed to fetch secret note", interrupted(ctx, err))
	}
	log.Debug("fetched secret note", "bytes", len(note.Content), "mode", strategy.Mode().Kind)

	result, err := strategy.Deliver(ctx, note)
	if err != nil {
		return s.fail(log, "failed to deliver secret note", err)
	}

	decision := s.supervisor.Run(ctx, supervisor.Request{
		Command:   req.Command,
		Args:      req.Args,
		NoteID:    req.NoteID,
		Overrides: result.Env,
		Artifact:  result.Artifact,
		Debug:     req.Debug,
	})

	log.Debug("run finished", "code", decision.Code, "category", decision.Category)
	return decision
}

func (s *Service) fail(log *log.Logger, msg string, err error) domain.ExitDecision {
	decision := domain.DecisionFromError(err)
	log.Debug(msg, "category", decision.Category, "err", err)
	return decision
}

// interrupted reclassifies err when the run itself was cancelled, so a
// signal that killed the vault tool is not reported as a tool failure.
func interrupted(ctx context.Context, err error) error {
	if ctx.Err() == nil {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrInterrupted, err)
}
