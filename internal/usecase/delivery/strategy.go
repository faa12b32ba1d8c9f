// Package delivery implements the strategies that turn a note into child
// environment assignments.
package delivery

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/bnema/rbwchain/internal/boundaries/out"
	"github.com/bnema/rbwchain/internal/domain"
)

// Result is what a strategy hands to the supervisor.
type Result struct {
	// Env overrides applied on top of the inherited environment.
	Env domain.Assignments
	// Artifact is non-nil only for file delivery. Ownership passes to the
	// caller, which must release it.
	Artifact out.Artifact
}

// Strategy delivers a note.
type Strategy interface {
	Mode() domain.DeliveryMode
	Deliver(ctx context.Context, note domain.SecretNote) (Result, error)
}

// NewStrategy returns the strategy for mode. The mode is validated here, so a
// bad file variable name fails before any I/O happens.
func NewStrategy(mode domain.DeliveryMode, files out.SecretFileWriter, log *log.Logger) (Strategy, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	switch mode.Kind {
	case domain.DeliveryTempFile:
		return &TempFile{targetVar: mode.TargetVar, files: files, log: log}, nil
	default:
		return &InlineEnv{log: log}, nil
	}
}

// InlineEnv parses the note as KEY=VALUE lines.
type InlineEnv struct {
	log *log.Logger
}

func (s *InlineEnv) Mode() domain.DeliveryMode {
	return domain.InlineEnvMode()
}

// Deliver never fails: malformed lines are skipped and logged.
func (s *InlineEnv) Deliver(_ context.Context, note domain.SecretNote) (Result, error) {
	vars, warnings := domain.ParseEnvContent(note.Content)

	for _, w := range warnings {
		s.log.Warn(w.Reason, "note", note.ID, "line", w.Line)
	}
	if vars.Len() == 0 && !note.IsBlank() {
		s.log.Warn("no valid KEY=VALUE pairs found in secret note", "note", note.ID)
	}

	s.log.Debug("parsed environment variables", "count", vars.Len(), "keys", vars.Keys())

	return Result{Env: vars}, nil
}

// TempFile writes the raw note to a private file and exports its path.
type TempFile struct {
	targetVar string
	files     out.SecretFileWriter
	log       *log.Logger
}

func (s *TempFile) Mode() domain.DeliveryMode {
	return domain.DeliveryMode{Kind: domain.DeliveryTempFile, TargetVar: s.targetVar}
}

// Deliver materializes the note. On error nothing is left on disk.
func (s *TempFile) Deliver(_ context.Context, note domain.SecretNote) (Result, error) {
	artifact, err := s.files.Write(note.Content)
	if err != nil {
		return Result{}, err
	}

	s.log.Debug("prepared file variable", "var", s.targetVar, "path", artifact.Path())

	return Result{
		Env:      domain.NewAssignments(domain.EnvAssignment{Key: s.targetVar, Value: artifact.Path()}),
		Artifact: artifact,
	}, nil
}
