// Package secrets implements secret provider adapters.
package secrets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/bnema/rbwchain/internal/domain"
)

// DefaultTool is the vault CLI invoked when none is configured.
const DefaultTool = "rbw"

// DefaultArgs precede the note identifier on the command line.
var DefaultArgs = []string{"get"}

// RbwProvider implements the SecretProvider interface using the rbw Bitwarden CLI.
type RbwProvider struct {
	tool    string
	args    []string
	timeout time.Duration
	log     *log.Logger
}

// Option configures an RbwProvider.
type Option func(*RbwProvider)

// WithTool overrides the executable name or path.
func WithTool(tool string) Option {
	return func(p *RbwProvider) {
		if tool != "" {
			p.tool = tool
		}
	}
}

// WithArgs overrides the arguments placed before the note identifier.
func WithArgs(args ...string) Option {
	return func(p *RbwProvider) {
		p.args = append([]string(nil), args...)
	}
}

// WithTimeout bounds a single fetch. Zero means no deadline: rbw may wait on
// a pinentry prompt for as long as the user needs.
func WithTimeout(d time.Duration) Option {
	return func(p *RbwProvider) {
		p.timeout = d
	}
}

// NewRbwProvider creates a new rbw provider.
func NewRbwProvider(log *log.Logger, opts ...Option) *RbwProvider {
	p := &RbwProvider{
		tool: DefaultTool,
		args: DefaultArgs,
		log:  log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tool returns the executable the provider runs.
func (p *RbwProvider) Tool() string {
	return p.tool
}

// Fetch retrieves a note from rbw. The tool's stdout is the note content;
// its stderr is only used to describe failures.
func (p *RbwProvider) Fetch(ctx context.Context, noteID string) (domain.SecretNote, error) {
	if err := domain.ValidateNoteID(noteID); err != nil {
		return domain.SecretNote{}, err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := append(append([]string(nil), p.args...), noteID)
	cmd := exec.CommandContext(ctx, p.tool, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	p.log.Debug("fetching secret note", "tool", p.tool, "note", noteID)

	if err := cmd.Run(); err != nil {
		return domain.SecretNote{}, p.classify(ctx, args, err, stderr.String())
	}

	if !utf8.Valid(stdout.Bytes()) {
		return domain.SecretNote{}, &domain.ToolError{
			Command:  p.display(args),
			ExitCode: -1,
			Err:      errors.New("output is not valid UTF-8"),
		}
	}

	note := domain.NewSecretNote(noteID, stdout.String())

	p.log.Debug("successfully fetched secret note", "note", noteID, "bytes", len(note.Content))

	return note, nil
}

// classify maps a failed run to the fetch error taxonomy.
func (p *RbwProvider) classify(ctx context.Context, args []string, err error, stderr string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &domain.ToolError{Command: p.display(args), ExitCode: -1, Err: ctxErr}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &domain.ToolError{
			Command:  p.display(args),
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(stderr),
			Err:      err,
		}
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s: %v", domain.ErrToolNotFound, p.tool, err)
	}

	return &domain.ToolError{Command: p.display(args), ExitCode: -1, Err: err}
}

func (p *RbwProvider) display(args []string) string {
	return strings.Join(append([]string{p.tool}, args...), " ")
}
