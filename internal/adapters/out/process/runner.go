// Package process runs the child command with inherited stdio and relays how
// it terminated.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"

	"github.com/charmbracelet/log"

	"github.com/bnema/rbwchain/internal/boundaries/out"
	"github.com/bnema/rbwchain/internal/domain"
)

// Runner implements the ProcessRunner interface with os/exec.
type Runner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithStdio replaces the streams handed to the child. The defaults are this
// process's own stdin, stdout and stderr, passed through without copying.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// NewRunner creates a runner.
func NewRunner(log *log.Logger, opts ...Option) *Runner {
	r := &Runner{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts the command and blocks until it terminates. No deadline is
// applied and ctx cancellation does not kill the child: termination signals
// received meanwhile are trapped so this process outlives the child, and
// forwardable ones are passed on to it.
func (r *Runner) Run(_ context.Context, spec out.ProcessSpec) (domain.ChildOutcome, error) {
	cmd := exec.Command(spec.Command, spec.Args...)
	cmd.Env = spec.Env
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, trappedSignals...)
	defer signal.Stop(signals)

	if err := cmd.Start(); err != nil {
		return domain.ChildOutcome{}, spawnError(spec.Command, err)
	}

	r.log.Debug("started command", "command", spec.Command, "pid", cmd.Process.Pid)

	done := make(chan struct{})
	go r.forwardSignals(cmd.Process, signals, done)

	waitErr := cmd.Wait()
	close(done)

	if cmd.ProcessState == nil {
		return domain.ChildOutcome{}, fmt.Errorf("failed to wait for command '%s': %w", spec.Command, waitErr)
	}

	outcome := outcomeFromState(cmd.ProcessState)
	r.log.Debug("command finished", "command", spec.Command, "status", describe(outcome))

	return outcome, nil
}

// forwardSignals relays trapped signals to the child until done is closed.
func (r *Runner) forwardSignals(p *os.Process, signals <-chan os.Signal, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case sig := <-signals:
			if !forwarded(sig) {
				r.log.Debug("received signal, waiting for command to exit", "signal", sig)
				continue
			}
			r.log.Debug("forwarding signal to command", "signal", sig, "pid", p.Pid)
			if err := p.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
				r.log.Warn("failed to forward signal to command", "signal", sig, "err", err)
			}
		}
	}
}

// spawnError classifies a start failure. Codes follow shell conventions:
// 127 when the command cannot be found, 126 when it cannot be executed.
func spawnError(command string, err error) *domain.SpawnError {
	code := domain.ExitCodeCannotExecute
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, exec.ErrDot) || errors.Is(err, fs.ErrNotExist) {
		code = domain.ExitCodeNotFound
	}
	return &domain.SpawnError{Command: command, Code: code, Err: err}
}
