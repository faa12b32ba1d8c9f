package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	// Adapters - Output
	"github.com/bnema/rbwchain/internal/adapters/out/process"
	"github.com/bnema/rbwchain/internal/adapters/out/secretfile"
	"github.com/bnema/rbwchain/internal/adapters/out/secrets"
	"github.com/bnema/rbwchain/internal/adapters/out/toolpath"

	// Boundaries
	"github.com/bnema/rbwchain/internal/boundaries/in"

	// Domain
	"github.com/bnema/rbwchain/internal/domain"

	// Use cases
	"github.com/bnema/rbwchain/internal/usecase/chain"
	"github.com/bnema/rbwchain/internal/usecase/supervisor"

	// Pkg
	"github.com/bnema/rbwchain/pkg/logger"
	"github.com/bnema/rbwchain/pkg/version"
)

// Options is one parsed command line.
type Options struct {
	NoteID     string
	Mode       domain.DeliveryMode
	Command    string
	Args       []string
	Debug      bool
	ConfigPath string

	// Stderr receives diagnostics. Defaults to os.Stderr.
	Stderr io.Writer
}

// Run loads the configuration, wires the adapters and executes one chain.
// The returned decision always carries the code the process should exit with.
func Run(ctx context.Context, opts Options) domain.ExitDecision {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	cfg, err := initConfig(opts.ConfigPath)
	if err != nil {
		l := logger.New(stderr, logger.Options{Debug: opts.Debug})
		return report(l.Logger, domain.DecisionFromError(err))
	}

	l := initLogger(stderr, cfg, opts.Debug)
	l.Debug("configuration loaded",
		"tool", cfg.Tool.Name,
		"tool_args", cfg.Tool.Args,
		"tempfile_dir", cfg.TempFile.Dir,
		"version", version.Semver(),
	)

	svc, err := createServices(cfg, l)
	if err != nil {
		return report(l, domain.DecisionFromError(err))
	}

	// Interrupts before the child starts abort the run; once it is running
	// the process runner takes over signal handling.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	decision := svc.Execute(ctx, in.ChainRequest{
		NoteID:  opts.NoteID,
		Mode:    opts.Mode,
		Command: opts.Command,
		Args:    opts.Args,
		Debug:   cfg.Debug || opts.Debug,
	})

	return report(l, decision)
}

// initLogger builds the stderr logger. The debug flag or debug setting wins
// over logging.level.
func initLogger(w io.Writer, cfg Config, debug bool) *log.Logger {
	return logger.New(w, logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Debug:  debug || cfg.Debug,
	}).Logger
}

// createServices wires the output adapters into the use cases.
func createServices(cfg Config, log *log.Logger) (*chain.Service, error) {
	timeout, err := cfg.ToolTimeout()
	if err != nil {
		return nil, err
	}

	provider := secrets.NewRbwProvider(log,
		secrets.WithTool(cfg.Tool.Name),
		secrets.WithArgs(cfg.Tool.Args...),
		secrets.WithTimeout(timeout),
	)
	files := secretfile.NewWriter(log,
		secretfile.WithDir(cfg.TempFile.Dir),
		secretfile.WithPattern(cfg.TempFile.Pattern),
	)
	runner := process.NewRunner(log)
	sup := supervisor.NewService(runner, version.Semver(), log)

	return chain.NewService(toolpath.NewResolver(log), provider, files, sup, log), nil
}

// report logs failures of the tool itself. Child outcomes are not reported:
// the child already spoke for itself on its own streams.
func report(log *log.Logger, d domain.ExitDecision) domain.ExitDecision {
	if d.IsChild() {
		if d.Outcome != nil && d.Outcome.Kind == domain.OutcomeSignaled {
			log.Debug("command terminated by signal", "signal", process.SignalName(d.Outcome.Signal), "code", d.Code)
		}
		return d
	}
	log.Error(d.Err.Error())
	return d
}
