// Package cli implements the CLI adapter for rbwchain.
// The root command parses the command line and delegates to the app layer.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bnema/rbwchain/internal/app"
	"github.com/bnema/rbwchain/internal/domain"
	"github.com/bnema/rbwchain/pkg/logger"
	"github.com/bnema/rbwchain/pkg/version"
)

const usageHint = "Run 'rbwchain --help' for usage."

// runFunc executes one parsed invocation.
type runFunc func(ctx context.Context, opts app.Options) domain.ExitDecision

// invocation is a parsed command line.
type invocation struct {
	opts        app.Options
	showHelp    bool
	showVersion bool
}

// rootCommand couples the cobra command with the exit code of its last run.
type rootCommand struct {
	cmd    *cobra.Command
	run    runFunc
	stderr io.Writer
	code   int
}

// newRootCommand creates the root command for the rbwchain CLI.
func newRootCommand(run runFunc, stderr io.Writer) *rootCommand {
	rc := &rootCommand{run: run, stderr: stderr}

	rc.cmd = &cobra.Command{
		Use:   "rbwchain <SECRET_NOTE> [flags] <COMMAND> [ARGS...]",
		Short: "Run a command with a Bitwarden note from rbw in its environment",
		Long: `rbwchain fetches a secure note with 'rbw get' and runs COMMAND with it.

By default the note is read as KEY=VALUE lines, one per line, and each pair is
added to the command's environment. Blank lines and lines starting with '#'
are ignored.

With --file, the note is written unchanged to a private temporary file instead,
and the file's path is exported in the given variable. The file is removed as
soon as the command exits, whatever the outcome.

The exit code is the command's own, or 128+N when it is killed by signal N.`,
		Example: `  rbwchain my-app-env npm start
  rbwchain kube-prod -f KUBECONFIG kubectl get pods
  rbwchain -d aws-creds -- aws s3 ls --recursive`,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE:               rc.runE,
	}

	flags := rc.cmd.Flags()
	flags.StringP("file", "f", "", "write the note to a temporary file and export its path as `ENV_VAR_NAME`")
	flags.BoolP("debug", "d", false, "print debug messages to stderr")
	flags.String("config", "", "path to a config file (default $XDG_CONFIG_HOME/rbwchain/config.toml)")
	flags.BoolP("version", "V", false, "print version information and exit")
	flags.BoolP("help", "h", false, "show help")

	return rc
}

func (rc *rootCommand) runE(cmd *cobra.Command, args []string) error {
	inv, err := parseInvocation(cmd.Flags(), args)
	if err != nil {
		return err
	}

	switch {
	case inv.showHelp:
		return cmd.Help()
	case inv.showVersion:
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String("rbwchain"))
		return err
	}

	inv.opts.Stderr = rc.stderr
	rc.code = rc.run(cmd.Context(), inv.opts).Code
	return nil
}

// execute runs the command line and returns the process exit code.
func (rc *rootCommand) execute(ctx context.Context, args []string) int {
	rc.cmd.SetArgs(args)
	if err := rc.cmd.ExecuteContext(ctx); err != nil {
		logger.New(rc.stderr, logger.Options{}).Error(err.Error())
		fmt.Fprintln(rc.stderr, usageHint)
		return domain.DecisionFromError(err).Code
	}
	return rc.code
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute(ctx context.Context) int {
	return newRootCommand(app.Run, os.Stderr).execute(ctx, os.Args[1:])
}

// parseInvocation parses args into options. Flags are accepted anywhere
// before COMMAND; COMMAND and everything after it is passed through as is.
func parseInvocation(flags *pflag.FlagSet, args []string) (invocation, error) {
	var inv invocation

	head, tail := splitArgs(flags, args)
	if err := flags.Parse(head); err != nil {
		return inv, fmt.Errorf("%w: %v", domain.ErrUsage, err)
	}

	inv.showHelp, _ = flags.GetBool("help")
	inv.showVersion, _ = flags.GetBool("version")
	if inv.showHelp || inv.showVersion {
		return inv, nil
	}

	positional := flags.Args()
	switch {
	case len(positional) == 0:
		return inv, fmt.Errorf("%w: missing required argument SECRET_NOTE", domain.ErrUsage)
	case len(positional) > 1:
		return inv, fmt.Errorf("%w: unexpected argument %q", domain.ErrUsage, positional[1])
	case len(tail) == 0:
		return inv, fmt.Errorf("%w: missing required argument COMMAND", domain.ErrUsage)
	}

	inv.opts.NoteID = positional[0]
	inv.opts.Command = tail[0]
	inv.opts.Args = tail[1:]
	inv.opts.Debug, _ = flags.GetBool("debug")
	inv.opts.ConfigPath, _ = flags.GetString("config")

	inv.opts.Mode = domain.InlineEnvMode()
	if flags.Changed("file") {
		// Validated later, before anything is fetched.
		target, _ := flags.GetString("file")
		inv.opts.Mode = domain.DeliveryMode{Kind: domain.DeliveryTempFile, TargetVar: target}
	}

	return inv, nil
}

// splitArgs separates the rbwchain part of the command line from COMMAND.
// The first positional argument is the note, the second starts COMMAND.
// "--" ends option parsing: the argument after it is the note if none was
// seen yet, and what follows is COMMAND.
func splitArgs(flags *pflag.FlagSet, args []string) (head, tail []string) {
	haveNote := false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			end := i + 1
			if !haveNote && end < len(args) {
				end++
			}
			return slices.Clone(args[:end]), slices.Clone(args[end:])
		case len(arg) > 1 && arg[0] == '-':
			if needsValue(flags, arg) {
				i++
			}
		case haveNote:
			return slices.Clone(args[:i]), slices.Clone(args[i:])
		default:
			haveNote = true
		}
	}

	return slices.Clone(args), nil
}

// needsValue reports whether a flag argument takes its value from the next
// argument, as in "-f VAR", "--file VAR" or "-df VAR".
func needsValue(flags *pflag.FlagSet, arg string) bool {
	if name, ok := strings.CutPrefix(arg, "--"); ok {
		if strings.Contains(name, "=") {
			return false
		}
		f := flags.Lookup(name)
		return f != nil && f.NoOptDefVal == ""
	}

	shorthands := arg[1:]
	for i := 0; i < len(shorthands); i++ {
		f := flags.ShorthandLookup(shorthands[i : i+1])
		if f == nil {
			return false
		}
		if f.NoOptDefVal == "" {
			// The value is the rest of this argument, or the next one.
			return i == len(shorthands)-1
		}
	}
	return false
}
