//go:build !windows

package process

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/bnema/rbwchain/internal/domain"
)

// trappedSignals would otherwise terminate this process while the child runs.
var trappedSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGHUP,
	syscall.SIGQUIT,
}

// forwarded reports whether sig is relayed to the child. SIGINT and SIGQUIT
// typed at a terminal already reach the whole foreground process group.
func forwarded(sig os.Signal) bool {
	return sig == syscall.SIGTERM || sig == syscall.SIGHUP
}

func outcomeFromState(state *os.ProcessState) domain.ChildOutcome {
	if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return domain.Signaled(int(status.Signal()))
	}
	return domain.Exited(state.ExitCode())
}

// SignalName returns the conventional name of a signal number, e.g. SIGKILL.
func SignalName(sig int) string {
	if name := unix.SignalName(syscall.Signal(sig)); name != "" {
		return name
	}
	return fmt.Sprintf("signal %d", sig)
}

func describe(o domain.ChildOutcome) string {
	if o.Kind == domain.OutcomeSignaled {
		return fmt.Sprintf("terminated by %s (exiting with code %d)", SignalName(o.Signal), o.ExitCode())
	}
	return o.String()
}
