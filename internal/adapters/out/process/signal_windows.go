package process

import (
	"fmt"
	"os"

	"github.com/bnema/rbwchain/internal/domain"
)

var trappedSignals = []os.Signal{os.Interrupt}

// forwarded is always false: os.Process.Signal cannot deliver an interrupt
// on windows, and the console already sends it to the child.
func forwarded(os.Signal) bool {
	return false
}

func outcomeFromState(state *os.ProcessState) domain.ChildOutcome {
	return domain.Exited(state.ExitCode())
}

// SignalName returns a generic name; windows has no signal numbers.
func SignalName(sig int) string {
	return fmt.Sprintf("signal %d", sig)
}

func describe(o domain.ChildOutcome) string {
	return o.String()
}
