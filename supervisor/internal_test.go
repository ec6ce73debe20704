package supervisor

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// waitingRunner is a killable that also satisfies waiter, so
// exitIfDrained's optional type assertion has something to wait on.
type waitingRunner struct {
	done chan struct{}
}

func (w *waitingRunner) Kill(sig os.Signal) error { return nil }
func (w *waitingRunner) Done() <-chan struct{}    { return w.done }

func TestExitIfDrainedExitsOnceEveryForwardedRunnerFinishes(t *testing.T) {
	var exitCode int
	old := osExit
	osExit = func(code int) { exitCode = code }
	defer func() { osExit = old }()

	r := &waitingRunner{done: make(chan struct{})}
	close(r.done)

	exitIfDrained([]killable{r})

	require.Equal(t, 130, exitCode)
}

func TestExitIfDrainedSkipsExitWhileARunnerIsStillActive(t *testing.T) {
	var exited bool
	old := osExit
	osExit = func(code int) { exited = true }
	defer func() { osExit = old }()

	r := &waitingRunner{done: make(chan struct{})}

	mu.Lock()
	active[r] = struct{}{}
	mu.Unlock()
	defer func() {
		mu.Lock()
		delete(active, r)
		mu.Unlock()
	}()

	close(r.done)
	exitIfDrained([]killable{r})

	require.False(t, exited)
}
