package supervisor_test

import (
	"os"
	"sync"
	"testing"

	"github.com/opal-lang/cmdstream/supervisor"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	mu      sync.Mutex
	killed  []os.Signal
	killErr error
}

func (f *fakeRunner) Kill(sig os.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.killed = append(f.killed, sig)
	return f.killErr
}

func (f *fakeRunner) killCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.killed)
}

func TestRegisterIncrementsActiveCount(t *testing.T) {
	before := supervisor.Active()

	r := &fakeRunner{}
	unregister := supervisor.Register(r)
	require.Equal(t, before+1, supervisor.Active())

	unregister()
	require.Equal(t, before, supervisor.Active())
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := &fakeRunner{}
	unregister := supervisor.Register(r)
	unregister()
	unregister()
}

func TestCancelAllKillsEveryActiveRunner(t *testing.T) {
	r1, r2 := &fakeRunner{}, &fakeRunner{}
	u1 := supervisor.Register(r1)
	u2 := supervisor.Register(r2)
	defer u1()
	defer u2()

	supervisor.CancelAll()

	require.Equal(t, 1, r1.killCount())
	require.Equal(t, 1, r2.killCount())
}
