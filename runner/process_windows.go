//go:build windows

package runner

import (
	"os"
	"os/exec"
)

// setupSysProcAttr is a no-op on Windows: there is no POSIX process-group
// concept to opt into here (spec.md §4.2's shell fallback already branches
// on GOOS for the same reason).
func setupSysProcAttr(cmd *exec.Cmd) {}

// killProcessGroup falls back to killing just the one process; Windows
// job objects would be the full equivalent but are out of scope here.
func killProcessGroup(proc *os.Process, sig os.Signal) error {
	if proc == nil {
		return nil
	}
	return proc.Kill()
}

// defaultKillSignal is the signal Kill(nil) normalizes to.
func defaultKillSignal() os.Signal { return os.Kill }

// signalExitCode maps sig to the POSIX exit code spec.md §6 would have a
// real shell report. Windows has no syscall.Signal to switch on, so this
// only distinguishes the two os.Signal values this package ever passes to
// Kill (os.Interrupt and os.Kill).
func signalExitCode(sig os.Signal) int {
	switch sig {
	case os.Interrupt:
		return 130
	case os.Kill:
		return 137
	default:
		return 1
	}
}
