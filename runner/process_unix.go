//go:build !windows

package runner

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setupSysProcAttr puts the child in its own process group (pgid == its
// own pid) so Kill can signal the whole group — the spawned process and
// any of its own descendants — in one syscall, rather than only the
// directly-spawned process. Each spawned child, including each stage of an
// in-process pipeline, gets a group of its own (spec.md §4.6's "kill must reach
// the whole process tree this invocation started").
func setupSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup signals proc's process group. sig defaults to SIGTERM.
func killProcessGroup(proc *os.Process, sig os.Signal) error {
	if proc == nil {
		return nil
	}
	s, ok := sig.(syscall.Signal)
	if !ok {
		s = syscall.SIGTERM
	}
	return unix.Kill(-proc.Pid, s)
}

// defaultKillSignal is the signal Kill(nil) normalizes to.
func defaultKillSignal() os.Signal { return syscall.SIGTERM }

// signalExitCode maps sig to the POSIX exit code a shell reports for a
// process killed by that signal (spec.md §6: "INT -> 130, TERM -> 143,
// KILL -> 137, any other signal -> 1").
func signalExitCode(sig os.Signal) int {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return 1
	}
	switch s {
	case syscall.SIGINT:
		return 130
	case syscall.SIGTERM:
		return 143
	case syscall.SIGKILL:
		return 137
	default:
		return 1
	}
}
