package runner

import (
	"context"
	"io"
	"os"

	"github.com/opal-lang/cmdstream/core/ast"
	"golang.org/x/term"
)

// allStdTTY reports whether the parent's stdin, stdout, and stderr are all
// attached to a terminal (spec.md §4.1 step 1's interactive-mode gate:
// "iff all three standard streams of the parent are ttys AND
// interactive=true").
func allStdTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd())) &&
		term.IsTerminal(int(os.Stderr.Fd()))
}

// runInteractive implements spec.md §4.1 step 1: the child inherits all
// three parent standard streams directly and no pumping, capture, or
// mirroring occurs at all — distinct from the raw-mode ETX-interception
// forwarding inheritStdin provides for a non-interactive tty parent
// (spec.md step 4). Only applies to a single real command; a virtual
// command has no OS-level stdio to hand the terminal to, so it falls back
// to the ordinary pumped path.
func (r *Runner) runInteractive(ctx context.Context, node *ast.Simple) (int, bool, error) {
	if len(node.Redirects) > 0 {
		return 0, false, nil
	}
	argv := wordValues(node.Argv)
	if len(argv) == 0 || argv[0] == "cd" {
		return 0, false, nil
	}
	if _, ok := r.reg.Lookup(argv[0]); ok {
		return 0, false, nil
	}

	r.stdinLazy.Close()
	r.stdoutLazy.Close()
	r.stderrLazy.Close()

	code, err := runArgvInherit(ctx, argv, r.opts.Cwd, r.opts.Env, func(p *os.Process) {
		r.mu.Lock()
		r.process = p
		r.mu.Unlock()
	})
	code, err = r.remapSignalExit(code, err)
	return code, true, err
}

// inheritedStdin marks a reader produced by the default stdin:"inherit"
// case: the parent's real, possibly open-ended stdin (a tty or an
// inherited pipe neither the caller nor the command explicitly opted
// into). runSimpleLeaf checks for this marker before eagerly draining
// stdin for a virtual-command Call — a virtual handler that never asked
// for stdin must not block forever waiting for the parent's terminal to
// close, unlike an explicit StdinBytes/StdinPipe request or a prior
// pipeline stage's output, which are always bounded or caller-controlled.
type inheritedStdin struct{ io.Reader }

// inheritStdin implements spec.md §4.1 step 4's `stdin:"inherit"` rule: on
// a piped parent, pump parent stdin into the child; on a tty parent,
// forward keystrokes in raw mode and intercept ETX (Ctrl-C) as a Kill
// instead of letting it reach the child's tty driver.
func (r *Runner) inheritStdin() io.Reader {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return r.pumpParentStdin()
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return r.pumpParentStdin()
	}

	pr, pw := io.Pipe()
	r.stdinLazy.Resolve(io.Writer(pw))

	go func() {
		defer func() {
			_ = term.Restore(fd, oldState)
			_ = pw.Close()
		}()
		buf := make([]byte, 1)
		for {
			n, readErr := os.Stdin.Read(buf)
			if n > 0 {
				if buf[0] == 0x03 {
					_ = r.Kill(os.Interrupt)
					return
				}
				if _, werr := pw.Write(buf[:n]); werr != nil {
					return
				}
			}
			if readErr != nil {
				return
			}
		}
	}()
	return inheritedStdin{pr}
}

// pumpParentStdin copies the parent's (non-tty) stdin into the child
// until EOF, the spec.md §4.1 step 4 "inherit on a piped parent" case.
func (r *Runner) pumpParentStdin() io.Reader {
	pr, pw := io.Pipe()
	r.stdinLazy.Resolve(io.Writer(pw))
	go func() {
		_, _ = io.Copy(pw, os.Stdin)
		_ = pw.Close()
	}()
	return inheritedStdin{pr}
}
