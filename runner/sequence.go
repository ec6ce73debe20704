package runner

import (
	"context"
	"io"
	"os"

	"github.com/opal-lang/cmdstream/core/ast"
	"github.com/opal-lang/cmdstream/core/invariant"
	"github.com/opal-lang/cmdstream/shellopt"
)

// runSequence runs commands joined by `;`/`&&`/`||` in order, tracking
// the previous exit code to decide whether to run the next command —
// the same sequential-iteration-with-lastCode shape as the teacher's
// tree_runner.go block executor, generalized to three joiners instead of
// always-run.
func (r *Runner) runSequence(ctx context.Context, seq *ast.Sequence, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	invariant.Precondition(len(seq.Commands) > 0, "sequence must have at least one command")
	invariant.Precondition(len(seq.Operators) == len(seq.Commands)-1, "sequence operators must be one shorter than commands")

	var lastCode int
	var lastErr error

	for i, cmd := range seq.Commands {
		if i > 0 {
			switch seq.Operators[i-1] {
			case ast.OpAnd:
				if lastCode != 0 {
					continue
				}
			case ast.OpOr:
				if lastCode == 0 {
					continue
				}
			case ast.OpSemi:
				// always runs
			}
		}

		lastCode, lastErr = r.runNode(ctx, cmd, stdin, stdout, stderr)
		if lastErr != nil && shellopt.IsErrexit() {
			return lastCode, lastErr
		}
	}
	return lastCode, lastErr
}

// runSubshell runs Body with a cwd that reverts once Body finishes,
// regardless of any `cd` it ran (spec.md §4.5: "cwd changes inside a
// subshell must not leak to the parent").
func (r *Runner) runSubshell(ctx context.Context, sub *ast.Subshell, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	r.mu.Lock()
	saved := r.opts.Cwd
	r.mu.Unlock()
	if saved == "" {
		if wd, err := os.Getwd(); err == nil {
			saved = wd
		} else {
			saved = "/"
		}
	}

	defer func() {
		r.mu.Lock()
		r.opts.Cwd = restoreCwd(saved)
		r.mu.Unlock()
	}()

	return r.runNode(ctx, sub.Body, stdin, stdout, stderr)
}

// restoreCwd implements spec.md §4.5's subshell-restore fallback: if the
// directory saved before entering the subshell no longer exists (the body
// may have deleted it), fall back to the user's home directory, then to
// the filesystem root — the process must never be left in a directory
// that cannot be stat'd.
func restoreCwd(saved string) string {
	if info, err := os.Stat(saved); err == nil && info.IsDir() {
		return saved
	}
	if home, err := os.UserHomeDir(); err == nil {
		if info, err := os.Stat(home); err == nil && info.IsDir() {
			return home
		}
	}
	return "/"
}
