package runner

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/opal-lang/cmdstream/core/ast"
	"github.com/opal-lang/cmdstream/core/invariant"
	"github.com/opal-lang/cmdstream/registry"
)

func wordValues(words []ast.Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Value
	}
	return out
}

// runSimpleLeaf executes one Simple node: apply any `>`/`>>` redirects,
// then dispatch to a registered virtual command or spawn a real process
// (spec.md §4.3's "a virtual command participates in a pipeline exactly
// like a real process").
func (r *Runner) runSimpleLeaf(ctx context.Context, node *ast.Simple, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	argv := wordValues(node.Argv)
	invariant.Precondition(len(argv) > 0, "simple command has no argv")

	if argv[0] == "cd" {
		return r.runCd(argv)
	}

	out := stdout
	var toClose []*os.File
	defer func() {
		for _, f := range toClose {
			_ = f.Close()
		}
	}()
	for _, rd := range node.Redirects {
		flags := os.O_WRONLY | os.O_CREATE
		if rd.Mode == ast.RedirectAppend {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(rd.Path, flags, 0o644)
		if err != nil {
			return 1, err
		}
		toClose = append(toClose, f)
		out = f
	}

	name := argv[0]
	_, inherited := stdin.(inheritedStdin)
	if handler, ok := r.reg.Lookup(name); ok && !(registry.NeedsRealProcessForStdin[name] && stdin != nil && !inherited) {
		cancelCh, cancel := r.newCancel()
		defer cancel()

		call := registry.Call{
			Args:   argv[1:],
			Cwd:    r.opts.Cwd,
			Env:    r.opts.Env,
			Cancel: cancelCh,
		}
		if stdin != nil && !inherited {
			if data, err := io.ReadAll(stdin); err == nil {
				call.Stdin = data
			}
		}
		return r.runVirtual(handler, call, out, stderr)
	}

	code, err := runArgv(ctx, argv, r.opts.Cwd, r.opts.Env, stdin, out, stderr, func(p *os.Process) {
		r.mu.Lock()
		r.process = p
		r.mu.Unlock()
	})
	return r.remapSignalExit(code, err)
}

// runCd is the one builtin the mini parser's cwd model needs: changing
// directory must affect only this Runner's own Options.Cwd (so a
// Subshell's cd cannot leak to its parent, spec.md §4.5), which a real
// spawned `cd` process could never do since it would run in its own
// address space.
func (r *Runner) runCd(argv []string) (int, error) {
	target := ""
	if len(argv) > 1 {
		target = argv[1]
	} else if home, err := os.UserHomeDir(); err == nil {
		target = home
	} else {
		target = "/"
	}

	if !filepath.IsAbs(target) {
		base := r.opts.Cwd
		if base == "" {
			if wd, err := os.Getwd(); err == nil {
				base = wd
			} else {
				base = "/"
			}
		}
		target = filepath.Join(base, target)
	}

	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		return 1, nil
	}

	r.mu.Lock()
	r.opts.Cwd = target
	r.mu.Unlock()
	return 0, nil
}
