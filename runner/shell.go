package runner

import (
	"bytes"
	"context"
	"runtime"

	"github.com/opal-lang/cmdstream/core/ast"
	"github.com/opal-lang/cmdstream/core/invariant"
	"github.com/opal-lang/cmdstream/shparse"
)

// execute is the single entry point own() calls: it resolves r.spec into
// a node tree (or a direct real-shell fallback) and drives it to
// completion through runTop.
func (r *Runner) execute(ctx context.Context) (int, error) {
	switch s := r.spec.(type) {
	case ast.ShellSpec:
		if shparse.NeedsRealShell(s.Command) {
			return r.runShellFallback(ctx, s.Command)
		}
		node, err := shparse.Parse(s.Command)
		if err != nil {
			return 1, err
		}
		return r.runTop(ctx, node)

	case ast.ExecSpec:
		argv := append([]string{s.File}, s.Argv...)
		words := make([]ast.Word, len(argv))
		for i, a := range argv {
			words[i] = ast.Word{Value: a}
		}
		return r.runTop(ctx, &ast.Simple{Argv: words})

	case ast.PipelineSpec:
		return r.runRunnerPipeline(ctx, s)

	default:
		invariant.Invariant(false, "unknown ast.Spec type %T", r.spec)
		return 1, nil
	}
}

// runShellFallback hands a command the mini parser can't represent
// (globs, variable expansion, heredocs, ...) to a real POSIX shell, or
// cmd.exe on Windows (spec.md §4.2's fallback rule).
func (r *Runner) runShellFallback(ctx context.Context, command string) (int, error) {
	var argv []string
	if runtime.GOOS == "windows" {
		argv = []string{"cmd", "/C", command}
	} else {
		argv = []string{"/bin/sh", "-c", command}
	}
	words := make([]ast.Word, len(argv))
	for i, a := range argv {
		words[i] = ast.Word{Value: a}
	}
	return r.runTop(ctx, &ast.Simple{Argv: words})
}

// runRunnerPipeline implements ast.PipelineSpec: feeding one already
// constructed Runner's stdout into another's stdin (spec.md §4.1's
// `.pipe(other)`, expressed here as a Spec instead of a method for
// callers that want to build the pipeline declaratively up front).
func (r *Runner) runRunnerPipeline(ctx context.Context, s ast.PipelineSpec) (int, error) {
	src, ok := s.Source.(*Runner)
	invariant.Precondition(ok, "PipelineSpec.Source must be a *runner.Runner")
	dst, ok := s.Destination.(*Runner)
	invariant.Precondition(ok, "PipelineSpec.Destination must be a *runner.Runner")

	src.Pipe(dst)
	r.mu.Lock()
	r.owned = append(r.owned, src, dst)
	r.mu.Unlock()

	res, err := dst.Wait()
	r.mu.Lock()
	r.capturedStdout = bytes.NewBuffer(res.Stdout)
	r.capturedStderr = bytes.NewBuffer(res.Stderr)
	r.process = dst.process
	r.mu.Unlock()
	return res.Code, err
}
