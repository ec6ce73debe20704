package runner

import (
	"context"
	"io"

	"github.com/opal-lang/cmdstream/core/ast"
	"github.com/opal-lang/cmdstream/core/invariant"
	"github.com/opal-lang/cmdstream/shellopt"
	"golang.org/x/sync/errgroup"
)

// runPipeline wires each stage's stdout to the next stage's stdin with an
// io.Pipe and runs every stage concurrently, joined with an errgroup
// before returning — the same fan-out-then-join shape as the teacher's
// os.Pipe-per-stage pipeline runner, generalized so a stage can equally
// be a real process or a virtual command (io.Pipe works for both, where
// the teacher's os.Pipe only works for real file descriptors). Stage
// errors are collected into exitCodes/errs directly rather than through
// the group's own error, since a failing stage must not stop its
// siblings from running to completion.
func (r *Runner) runPipeline(ctx context.Context, p *ast.Pipeline, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	n := len(p.Stages)
	invariant.Precondition(n > 0, "pipeline must have at least one stage")
	if n == 1 {
		return r.runSimpleLeaf(ctx, p.Stages[0], stdin, stdout, stderr)
	}

	readers := make([]*io.PipeReader, n-1)
	writers := make([]*io.PipeWriter, n-1)
	for i := range readers {
		readers[i], writers[i] = io.Pipe()
	}

	exitCodes := make([]int, n)
	errs := make([]error, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			var in io.Reader = stdin
			if i > 0 {
				in = readers[i-1]
			}
			out := stdout
			if i < n-1 {
				out = writers[i]
			}

			exitCodes[i], errs[i] = r.runSimpleLeaf(ctx, p.Stages[i], in, out, stderr)

			if i < n-1 {
				_ = writers[i].Close()
			}
			if i > 0 {
				_ = readers[i-1].Close()
			}
			return nil
		})
	}
	_ = g.Wait()

	last := n - 1
	if errs[last] != nil {
		return exitCodes[last], &PipelineError{Stage: last, Err: errs[last]}
	}
	if shellopt.IsPipefail() {
		for i, code := range exitCodes {
			if code != 0 {
				return code, &PipelineError{Stage: i, Err: errs[i]}
			}
		}
	}
	return exitCodes[last], nil
}
