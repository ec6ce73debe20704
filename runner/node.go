package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/opal-lang/cmdstream/core/ast"
	"github.com/opal-lang/cmdstream/core/invariant"
	"github.com/opal-lang/cmdstream/shellopt"
)

// runNode dispatches a parsed node to its executor, threading the one
// stdin reader and the two sinks that ultimately back this Runner's
// Stdout()/Stderr()/captured Result through whatever shape of tree the
// command turned out to be (spec.md §4.4/§4.5).
func (r *Runner) runNode(ctx context.Context, node ast.Node, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	switch n := node.(type) {
	case *ast.Simple:
		return r.runSimpleLeaf(ctx, n, stdin, stdout, stderr)
	case *ast.Pipeline:
		return r.runPipeline(ctx, n, stdin, stdout, stderr)
	case *ast.Sequence:
		return r.runSequence(ctx, n, stdin, stdout, stderr)
	case *ast.Subshell:
		return r.runSubshell(ctx, n, stdin, stdout, stderr)
	default:
		invariant.Invariant(false, "unknown ast.Node type %T", node)
		return 1, nil
	}
}

// runTop wires this Runner's output sinks exactly once and drives node to
// completion. Captured bytes are read out of capturedStdout/capturedStderr
// by finish, once execute has returned and every writer has stopped.
func (r *Runner) runTop(ctx context.Context, node ast.Node) (int, error) {
	r.traceNode(node)

	if r.opts.Interactive && allStdTTY() {
		if simple, ok := node.(*ast.Simple); ok {
			if code, handled, err := r.runInteractive(ctx, simple); handled {
				return code, err
			}
		}
	}

	stdout, stderr, capOut, capErr := r.wireOutputs()
	r.capturedStdout = capOut
	r.capturedStderr = capErr
	stdin := r.stdinSource()

	code, err := r.runNode(ctx, node, stdin, stdout, stderr)
	// Close the chunk buffers behind Stdout()/Stderr() so their readers,
	// including Pipe's copy into the next Runner, see io.EOF.
	_ = stdout.(*outputSink).chunkBuf.Close()
	_ = stderr.(*outputSink).chunkBuf.Close()
	return code, err
}

// traceNode implements spec.md §4.8's xtrace/verbose printing: xtrace
// prefixes the rendered command with "+ ", verbose prints it bare. Both
// write to the parent process's real stderr, never to this Runner's own
// captured/piped Stderr() stream — xtrace is a property of the shell
// driving the invocation, not of the invocation's own output.
func (r *Runner) traceNode(node ast.Node) {
	if !shellopt.IsXtrace() && !shellopt.IsVerbose() {
		return
	}
	command := renderNode(node)
	if shellopt.IsXtrace() {
		fmt.Fprintln(os.Stderr, "+ "+command)
		return
	}
	fmt.Fprintln(os.Stderr, command)
}
