package runner

import (
	"io"
	"sync"

	"github.com/opal-lang/cmdstream/core/invariant"
	"github.com/opal-lang/cmdstream/registry"
)

// runVirtual dispatches a single virtual-command invocation (spec.md
// §4.3). Func handlers return their whole Result at once; Generator
// handlers are drained chunk by chunk so streaming consumers (Stream,
// On("stdout", ...)) see output as it is produced rather than all at the
// end.
func (r *Runner) runVirtual(handler registry.Handler, call registry.Call, stdout, stderr io.Writer) (int, error) {
	switch h := handler.(type) {
	case registry.Func:
		res, err := h(call)
		if len(res.Stdout) > 0 {
			_, _ = stdout.Write(res.Stdout)
		}
		if len(res.Stderr) > 0 {
			_, _ = stderr.Write(res.Stderr)
		}
		if err != nil {
			_, _ = stderr.Write([]byte(err.Error()))
			return virtualErrorCode(err), nil
		}
		return res.Code, nil

	case registry.Generator:
		chunks := h(call)
		for {
			if call.IsCancelled() {
				if chunks.Cancel != nil {
					chunks.Cancel()
				}
				return r.killExitCode(), nil
			}
			data, ok, err := chunks.Next()
			if len(data) > 0 {
				_, _ = stdout.Write(data)
			}
			if err != nil {
				_, _ = stderr.Write([]byte(err.Error()))
				return 1, nil
			}
			if !ok {
				return 0, nil
			}
		}

	default:
		invariant.Invariant(false, "unknown registry handler type %T", handler)
		return 1, nil
	}
}

func virtualErrorCode(err error) int {
	if ec, ok := err.(ExitCoder); ok {
		return ec.ExitCode()
	}
	return 1
}

// newCancel returns a channel closed by the returned func, installed as
// the Runner's Kill target for the duration of a virtual-command call.
func (r *Runner) newCancel() (<-chan struct{}, func()) {
	ch := make(chan struct{})
	var once sync.Once
	cancel := func() { once.Do(func() { close(ch) }) }

	r.mu.Lock()
	r.virtualCancel = cancel
	r.mu.Unlock()

	return ch, cancel
}
