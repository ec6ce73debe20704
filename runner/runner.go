package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opal-lang/cmdstream/core/ast"
	"github.com/opal-lang/cmdstream/core/invariant"
	"github.com/opal-lang/cmdstream/iostream"
	"github.com/opal-lang/cmdstream/registry"
	"github.com/opal-lang/cmdstream/shellopt"
	"github.com/opal-lang/cmdstream/supervisor"
)

// Trace is installed via cmdstream.SetTrace; nil by default (no-op),
// grounded on the teacher's decorator telemetry stub — a minimal
// observability seam, never a logging framework.
var Trace func(category string, msg func() string)

func trace(category string, msg func() string) {
	if Trace != nil {
		Trace(category, msg)
	}
}

// Runner is one invocation's state machine (spec.md §3/§4.1). Create one
// with New, then Start it; the four access patterns (Wait, Stream, On,
// Stdin/Stdout/Stderr) may be used concurrently from any goroutine.
type Runner struct {
	spec     ast.Spec
	baseOpts Options
	reg      *registry.Registry

	state     state
	cancelled atomic.Bool

	mu   sync.Mutex
	opts Options

	stdinLazy  *iostream.Lazy
	stdoutLazy *iostream.Lazy
	stderrLazy *iostream.Lazy

	events *broadcaster
	done   chan struct{}

	result    Result
	resultErr error

	process        *os.Process
	pid            int
	virtualCancel  func()
	ctxCancel      context.CancelFunc
	lastKillSignal os.Signal
	startedAt      time.Time

	capturedStdout *bytes.Buffer
	capturedStderr *bytes.Buffer

	unregister func()

	// owned holds the source/destination Runners of a pipeline composed
	// through Pipe or a PipelineSpec; Kill cascades to them so killing a
	// pipeline recursively kills every stage (spec.md §5 ownership rule).
	owned []*Runner
}

// New constructs a Fresh Runner for spec with opts as its base Options. It
// produces no output until it is started, by Start or by the first call to
// Wait, Stream, Stdin, Stdout or Stderr.
func New(spec ast.Spec, opts Options) *Runner {
	invariant.NotNil(spec, "spec")
	return &Runner{
		spec:       spec,
		baseOpts:   opts,
		reg:        registry.Global,
		stdinLazy:  iostream.NewLazy(),
		stdoutLazy: iostream.NewLazy(),
		stderrLazy: iostream.NewLazy(),
		events:     newBroadcaster(),
		done:       make(chan struct{}),
	}
}

// WithRegistry overrides the virtual-command registry this Runner
// consults (tests use a scoped Registry instead of registry.Global).
func (r *Runner) WithRegistry(reg *registry.Registry) *Runner {
	invariant.Precondition(r.currentState() == stateFresh, "WithRegistry must run before Start")
	r.reg = reg
	return r
}

// Start transitions Fresh->Starting exactly once; later calls are ignored
// and just return r (spec.md §3). The runner's owner goroutine runs the
// invocation to completion and transitions through Running, Finishing, to
// Finished.
func (r *Runner) Start(overrides ...Options) *Runner {
	if !r.tryStart() {
		return r
	}
	over := Options{}
	for _, o := range overrides {
		over = over.merge(o)
	}
	r.opts = r.baseOpts.merge(over)
	r.startedAt = time.Now()

	go r.own()
	return r
}

func (r *Runner) own() {
	r.unregister = supervisor.Register(r)
	r.setState(stateRunning)
	r.events.emit(Event{Type: "start"})
	trace("runner", func() string { return "starting invocation" })

	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.ctxCancel = cancel
	r.mu.Unlock()
	defer cancel()

	code, err := r.execute(ctx)

	r.finish(code, err)
}

func (r *Runner) finish(code int, err error) {
	if r.unregister != nil {
		r.unregister()
	}
	r.setState(stateFinishing)
	r.stdinLazy.Close()
	r.stdoutLazy.Close()
	r.stderrLazy.Close()

	r.mu.Lock()
	res := Result{Code: code, Duration: time.Since(r.startedAt), Stdin: r.opts.StdinBytes}
	if r.capturedStdout != nil {
		res.Stdout = r.capturedStdout.Bytes()
	}
	if r.capturedStderr != nil {
		res.Stderr = r.capturedStderr.Bytes()
	}
	if err == nil && code != 0 && shellopt.IsErrexit() {
		err = &ExitError{Code: code, Result: res}
	}
	r.result = res
	r.resultErr = err
	r.mu.Unlock()

	r.events.emit(Event{Type: "end", Code: code, Err: err})
	r.events.emit(Event{Type: "exit", Code: code, Err: err})

	r.setState(stateFinished)
	close(r.done)
	r.events.closeAll()
}

// Wait starts the Runner if it is still Fresh, then blocks until it
// reaches Finished and returns its Result.
// err is a *ExitError when Code != 0 and the caller asked for errexit
// semantics; callers that only want the raw outcome should inspect Result
// directly instead of treating a non-nil err as fatal.
func (r *Runner) Wait() (Result, error) {
	r.Start()
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result, r.resultErr
}

// Done returns the channel supervisor.dispatch waits on (via the optional
// waiter interface) to tell whether this Runner has reached Finished,
// approximating spec.md §4.6 step 3's "no foreign interrupt handlers
// remain" check.
func (r *Runner) Done() <-chan struct{} { return r.done }

// TryResult returns the Result without blocking; ok is false before
// Finished.
func (r *Runner) TryResult() (Result, bool) {
	select {
	case <-r.done:
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.result, true
	default:
		return Result{}, false
	}
}

// Stdin starts the Runner if it is still Fresh and returns the child's
// stdin as an io.WriteCloser; writes block until the child (or virtual
// command) exists, and fail with io.ErrClosedPipe once the Runner is
// Finished without ever needing stdin.
func (r *Runner) Stdin() io.WriteCloser {
	r.Start()
	return lazyWriteCloser{r.stdinLazy}
}

// Stdout starts the Runner if it is still Fresh and returns the child's
// stdout as an io.Reader: reads block until output exists, and return
// io.EOF once the command has ended and its output is drained
// (io.ErrClosedPipe if the Runner finished without wiring an output).
func (r *Runner) Stdout() io.Reader {
	r.Start()
	return r.stdoutLazy
}

// Stderr is Stdout for the child's stderr.
func (r *Runner) Stderr() io.Reader {
	r.Start()
	return r.stderrLazy
}

type lazyWriteCloser struct{ l *iostream.Lazy }

func (w lazyWriteCloser) Write(p []byte) (int, error) { return w.l.Write(p) }
func (w lazyWriteCloser) Close() error                { return w.l.CloseWriter() }

// On subscribes fn to every Event of the given type ("start", "stdout",
// "stderr", "end", "exit"), or every event when eventType is "". Returns
// an unsubscribe func.
func (r *Runner) On(eventType string, fn func(Event)) func() {
	return r.events.subscribe(func(ev Event) {
		if eventType != "" && ev.Type != eventType {
			return
		}
		fn(ev)
	})
}

// Stream starts the Runner if it is still Fresh and returns a channel of
// output Chunks, closed when the Runner reaches "end". Cancelling ctx
// kills the Runner early (spec.md §4.1's
// stream-iterator-break rule: "breaking out of the async iterator must
// kill the child").
func (r *Runner) Stream(ctx context.Context) <-chan Chunk {
	out := make(chan Chunk, 32)
	unsub := r.events.subscribe(func(ev Event) {
		switch ev.Type {
		case "stdout":
			out <- Chunk{Data: ev.Data}
		case "stderr":
			out <- Chunk{Stderr: true, Data: ev.Data}
		}
	})

	done := make(chan struct{})
	r.On("end", func(Event) {
		select {
		case <-done:
		default:
			close(done)
		}
	})
	r.Start()

	go func() {
		select {
		case <-ctx.Done():
			_ = r.Kill(os.Interrupt)
		case <-done:
		case <-r.done:
		}
		unsub()
		close(out)
	}()
	return out
}

// Pipe wires this Runner's stdout into dst's stdin and starts both,
// returning dst so calls chain (spec.md §4.1: ".pipe(other)"). dst takes
// ownership of r so that Kill on dst recursively kills r too (spec.md §5:
// "killing the pipeline recursively kills all stages").
func (r *Runner) Pipe(dst *Runner) *Runner {
	pr, pw := io.Pipe()
	dst.baseOpts.StdinPipe = true
	r.Start()
	dst.Start()

	dst.mu.Lock()
	dst.owned = append(dst.owned, r)
	dst.mu.Unlock()

	go func() {
		_, _ = io.Copy(pw, r.stdoutLazy)
		_ = pw.Close()
	}()
	go func() {
		w := dst.Stdin()
		_, _ = io.Copy(w, pr)
		_ = w.Close()
	}()
	return dst
}

// Kill signals the running process (or, for a virtual command, closes its
// Call.Cancel channel) and marks the Runner cancelled. sig defaults to
// SIGTERM when nil.
func (r *Runner) Kill(sig os.Signal) error {
	if sig == nil {
		sig = defaultKillSignal()
	}
	r.markCancelled()
	r.mu.Lock()
	r.lastKillSignal = sig
	proc := r.process
	cancel := r.virtualCancel
	ctxCancel := r.ctxCancel
	owned := append([]*Runner(nil), r.owned...)
	r.mu.Unlock()

	for _, o := range owned {
		_ = o.Kill(sig)
	}

	if cancel != nil {
		cancel()
	}
	var killErr error
	if proc != nil {
		killErr = killProcessGroup(proc, sig)
	}
	// ctxCancel tears down every exec.CommandContext-spawned stage this
	// invocation owns, not just the one tracked in r.process — a
	// multi-stage in-process pipeline (spec.md §4.4) spawns several
	// concurrent real processes that overwrite r.process in turn, so the
	// context is the only handle that reaches all of them.
	if ctxCancel != nil {
		ctxCancel()
	}
	return killErr
}

// killExitCode returns the spec.md §6 exit code for the signal most
// recently passed to Kill (or the platform default kill signal, if Kill
// was never given an explicit one).
func (r *Runner) killExitCode() int {
	r.mu.Lock()
	sig := r.lastKillSignal
	r.mu.Unlock()
	if sig == nil {
		sig = defaultKillSignal()
	}
	return signalExitCode(sig)
}

// remapSignalExit maps a real process's raw exit outcome through
// killExitCode when this Runner killed it itself: Go's exec.ExitError
// reports -1 for a process terminated by signal, which is not one of the
// POSIX codes spec.md §6/§7 require a kill to produce.
func (r *Runner) remapSignalExit(code int, err error) (int, error) {
	if code == -1 && r.Cancelled() {
		return r.killExitCode(), nil
	}
	return code, err
}
