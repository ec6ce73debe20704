package runner

import (
	"bytes"
	"io"
	"sync"

	"github.com/opal-lang/cmdstream/ansipolicy"
	"github.com/opal-lang/cmdstream/iostream"
)

// outputSink fans one stream (stdout or stderr) out to everything spec.md
// says must see it: the capture buffer, the parent mirror (broken-pipe
// safe), the chunk buffer a caller's Stdout()/Stderr() reads from, and the
// event broadcaster — applying the ANSI/control-char policy once, up
// front, so every downstream consumer sees the same bytes.
type outputSink struct {
	r        *Runner
	isStderr bool

	chunkBuf *iostream.ChunkBuffer

	captureMu *sync.Mutex
	capture   *bytes.Buffer // nil when not capturing

	mirror *iostream.SafeWriter // nil when not mirroring
}

func (s *outputSink) Write(p []byte) (int, error) {
	data := ansipolicy.Process(p, ansipolicy.Get())

	if s.capture != nil {
		s.captureMu.Lock()
		s.capture.Write(data)
		s.captureMu.Unlock()
	}
	if s.mirror != nil {
		_, _ = s.mirror.Write(data)
	}
	_, _ = s.chunkBuf.Write(data)

	evType := "stdout"
	if s.isStderr {
		evType = "stderr"
	}
	s.r.events.emit(Event{Type: evType, Data: data})
	return len(p), nil
}

// wireOutputs builds the stdout/stderr sinks for this invocation,
// resolving the Runner's public Lazy handles so Stdout()/Stderr() become
// readable, and returns the stdout and stderr sinks plus the two capture
// buffers (nil when that stream is not captured).
func (r *Runner) wireOutputs() (stdout, stderr io.Writer, out, errBuf *bytes.Buffer) {
	var mu sync.Mutex
	if r.opts.CaptureStdout {
		out = &bytes.Buffer{}
	}
	if r.opts.CaptureStderr {
		errBuf = &bytes.Buffer{}
	}

	stdoutChunks := iostream.NewChunkBuffer()
	stderrChunks := iostream.NewChunkBuffer()
	r.stdoutLazy.Resolve(io.Reader(stdoutChunks))
	r.stderrLazy.Resolve(io.Reader(stderrChunks))

	var mirrorOut, mirrorErr *iostream.SafeWriter
	if r.opts.MirrorStdout {
		mirrorOut = iostream.NewSafeWriter(parentStdout(), func() { _ = r.Kill(nil) })
	}
	if r.opts.MirrorStderr {
		mirrorErr = iostream.NewSafeWriter(parentStderr(), func() { _ = r.Kill(nil) })
	}

	stdout = &outputSink{r: r, chunkBuf: stdoutChunks, captureMu: &mu, capture: out, mirror: mirrorOut}
	stderr = &outputSink{r: r, isStderr: true, chunkBuf: stderrChunks, captureMu: &mu, capture: errBuf, mirror: mirrorErr}
	return stdout, stderr, out, errBuf
}

// stdinSource resolves the Runner's stdin Lazy and returns the reader the
// spawned process or virtual handler should consume. The default case is
// spec.md §3's `stdin:"inherit"`: on a piped parent it pumps the parent's
// real stdin into the child; on a tty parent it forwards raw-mode
// keystrokes and intercepts ETX (spec.md §4.1 step 4) — never a silently
// closed stdin, which would give e.g. a plain `cat` EOF at once instead
// of the parent's input.
func (r *Runner) stdinSource() io.Reader {
	switch {
	case r.opts.StdinNone:
		r.stdinLazy.Close()
		return nil
	case r.opts.StdinBytes != nil:
		r.stdinLazy.Close()
		return bytes.NewReader(r.opts.StdinBytes)
	case r.opts.StdinPipe:
		pr, pw := io.Pipe()
		r.stdinLazy.Resolve(io.Writer(pw))
		return pr
	default:
		return r.inheritStdin()
	}
}
