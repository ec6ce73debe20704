// Package runner is the process runner of spec.md §4.1 (component C5),
// the pipeline executor (§4.4, C6) and the sequence/subshell executor
// (§4.5, C7): one state machine per invocation, exposed through four
// equivalent access patterns (blocking Wait, Stream channel, On
// subscription, lazy Stdin/Stdout/Stderr handles).
package runner

import (
	"time"

	"github.com/opal-lang/cmdstream/core/ast"
)

// Options configures a Runner. Zero value means "use the Runner's
// defaults": no env overrides, inherited cwd, stdin inherited from the
// parent, no mirroring, no capture.
type Options struct {
	Cwd string
	Env map[string]string

	// Stdin selects how the child's stdin is fed. At most one of these
	// should be set; with none set the child inherits the parent's stdin.
	// StdinNone takes priority over StdinBytes, which takes priority over
	// StdinPipe (spec.md's `stdin:"pipe"`), which leaves stdin open for the
	// caller to write to via Runner.Stdin().
	StdinBytes []byte
	StdinPipe  bool
	StdinNone  bool

	CaptureStdout bool
	CaptureStderr bool

	// MirrorStdout/MirrorStderr additionally copy output to the parent's
	// os.Stdout/os.Stderr (spec.md's default "visible unless piped").
	MirrorStdout bool
	MirrorStderr bool

	// Interactive, when the parent's stdin, stdout and stderr are all
	// terminals, runs a single real command with those three streams
	// inherited directly: no pumping, capture, mirroring or output events.
	// Otherwise (virtual commands, cd, redirects, compound commands, or a
	// non-tty parent) it has no effect and the ordinary pumped path runs.
	Interactive bool

	Timeout time.Duration
}

// Merge layers over on top of o, non-zero fields in over taking priority.
// Exported so callers composing Options (cmdstream.Run's variadic
// overrides) can fold them without reaching into the Runner.
func (o Options) Merge(over Options) Options {
	return o.merge(over)
}

// merge is the unexported form of Merge; Start uses it to fold its
// overrides and layer them over the Runner's base Options.
func (o Options) merge(over Options) Options {
	merged := o
	if over.Cwd != "" {
		merged.Cwd = over.Cwd
	}
	if len(over.Env) > 0 {
		env := make(map[string]string, len(merged.Env)+len(over.Env))
		for k, v := range merged.Env {
			env[k] = v
		}
		for k, v := range over.Env {
			env[k] = v
		}
		merged.Env = env
	}
	if over.StdinBytes != nil {
		merged.StdinBytes = over.StdinBytes
	}
	if over.StdinPipe {
		merged.StdinPipe = true
	}
	if over.StdinNone {
		merged.StdinNone = true
	}
	if over.CaptureStdout {
		merged.CaptureStdout = true
	}
	if over.CaptureStderr {
		merged.CaptureStderr = true
	}
	if over.MirrorStdout {
		merged.MirrorStdout = true
	}
	if over.MirrorStderr {
		merged.MirrorStderr = true
	}
	if over.Interactive {
		merged.Interactive = true
	}
	if over.Timeout != 0 {
		merged.Timeout = over.Timeout
	}
	return merged
}

// Result is the outcome of a finished Runner (spec.md §3).
type Result struct {
	Code     int
	Stdout   []byte
	Stderr   []byte
	Stdin    []byte
	Duration time.Duration
}

// Chunk is one unit of output delivered by Stream (spec.md §4.1:
// "stream() yields both stdout- and stderr-typed chunks").
type Chunk struct {
	Stderr bool
	Data   []byte
}

// Event is delivered to On subscribers. Type is one of "start", "stdout",
// "stderr", "end", "exit" — end always precedes exit, and both fire
// exactly once (spec.md §4.1's terminal-event-order contract).
type Event struct {
	Type string
	Data []byte
	Code int
	Err  error
}

// Spec is ast.Spec re-exported. A ShellSpec's command is parsed when the
// Runner executes, not at construction.
type Spec = ast.Spec
