package cmdstream

import (
	"fmt"
	"os"

	"github.com/opal-lang/cmdstream/runner"
)

// SetTrace installs fn as the process-wide trace sink every Runner calls
// into (runner.Trace's seam). Passing nil disables tracing.
func SetTrace(fn func(category string, msg func() string)) {
	runner.Trace = fn
}

// CMDSTREAM_VERBOSE enables trace logging to stderr when set to exactly
// "true". CI=true must NOT imply verbose (spec.md §6's environment-variable
// convention, named COMMAND_STREAM_VERBOSE there).
func init() {
	if os.Getenv("CMDSTREAM_VERBOSE") == "true" {
		SetTrace(func(category string, msg func() string) {
			fmt.Fprintf(os.Stderr, "[cmdstream:%s] %s\n", category, msg())
		})
	}
}
