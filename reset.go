package cmdstream

import (
	"os"

	"github.com/opal-lang/cmdstream/ansipolicy"
	"github.com/opal-lang/cmdstream/registry"
	"github.com/opal-lang/cmdstream/shellopt"
	"github.com/opal-lang/cmdstream/supervisor"
)

// initialCwd is captured once at module load (spec.md §4.9: "the working
// directory is process-wide ... resetGlobalState() must restore it to the
// directory captured at module load").
var initialCwd string

func init() {
	if wd, err := os.Getwd(); err == nil {
		initialCwd = wd
	}
}

// ResetGlobalState restores the initial working directory (if it still
// exists), cancels every active Runner, and resets shell settings, ANSI
// policy, and the virtual-command registry's enabled flag to their
// defaults (spec.md §6: "resetGlobalState()").
func ResetGlobalState() {
	if initialCwd != "" {
		if _, err := os.Stat(initialCwd); err == nil {
			_ = os.Chdir(initialCwd)
		}
	}
	supervisor.CancelAll()
	shellopt.Reset()
	ansipolicy.Reset()
	registry.Global.Enable()
}
