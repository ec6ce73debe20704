package cmdstream

import "github.com/opal-lang/cmdstream/shellopt"

// Settings is shellopt.Settings re-exported (spec.md §6: "shell.settings()").
type Settings = shellopt.Settings

// shellAPI namespaces the five shell-flag setters under a single exported
// value (spec.md's `shell.{errexit,verbose,xtrace,pipefail,nounset}(bool)`
// grouping, realized in Go as a value instead of a language-level module).
type shellAPI struct{}

// Shell is the package's `shell.*` namespace.
var Shell shellAPI

func (shellAPI) Errexit(v bool)  { shellopt.SetErrexit(v) }
func (shellAPI) Verbose(v bool)  { shellopt.SetVerbose(v) }
func (shellAPI) Xtrace(v bool)   { shellopt.SetXtrace(v) }
func (shellAPI) Pipefail(v bool) { shellopt.SetPipefail(v) }
func (shellAPI) Nounset(v bool)  { shellopt.SetNounset(v) }

// Set and Unset toggle a flag identified by name (spec.md §6:
// "shell.set(flag)", "shell.unset(flag)").
func (shellAPI) Set(flag string)   { shellopt.Set(flag) }
func (shellAPI) Unset(flag string) { shellopt.Unset(flag) }

// Settings returns a snapshot of all five flags.
func (shellAPI) Settings() Settings { return shellopt.Snapshot() }
