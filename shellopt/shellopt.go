// Package shellopt holds the process-global shell settings of spec.md §4.8:
// xtrace, verbose, errexit, pipefail, nounset. Each is an atomic.Bool so
// concurrently running Runners can read them without a lock.
package shellopt

import "sync/atomic"

// Flag names, used by Set/Unset and in trace output.
const (
	Errexit  = "errexit"
	Verbose  = "verbose"
	Xtrace   = "xtrace"
	Pipefail = "pipefail"
	Nounset  = "nounset"
)

var (
	errexit  atomic.Bool
	verbose  atomic.Bool
	xtrace   atomic.Bool
	pipefail atomic.Bool
	nounset  atomic.Bool
)

// Settings is an immutable snapshot of all five flags.
type Settings struct {
	Errexit  bool
	Verbose  bool
	Xtrace   bool
	Pipefail bool
	Nounset  bool
}

// Snapshot returns the current value of every flag (spec.md §6:
// "shell.settings()").
func Snapshot() Settings {
	return Settings{
		Errexit:  errexit.Load(),
		Verbose:  verbose.Load(),
		Xtrace:   xtrace.Load(),
		Pipefail: pipefail.Load(),
		Nounset:  nounset.Load(),
	}
}

// SetErrexit, SetVerbose, SetXtrace, SetPipefail, SetNounset set their respective flag
// (spec.md §6: "shell.{errexit,verbose,xtrace,pipefail,nounset}(bool)").
func SetErrexit(v bool)  { errexit.Store(v) }
func SetVerbose(v bool)  { verbose.Store(v) }
func SetXtrace(v bool)   { xtrace.Store(v) }
func SetPipefail(v bool) { pipefail.Store(v) }
func SetNounset(v bool)  { nounset.Store(v) }

func IsErrexit() bool  { return errexit.Load() }
func IsVerbose() bool  { return verbose.Load() }
func IsXtrace() bool   { return xtrace.Load() }
func IsPipefail() bool { return pipefail.Load() }
func IsNounset() bool  { return nounset.Load() }

// Set and Unset toggle a flag identified by name (spec.md §6:
// "shell.set(flag)", "shell.unset(flag)").
func Set(flag string)   { setFlag(flag, true) }
func Unset(flag string) { setFlag(flag, false) }

func setFlag(flag string, v bool) {
	switch flag {
	case Errexit:
		SetErrexit(v)
	case Verbose:
		SetVerbose(v)
	case Xtrace:
		SetXtrace(v)
	case Pipefail:
		SetPipefail(v)
	case Nounset:
		SetNounset(v)
	}
}

// Reset restores every flag to false (used by resetGlobalState).
func Reset() {
	errexit.Store(false)
	verbose.Store(false)
	xtrace.Store(false)
	pipefail.Store(false)
	nounset.Store(false)
}
