// Package ansipolicy implements the output-stripping policy of spec.md §4.8
// (component C9): a global preserveAnsi/preserveControlChars pair applied
// to every chunk before it is emitted or captured. Process takes an
// explicit Config, so a single call can use its own; a Runner always
// applies the global pair, and Runner options have no per-invocation
// override. Stripping never touches the raw bytes written to the child
// or mirrored to the parent when both preserve flags are true.
package ansipolicy

import (
	"regexp"
	"sync"
)

// Config is a snapshot of the stripping policy.
type Config struct {
	PreserveANSI         bool
	PreserveControlChars bool
}

// DefaultConfig matches the teacher's terminal-output packages' default of
// passing everything through untouched unless a caller opts into stripping.
func DefaultConfig() Config {
	return Config{PreserveANSI: true, PreserveControlChars: true}
}

var (
	mu      sync.RWMutex
	current = DefaultConfig()
)

// Configure updates the process-global policy. Passing nil for either
// pointer leaves that field unchanged (spec.md §6:
// "configureAnsi({preserveAnsi?, preserveControlChars?})").
func Configure(preserveANSI, preserveControlChars *bool) {
	mu.Lock()
	defer mu.Unlock()
	if preserveANSI != nil {
		current.PreserveANSI = *preserveANSI
	}
	if preserveControlChars != nil {
		current.PreserveControlChars = *preserveControlChars
	}
}

// Get returns the current process-global policy.
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Reset restores the default policy (used by resetGlobalState).
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = DefaultConfig()
}

// ansiPattern matches ESC[...m|G|K|H|F|J sequences (spec.md §4.8).
var ansiPattern = regexp.MustCompile("\x1b\\[[0-9;]*[mGKHFJ]")

// controlPattern matches C0 controls except TAB(0x09), LF(0x0A), CR(0x0D),
// plus DEL(0x7F).
var controlPattern = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")

// Process applies cfg to data, stripping ANSI escapes and/or control
// characters as configured. When both fields are true this is a no-op
// that returns data unchanged (never mutates the on-wire bytes).
func Process(data []byte, cfg Config) []byte {
	if cfg.PreserveANSI && cfg.PreserveControlChars {
		return data
	}
	out := data
	if !cfg.PreserveANSI {
		out = ansiPattern.ReplaceAll(out, nil)
	}
	if !cfg.PreserveControlChars {
		out = controlPattern.ReplaceAll(out, nil)
	}
	return out
}

// ProcessString is the string-convenience form of Process.
func ProcessString(s string, cfg Config) string {
	return string(Process([]byte(s), cfg))
}
