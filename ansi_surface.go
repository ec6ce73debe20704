package cmdstream

import "github.com/opal-lang/cmdstream/ansipolicy"

// AnsiConfig is ansipolicy.Config re-exported.
type AnsiConfig = ansipolicy.Config

// ConfigureAnsi updates the process-global ANSI/control-char stripping
// policy. A nil pointer leaves that field unchanged (spec.md §6:
// "configureAnsi({preserveAnsi?, preserveControlChars?})").
func ConfigureAnsi(preserveANSI, preserveControlChars *bool) {
	ansipolicy.Configure(preserveANSI, preserveControlChars)
}

// GetAnsiConfig returns the current policy (spec.md §6: "getAnsiConfig()").
func GetAnsiConfig() AnsiConfig {
	return ansipolicy.Get()
}

// ProcessOutput applies the current (or an explicitly supplied) policy to
// data (spec.md §6: "processOutput(bytesOrString, opts?)"). When opts is
// omitted, the process-global policy is used.
func ProcessOutput(data []byte, opts ...AnsiConfig) []byte {
	cfg := ansipolicy.Get()
	if len(opts) > 0 {
		cfg = opts[0]
	}
	return ansipolicy.Process(data, cfg)
}
