package runner

import (
	"io"
	"os"
)

// parentStdoutWriter/parentStderrWriter are package vars, not functions
// reading os.Stdout/os.Stderr directly, so tests can redirect mirroring
// to an in-memory buffer instead of the test binary's real stdout/stderr.
var (
	parentStdoutWriter io.Writer = os.Stdout
	parentStderrWriter io.Writer = os.Stderr
)

func parentStdout() io.Writer { return parentStdoutWriter }
func parentStderr() io.Writer { return parentStderrWriter }
