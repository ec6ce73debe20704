package ast

// Spec is the immutable descriptor of what a Runner executes (spec.md §3:
// "Invocation Spec"). It is created once at construction and never mutated.
type Spec interface {
	isSpec()
}

// ShellSpec runs a command string, parsed by the mini shell parser (or, if
// NeedsRealShell reports true, handed verbatim to a spawned POSIX shell).
type ShellSpec struct {
	Command string
}

func (ShellSpec) isSpec() {}

// ExecSpec runs a file with an explicit argv, bypassing the mini parser and
// any shell entirely.
type ExecSpec struct {
	File string
	Argv []string
}

func (ExecSpec) isSpec() {}

// PipelineSpec composes two already-constructed runners (identified here by
// an opaque handle the runner package supplies) into `source | destination`.
// The runner package defines the concrete handle type; ast only fixes the
// shape so the spec stays a pure data description.
type PipelineSpec struct {
	Source      interface{}
	Destination interface{}
}

func (PipelineSpec) isSpec() {}
