// Package ast defines the invocation spec and parse-tree node types shared
// by the quoter, the mini shell parser, and the runner.
//
// Node is a closed sum type in the style of the teacher's sdk.TreeNode:
// each concrete type implements the unexported isNode marker so only the
// variants declared here can appear in a tree.
package ast

// QuoteKind records which quote character, if any, wrapped a token in the
// original command string. The mini parser preserves this per spec.md §4.2
// ("quoted status and quote character preserved per argument").
type QuoteKind int

const (
	Unquoted QuoteKind = iota
	SingleQuoted
	DoubleQuoted
)

// Word is one whitespace-delimited argv token, carrying its original
// quoting so callers that care (e.g. a virtual command inspecting argv)
// can tell `echo "$x"`-shaped quoting from a bare token.
type Word struct {
	Value string
	Quote QuoteKind
}

// RedirectMode is the direction/mode of a simple `>`/`>>` redirection.
type RedirectMode int

const (
	RedirectOverwrite RedirectMode = iota // >
	RedirectAppend                        // >>
)

// Redirect is a simple output redirection attached to a Simple command.
type Redirect struct {
	Mode RedirectMode
	Path string
}

// Node is a node of the parsed command tree: Simple, Pipeline, Sequence,
// or Subshell (spec.md §3, §4.2).
type Node interface {
	isNode()
}

// Simple is a single command: argv plus any simple redirections.
type Simple struct {
	Argv      []Word
	Redirects []Redirect
}

func (*Simple) isNode() {}

// Pipeline is stages separated by unquoted `|`. Each stage is a Simple
// in this grammar (spec.md does not nest sequences inside pipeline
// stages).
type Pipeline struct {
	Stages []*Simple
}

func (*Pipeline) isNode() {}

// Operator is the joiner between two commands in a Sequence.
type Operator int

const (
	OpSemi Operator = iota // ;
	OpAnd                  // &&
	OpOr                   // ||
)

// Sequence is commands joined by `;`, `&&`, `||`. Operators is parallel to
// Commands and one shorter (Operators[i] joins Commands[i] to Commands[i+1]).
type Sequence struct {
	Commands  []Node
	Operators []Operator
}

func (*Sequence) isNode() {}

// Subshell is a `( ... )` group: cwd changes inside Body must not leak to
// the parent (spec.md §4.5).
type Subshell struct {
	Body Node
}

func (*Subshell) isNode() {}
