package runner

import (
	"strings"

	"github.com/opal-lang/cmdstream/core/ast"
	"github.com/opal-lang/cmdstream/quote"
)

// renderNode reconstructs a displayable command string from a parsed node,
// for spec.md §4.8's xtrace/verbose stderr printing. It does not need to
// round-trip exactly to the original source text — a real shell's xtrace
// output is a re-quoted approximation of the command too.
func renderNode(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Simple:
		return renderSimple(n)
	case *ast.Pipeline:
		parts := make([]string, len(n.Stages))
		for i, s := range n.Stages {
			parts[i] = renderSimple(s)
		}
		return strings.Join(parts, " | ")
	case *ast.Sequence:
		var b strings.Builder
		for i, cmd := range n.Commands {
			if i > 0 {
				b.WriteString(" ")
				b.WriteString(renderOperator(n.Operators[i-1]))
				b.WriteString(" ")
			}
			b.WriteString(renderNode(cmd))
		}
		return b.String()
	case *ast.Subshell:
		return "(" + renderNode(n.Body) + ")"
	default:
		return ""
	}
}

func renderSimple(n *ast.Simple) string {
	argv := make([]string, len(n.Argv))
	for i, w := range n.Argv {
		argv[i] = w.Value
	}
	out := quote.QuoteArray(argv)
	for _, rd := range n.Redirects {
		if rd.Mode == ast.RedirectAppend {
			out += " >> " + rd.Path
		} else {
			out += " > " + rd.Path
		}
	}
	return out
}

func renderOperator(op ast.Operator) string {
	switch op {
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	default:
		return ";"
	}
}
