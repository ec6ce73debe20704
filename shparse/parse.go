package shparse

import (
	"fmt"
	"strings"

	"github.com/opal-lang/cmdstream/core/ast"
)

// Parse turns a command string into a Node tree (spec.md §4.2). Callers
// should check NeedsRealShell first: Parse does not itself detect shell
// metasyntax it cannot represent — that is a separate predicate so the
// runner can choose, once, between "parse and execute directly" and "hand
// the whole string to a spawned POSIX shell".
func Parse(s string) (ast.Node, error) {
	segs, ops, err := splitSequence(s)
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("shparse: empty command")
	}
	if len(segs) == 1 {
		return parseSegment(segs[0])
	}

	nodes := make([]ast.Node, len(segs))
	for i, seg := range segs {
		n, err := parseSegment(seg)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return &ast.Sequence{Commands: nodes, Operators: ops}, nil
}

// parseSegment parses one sequence element: either a subshell or a
// pipeline (one or more `|`-joined Simple commands).
func parseSegment(seg string) (ast.Node, error) {
	seg = strings.TrimSpace(seg)
	if body, ok := fullyParenthesized(seg); ok {
		inner, err := Parse(body)
		if err != nil {
			return nil, err
		}
		return &ast.Subshell{Body: inner}, nil
	}

	stages, err := splitPipeline(seg)
	if err != nil {
		return nil, err
	}
	simples := make([]*ast.Simple, len(stages))
	for i, stage := range stages {
		simple, err := parseSimple(stage)
		if err != nil {
			return nil, err
		}
		simples[i] = simple
	}
	if len(simples) == 1 {
		return simples[0], nil
	}
	return &ast.Pipeline{Stages: simples}, nil
}

// parseSimple tokenizes a single command, splitting off trailing `>`/`>>`
// redirections (spec.md §4.2).
func parseSimple(s string) (*ast.Simple, error) {
	words := tokenize(s)
	if len(words) == 0 {
		return nil, fmt.Errorf("shparse: empty simple command")
	}

	var argv []ast.Word
	var redirects []ast.Redirect
	for i := 0; i < len(words); i++ {
		w := words[i]
		if w.Quote == ast.Unquoted && (w.Value == ">" || w.Value == ">>") {
			if i+1 >= len(words) {
				return nil, fmt.Errorf("shparse: redirect %q missing target", w.Value)
			}
			mode := ast.RedirectOverwrite
			if w.Value == ">>" {
				mode = ast.RedirectAppend
			}
			redirects = append(redirects, ast.Redirect{Mode: mode, Path: words[i+1].Value})
			i++
			continue
		}
		argv = append(argv, w)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("shparse: command has no argv")
	}
	return &ast.Simple{Argv: argv, Redirects: redirects}, nil
}

// fullyParenthesized reports whether s, as a whole, is `( body )` with the
// opening paren's match being the final non-space character.
func fullyParenthesized(s string) (string, bool) {
	if len(s) == 0 || s[0] != '(' {
		return "", false
	}
	depth := 0
	inSingle, inDouble := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
			}
		case inDouble:
			if c == '"' {
				inDouble = false
			}
		case c == '\'':
			inSingle = true
		case c == '"':
			inDouble = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				rest := strings.TrimSpace(s[i+1:])
				if rest == "" {
					return s[1:i], true
				}
				return "", false
			}
		}
	}
	return "", false
}
