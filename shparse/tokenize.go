// Package shparse is the mini shell parser of spec.md §4.2 (component C2):
// it splits a command string into a Simple/Pipeline/Sequence/Subshell tree,
// tokenizing argv with quote-preservation, and detects when a string needs
// a real POSIX shell instead.
package shparse

import (
	"strings"

	"github.com/opal-lang/cmdstream/core/ast"
)

// tokenize splits s into Words, honoring `"..."` and `'...'` quoting and
// recording which quote character (if any) wrapped each token, per
// spec.md's "quoted status and quote character preserved per argument".
func tokenize(s string) []ast.Word {
	var words []ast.Word
	var cur strings.Builder
	var curQuote = ast.Unquoted
	inWord := false
	i := 0
	n := len(s)

	flush := func() {
		if inWord {
			words = append(words, ast.Word{Value: cur.String(), Quote: curQuote})
			cur.Reset()
			curQuote = ast.Unquoted
			inWord = false
		}
	}

	for i < n {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			flush()
			i++
		case c == '\'':
			inWord = true
			if cur.Len() == 0 {
				curQuote = ast.SingleQuoted
			}
			j := strings.IndexByte(s[i+1:], '\'')
			if j < 0 {
				cur.WriteString(s[i+1:])
				i = n
				break
			}
			cur.WriteString(s[i+1 : i+1+j])
			i = i + 1 + j + 1
		case c == '"':
			inWord = true
			if cur.Len() == 0 {
				curQuote = ast.DoubleQuoted
			}
			j := strings.IndexByte(s[i+1:], '"')
			if j < 0 {
				cur.WriteString(s[i+1:])
				i = n
				break
			}
			cur.WriteString(s[i+1 : i+1+j])
			i = i + 1 + j + 1
		default:
			inWord = true
			cur.WriteByte(c)
			i++
		}
	}
	flush()
	return words
}
