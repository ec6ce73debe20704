// Package quote turns values into safely-quoted shell tokens and builds
// full command strings out of literal template fragments and interpolated
// arguments (spec.md §4.2, component C1).
//
// Go has no tagged-template-literal syntax, so the root cmdstream package
// drives Build with a %s-placeholder template string instead of the
// JS `$\`cmd ${arg}\`` syntax; Build implements the same "literal fragments
// joined with quoted values in order" rule either way.
package quote

import (
	"fmt"
	"strings"
)

// safe characters pass through unquoted.
func isSafe(r byte) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '_', '-', '.', '/', '=', ',', '+', '@', ':':
		return true
	}
	return false
}

func isSafeString(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isSafe(s[i]) {
			return false
		}
	}
	return true
}

// Raw marks a value that bypasses quoting entirely: Build inserts
// string(Raw) verbatim. Use this only for strings the caller already knows
// are safe shell syntax (e.g. passing through a nested Build result).
type Raw string

func (r Raw) String() string { return string(r) }

// Quote renders value as a single safely-quoted shell token following
// spec.md §4.2's rules:
//
//   - empty string -> ''
//   - matches [A-Za-z0-9_\-./=,+@:]+ -> passed through unquoted
//   - already wrapped in matched single quotes with no inner single quote
//     -> passed through unchanged
//   - wrapped in matched double quotes -> re-wrapped in single quotes
//   - otherwise -> single-quoted, with each ' escaped as '\''
func Quote(value string) string {
	if value == "" {
		return "''"
	}
	if isSafeString(value) {
		return value
	}
	if isMatchedQuote(value, '\'') && !strings.Contains(value[1:len(value)-1], "'") {
		return value
	}
	if isMatchedQuote(value, '"') {
		return "'" + value[1:len(value)-1] + "'"
	}
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

func isMatchedQuote(s string, q byte) bool {
	return len(s) >= 2 && s[0] == q && s[len(s)-1] == q
}

// QuoteArray quotes each element and joins them with a single space, for
// interpolating a []string (spec.md §4.2: "Array values are quoted
// element-wise and space-joined").
func QuoteArray(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Quote(v)
	}
	return strings.Join(parts, " ")
}

// Value renders any supported interpolation argument: string, Raw,
// []string, or any other value via its default fmt formatting.
func Value(arg interface{}) string {
	switch v := arg.(type) {
	case Raw:
		return string(v)
	case string:
		return Quote(v)
	case []string:
		return QuoteArray(v)
	default:
		return Quote(fmt.Sprint(v))
	}
}
