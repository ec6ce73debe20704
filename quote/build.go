package quote

import "strings"

// Build concatenates literal template fragments with quoted interpolated
// values, in order, following spec.md §4.2's tagged-template rule.
//
// template uses %s as the placeholder token (the Go idiom for "a slot an
// interpolated value drops into"); a literal percent sign that is not
// introducing a placeholder is written as %%. args is consumed in order,
// one per %s.
//
// Special case carried from spec.md: if template is exactly "%s" (no
// literal text on either side) and args has exactly one element that is
// itself a plausible shell command (see looksLikeCommand), that argument
// is passed through as-is instead of being quoted — this lets a caller
// forward a user-constructed command string unchanged.
func Build(template string, args ...interface{}) string {
	if template == "%s" && len(args) == 1 {
		if s, ok := args[0].(string); ok && looksLikeCommand(s) {
			return s
		}
		if r, ok := args[0].(Raw); ok {
			return string(r)
		}
	}

	var b strings.Builder
	argIdx := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' || i == len(template)-1 {
			b.WriteByte(c)
			continue
		}
		switch template[i+1] {
		case 's':
			if argIdx < len(args) {
				b.WriteString(Value(args[argIdx]))
				argIdx++
			}
			i++
		case '%':
			b.WriteByte('%')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// looksLikeCommand is a light heuristic: a string that contains at least
// one non-whitespace token is plausible shell input. This mirrors the
// permissive pass-through spec.md describes for a lone whole-string
// interpolation — the caller has already built a command string and just
// wants it run as-is.
func looksLikeCommand(s string) bool {
	return strings.TrimSpace(s) != ""
}
