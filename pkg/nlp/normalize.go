package nlp

import "strings"

// LowerASCII lowercases A-Z in place without touching any other bytes, so an
// index into the result is a valid index into the input. Used to build the
// case-insensitive search corpus for section and keyword matching.
func LowerASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}

// FoldKey produces the comparison key for skill names: lowercased and
// whitespace-trimmed. Stored casing is preserved elsewhere; this is for
// matching only.
func FoldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
