package valueobject

import (
	"strings"
	"unicode"
)

// CanonicalName derives the canonical form of a type or field name from a
// Go-style name: a '-' is inserted before each uppercase letter, underscores
// become '-', and the result is lower-cased. "FirstName" and "firstName"
// both map to "first-name". Names already in canonical form pass through
// unchanged.
func CanonicalName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		switch {
		case r == '_':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
