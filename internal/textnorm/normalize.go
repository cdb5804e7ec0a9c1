// Package textnorm canonicalizes raw text into the form used for matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, decomposes it with NFKD, drops every non-ASCII
// code point and collapses whitespace runs into a single space.
// Corpus questions and live queries must go through the same function.
func Normalize(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	decomposed := norm.NFKD.String(lowered)

	var builder strings.Builder
	builder.Grow(len(decomposed))
	lastSpace := true
	for _, r := range decomposed {
		if r > unicode.MaxASCII {
			continue
		}
		if unicode.IsSpace(r) {
			if !lastSpace {
				builder.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		// compatibility decompositions can yield upper-case ASCII (e.g. U+210C)
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		builder.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(builder.String())
}
