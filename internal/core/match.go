package core

import (
	"strings"
	"unicode"
)

// FoldDescription normalizes a description for matching: every whitespace
// rune is removed and the rest is lowercased.
func FoldDescription(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// MatchesDescription reports whether the folded query is contained in the
// folded transaction description. An empty query matches everything; the
// pipeline treats "no description filter" as an unconditional pass.
func MatchesDescription(description, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	return strings.Contains(FoldDescription(description), FoldDescription(query))
}
