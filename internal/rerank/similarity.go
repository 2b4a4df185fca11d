package rerank

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity is the case-insensitive longest-matching-block ratio of a and b:
// 2*M/T where M is the number of runes in matching blocks and T the total
// rune count. Identical strings score 1, disjoint ones 0.
//
// The popular-element heuristic is off, so long identical texts still score 1.
func Similarity(a, b string) float64 {
	m := difflib.NewMatcherWithJunk(runeTokens(strings.ToLower(a)), runeTokens(strings.ToLower(b)), false, nil)
	return m.Ratio()
}

func runeTokens(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
