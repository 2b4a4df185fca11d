package rerank

import (
	"regexp"
	"slices"
	"strings"
)

var (
	latinRun = regexp.MustCompile(`[a-zA-Z]{2,}`)
	cjkRun   = regexp.MustCompile(`[\x{4e00}-\x{9fff}]{2,}`)
)

// Keywords is the set of matchable tokens derived from a query.
type Keywords map[string]struct{}

// ExtractKeywords collects runs of two or more Latin letters (lower-cased)
// and runs of two or more CJK ideographs (verbatim). Everything else,
// including digits and single characters, is discarded.
func ExtractKeywords(query string) Keywords {
	kw := Keywords{}
	for _, w := range latinRun.FindAllString(query, -1) {
		kw[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range cjkRun.FindAllString(query, -1) {
		kw[w] = struct{}{}
	}
	return kw
}

// Has reports whether term is one of the keywords.
func (k Keywords) Has(term string) bool {
	_, ok := k[term]
	return ok
}

// Sorted returns the keywords in lexical order so that score sums are
// accumulated in a stable order.
func (k Keywords) Sorted() []string {
	out := make([]string, 0, len(k))
	for w := range k {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}
