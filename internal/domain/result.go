package domain

import (
	"math"
	"net/url"
	"strings"
)

// RawResult is a single search hit as produced by an upstream provider.
// Absent fields are empty strings.
type RawResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// Text is the title and snippet joined by a space, the unit compared for
// diversity and near-duplicate detection.
func (r RawResult) Text() string {
	return r.Title + " " + r.Snippet
}

// Scores are the annotations derived for a result during reranking.
type Scores struct {
	Relevance float64 `json:"relevance"`
	Diversity float64 `json:"diversity"`
	Final     float64 `json:"final"`
}

// Rounded returns the scores rounded to three decimals for display.
func (s Scores) Rounded() Scores {
	return Scores{
		Relevance: round3(s.Relevance),
		Diversity: round3(s.Diversity),
		Final:     round3(s.Final),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// ScoredResult pairs an untouched RawResult with its derived scores.
type ScoredResult struct {
	Result RawResult
	Scores Scores
}

// Authority returns the lower-cased host[:port] of a URL. Scheme-less URLs
// yield an empty authority. A URL that fails to parse, for instance over a
// bad escape in its path, still gives the authority text after "//".
func Authority(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return strings.ToLower(rawAuthority(rawURL))
	}
	return strings.ToLower(parsed.Host)
}

// rawAuthority cuts the authority out of the URL text without decoding it.
func rawAuthority(rawURL string) string {
	rest, ok := strings.CutPrefix(rawURL, "//")
	if !ok {
		scheme, after, found := strings.Cut(rawURL, "://")
		if !found || scheme == "" || strings.ContainsAny(scheme, "/?#") {
			return ""
		}
		rest = after
	}
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest = rest[i+1:]
	}
	return rest
}

// Domain is the grouping key for per-source accounting: the authority
// without a leading "www.".
func Domain(rawURL string) string {
	return strings.TrimPrefix(Authority(rawURL), "www.")
}

// Unwrap strips annotations, keeping result order.
func Unwrap(scored []ScoredResult) []RawResult {
	out := make([]RawResult, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.Result)
	}
	return out
}
