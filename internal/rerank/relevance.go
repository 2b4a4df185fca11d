package rerank

import (
	"strings"
	"unicode/utf8"

	"SearchRerank/internal/domain"
)

const (
	titleHitWeight   = 0.15
	snippetHitWeight = 0.08
	urlHitWeight     = 0.05

	longSnippetLen    = 30
	longSnippetBonus  = 0.10
	thinSnippetLen    = 10
	thinSnippetMalus  = 0.20
	titleLenBonus     = 0.10
	titleLenMin       = 10
	titleLenMax       = 100
	lowQualityPenalty = 0.30
	trustedBonus      = 0.15
)

// RelevanceScorer scores a result against the query keywords independently
// of the rest of the batch.
type RelevanceScorer struct {
	lowQuality []string
	trusted    []string
}

// NewRelevanceScorer lower-cases the configured domain fragments.
func NewRelevanceScorer(lists Lists) *RelevanceScorer {
	return &RelevanceScorer{
		lowQuality: lowerAll(lists.LowQualityDomains),
		trusted:    lowerAll(lists.TrustedDomains),
	}
}

// Score adds keyword hits and surface signals, then clamps to [0, 1].
func (s *RelevanceScorer) Score(r domain.RawResult, kw Keywords) float64 {
	title := strings.ToLower(r.Title)
	snippet := strings.ToLower(r.Snippet)
	rawURL := strings.ToLower(r.URL)

	score := 0.0
	for _, k := range kw.Sorted() {
		if strings.Contains(title, k) {
			score += titleHitWeight
		}
		if strings.Contains(snippet, k) {
			score += snippetHitWeight
		}
		if strings.Contains(rawURL, k) {
			score += urlHitWeight
		}
	}

	switch n := utf8.RuneCountInString(snippet); {
	case n > longSnippetLen:
		score += longSnippetBonus
	case n < thinSnippetLen:
		score -= thinSnippetMalus
	}

	if n := utf8.RuneCountInString(title); n >= titleLenMin && n <= titleLenMax {
		score += titleLenBonus
	}

	if containsAny(rawURL, s.lowQuality) {
		score -= lowQualityPenalty
	}
	if containsAny(rawURL, s.trusted) {
		score += trustedBonus
	}

	return clamp01(score)
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
