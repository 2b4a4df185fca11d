package rerank

import "SearchRerank/internal/domain"

// CapPerDomain walks the ranked list and keeps at most maxPerDomain results
// per domain. A dropped result is never reconsidered.
func CapPerDomain(ranked []domain.ScoredResult, maxPerDomain int) (kept []domain.ScoredResult, dropped int) {
	counts := make(map[string]int)
	kept = make([]domain.ScoredResult, 0, len(ranked))
	for _, s := range ranked {
		d := domain.Domain(s.Result.URL)
		if counts[d] >= maxPerDomain {
			dropped++
			continue
		}
		counts[d]++
		kept = append(kept, s)
	}
	return kept, dropped
}
