package rerank

import (
	"cmp"
	"slices"

	"SearchRerank/internal/domain"
)

const (
	relevanceWeight = 0.7
	diversityWeight = 0.3
)

// FinalScore blends relevance and diversity.
func FinalScore(relevance, diversity float64) float64 {
	return clamp01(relevanceWeight*relevance + diversityWeight*diversity)
}

// RankByFinal drops candidates below minScore and sorts the rest by final
// score, descending. Ties keep their input order; the domain cap and the
// duplicate reducer rely on that.
func RankByFinal(scored []domain.ScoredResult, minScore float64) (ranked []domain.ScoredResult, below int) {
	ranked = make([]domain.ScoredResult, 0, len(scored))
	for _, s := range scored {
		if s.Scores.Final < minScore {
			below++
			continue
		}
		ranked = append(ranked, s)
	}

	slices.SortStableFunc(ranked, func(a, b domain.ScoredResult) int {
		return cmp.Compare(b.Scores.Final, a.Scores.Final)
	})
	return ranked, below
}
