package rerank

import (
	"strings"

	"SearchRerank/internal/domain"
)

// DiversityScores returns, for each member of batch, one minus its average
// similarity to every other member. A lone result scores 1.
//
// Cost is quadratic in the batch size; batches are tens of results.
func DiversityScores(batch []domain.RawResult) []float64 {
	texts := make([]string, len(batch))
	for i, r := range batch {
		texts[i] = strings.ToLower(r.Text())
	}

	scores := make([]float64, len(batch))
	for i := range texts {
		if len(texts) < 2 {
			scores[i] = 1
			continue
		}
		total := 0.0
		for j := range texts {
			if i == j {
				continue
			}
			total += Similarity(texts[i], texts[j])
		}
		scores[i] = clamp01(1 - total/float64(len(texts)-1))
	}
	return scores
}
