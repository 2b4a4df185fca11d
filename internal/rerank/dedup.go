package rerank

import (
	"slices"
	"strings"

	"SearchRerank/internal/domain"
)

// RemoveNearDuplicates collapses results whose texts are at least threshold
// similar. Each candidate is compared with the accepted entries in order and
// the first match decides: a strictly higher final score replaces the
// accepted entry (the candidate moves to the end), otherwise the candidate
// is discarded.
func RemoveNearDuplicates(ranked []domain.ScoredResult, threshold float64) (kept []domain.ScoredResult, dropped int) {
	if len(ranked) == 0 {
		return nil, 0
	}

	type entry struct {
		scored domain.ScoredResult
		text   string
	}

	accepted := []entry{{scored: ranked[0], text: strings.ToLower(ranked[0].Result.Text())}}
	for _, candidate := range ranked[1:] {
		text := strings.ToLower(candidate.Result.Text())

		match := -1
		for i, a := range accepted {
			if Similarity(text, a.text) >= threshold {
				match = i
				break
			}
		}

		switch {
		case match < 0:
			accepted = append(accepted, entry{scored: candidate, text: text})
		case candidate.Scores.Final > accepted[match].scored.Scores.Final:
			accepted = slices.Delete(accepted, match, match+1)
			accepted = append(accepted, entry{scored: candidate, text: text})
			dropped++
		default:
			dropped++
		}
	}

	kept = make([]domain.ScoredResult, len(accepted))
	for i, a := range accepted {
		kept[i] = a.scored
	}
	return kept, dropped
}
