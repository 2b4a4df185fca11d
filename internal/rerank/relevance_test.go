package rerank

import (
	"testing"

	"github.com/stretchr/testify/require"

	"SearchRerank/internal/domain"
)

func TestRelevanceScore(t *testing.T) {
	t.Parallel()

	scorer := NewRelevanceScorer(DefaultLists())
	kw := ExtractKeywords("python tutorial")

	// title 2x0.15, snippet 0.08, url 2x0.05, snippet and title length 0.2, .org 0.15
	require.InDelta(t, 0.83, scorer.Score(pythonDocs(), kw), 1e-9)

	neutral := pythonDocs()
	neutral.URL = "https://example.com/python"
	require.InDelta(t, 0.63, scorer.Score(neutral, kw), 1e-9)

	penalized := pythonDocs()
	penalized.URL = "https://ads.promo.example.com/python"
	require.InDelta(t, 0.33, scorer.Score(penalized, kw), 1e-9)

	trusted := pythonDocs()
	trusted.URL = "https://en.wikipedia.org/python"
	require.InDelta(t, 0.78, scorer.Score(trusted, kw), 1e-9)
}

func TestRelevanceScoreWithoutKeywords(t *testing.T) {
	t.Parallel()

	scorer := NewRelevanceScorer(DefaultLists())

	thin := domain.RawResult{Title: "Short", Snippet: "tiny", URL: "https://example.com"}
	require.Equal(t, 0.0, scorer.Score(thin, ExtractKeywords("")))

	require.InDelta(t, 0.35, scorer.Score(pythonDocs(), ExtractKeywords("")), 1e-9)
}

func TestRelevanceScoreClampsToOne(t *testing.T) {
	t.Parallel()

	scorer := NewRelevanceScorer(DefaultLists())
	kw := ExtractKeywords("alpha beta gamma delta epsilon")
	r := domain.RawResult{
		Title:   "alpha beta gamma delta epsilon",
		Snippet: "alpha beta gamma delta epsilon explained in depth",
		URL:     "https://example.com/alpha-beta-gamma-delta-epsilon",
	}
	require.Equal(t, 1.0, scorer.Score(r, kw))
}

func TestRelevanceScoreMonotonicInTitleMatches(t *testing.T) {
	t.Parallel()

	scorer := NewRelevanceScorer(DefaultLists())
	kw := ExtractKeywords("python tutorial")
	titles := []string{
		"A beginner guide",
		"A beginner python guide",
		"A beginner python guide, python edition",
		"A beginner python tutorial guide",
	}

	prev := -1.0
	for _, title := range titles {
		r := domain.RawResult{Title: title, Snippet: "Everything you need to get started", URL: "https://example.com/guide"}
		score := scorer.Score(r, kw)
		require.GreaterOrEqual(t, score, prev, title)
		require.LessOrEqual(t, score, 1.0)
		prev = score
	}
}
