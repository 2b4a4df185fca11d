package rerank

import (
	"testing"

	"github.com/stretchr/testify/require"

	"SearchRerank/internal/domain"
)

func newTestReranker(t *testing.T, opts Options) *Reranker {
	t.Helper()
	r, err := New(opts, DefaultLists(), nil)
	require.NoError(t, err)
	return r
}

func endToEndBatch() []domain.RawResult {
	return []domain.RawResult{
		{
			Title:   "Python Tutorial for Beginners",
			Snippet: "Learn python programming step by step with examples",
			URL:     "https://docs.python.org/tutorial",
			Source:  "bing",
		},
		{
			Title:   "python tutorial for beginners",
			Snippet: "Learn python programming step by step with examples.",
			URL:     "https://spam-promo.biz/py",
			Source:  "baidu",
		},
	}
}

func TestRerankEmpty(t *testing.T) {
	t.Parallel()

	r := newTestReranker(t, DefaultOptions())
	out, stats := r.Rerank(nil, "anything")
	require.Empty(t, out)
	require.Zero(t, stats.Input)
	require.Zero(t, stats.Output)
}

func TestRerankEndToEnd(t *testing.T) {
	t.Parallel()

	r := newTestReranker(t, DefaultOptions())
	out, stats := r.Rerank(endToEndBatch(), "python tutorial")

	require.Len(t, out, 1)
	require.Equal(t, endToEndBatch()[0], out[0].Result)
	require.InDelta(t, 0.83, out[0].Scores.Relevance, 1e-9)
	require.Greater(t, out[0].Scores.Final, 0.5)

	require.Equal(t, 2, stats.Input)
	require.Equal(t, 1, stats.Duplicates)
	require.Equal(t, 1, stats.Output)
	require.Equal(t, 1, stats.Dropped())
}

func TestRerankDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	r := newTestReranker(t, DefaultOptions())
	in := endToEndBatch()
	_, _ = r.Rerank(in, "python tutorial")
	require.Equal(t, endToEndBatch(), in)
}

func TestRerankIsDeterministic(t *testing.T) {
	t.Parallel()

	batch := append(endToEndBatch(),
		domain.RawResult{
			Title:   "The Python Tutorial on GitHub",
			Snippet: "Community maintained python tutorial notebooks and exercises",
			URL:     "https://github.com/example/python-tutorial",
		},
		domain.RawResult{
			Title:   "Python (programming language) - Wikipedia",
			Snippet: "Python is a high-level, general-purpose programming language",
			URL:     "https://en.wikipedia.org/wiki/Python_(programming_language)",
		},
	)

	r := newTestReranker(t, DefaultOptions())
	first, firstStats := r.Rerank(batch, "python tutorial")
	second, secondStats := r.Rerank(batch, "python tutorial")
	require.Equal(t, first, second)
	require.Equal(t, firstStats, secondStats)
	require.NotEmpty(t, first)

	for i := 1; i < len(first); i++ {
		require.GreaterOrEqual(t, first[i-1].Scores.Final, first[i].Scores.Final)
	}
}

func TestRerankCountsFilteredRules(t *testing.T) {
	t.Parallel()

	batch := []domain.RawResult{
		{Title: "Best online casino", Snippet: "Play slots and win every single day", URL: "https://example.com/casino"},
		{Title: "Router control page", Snippet: "Configure your home router settings", URL: "http://192.168.0.1/"},
		{Title: "Tiny", Snippet: "Configure your home router settings", URL: "https://example.com/"},
	}

	r := newTestReranker(t, DefaultOptions())
	out, stats := r.Rerank(batch, "router")
	require.Empty(t, out)
	require.Equal(t, 3, stats.Filtered)
	require.Equal(t, map[Rule]int{RuleBlacklist: 1, RuleIPHost: 1, RuleTitleLength: 1}, stats.DropsByRule)
}

func TestRerankBelowThreshold(t *testing.T) {
	t.Parallel()

	strict := newTestReranker(t, Options{MinScore: 1, MaxPerDomain: 3, DuplicateThreshold: 0.85})
	out, stats := strict.Rerank(endToEndBatch(), "python tutorial")
	require.Empty(t, out)
	require.Equal(t, 2, stats.BelowThreshold)
}

func TestRerankDomainCap(t *testing.T) {
	t.Parallel()

	batch := []domain.RawResult{
		{Title: "Python packaging guide", Snippet: "How to build and publish python wheels", URL: "https://example.com/packaging"},
		{Title: "Gardening tips for tomatoes", Snippet: "Grow juicy tomatoes on a sunny balcony", URL: "https://www.example.com/garden"},
		{Title: "Marathon training plan", Snippet: "Sixteen weeks of running workouts for novices", URL: "https://example.com/running"},
	}

	r := newTestReranker(t, Options{MinScore: 0, MaxPerDomain: 1, DuplicateThreshold: 0.85})
	out, stats := r.Rerank(batch, "python")
	require.Len(t, out, 1)
	require.Equal(t, batch[0], out[0].Result)
	require.Equal(t, 2, stats.DomainCapped)
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	t.Parallel()

	_, err := New(Options{MinScore: 2, MaxPerDomain: 3, DuplicateThreshold: 0.85}, DefaultLists(), nil)
	require.ErrorIs(t, err, ErrInvalidOptions)

	r := newTestReranker(t, DefaultOptions())
	_, err = r.WithOptions(Options{MinScore: 0.1, MaxPerDomain: 0, DuplicateThreshold: 0.85})
	require.ErrorIs(t, err, ErrInvalidOptions)

	relaxed, err := r.WithOptions(DedupOptions())
	require.NoError(t, err)
	require.Equal(t, DedupOptions(), relaxed.Options())
	require.Equal(t, DefaultOptions(), r.Options())
}
