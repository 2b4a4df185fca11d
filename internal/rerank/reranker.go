// Package rerank filters, scores, caps and deduplicates a batch of raw
// search results for one query. Every stage is a pure transform over the
// in-memory batch; a Reranker holds configuration only and is safe for
// concurrent use.
package rerank

import (
	"fmt"
	"log/slog"

	"SearchRerank/internal/domain"
)

// Stats counts what each stage removed from one run.
type Stats struct {
	Input          int
	Filtered       int
	BelowThreshold int
	DomainCapped   int
	Duplicates     int
	Output         int
	DropsByRule    map[Rule]int
}

// Dropped is the number of input results missing from the output.
func (s Stats) Dropped() int {
	return s.Input - s.Output
}

// Reranker runs the quality filter, scorers, ranker, domain cap and
// near-duplicate reducer in sequence.
type Reranker struct {
	opts   Options
	filter *QualityFilter
	scorer *RelevanceScorer
	logger *slog.Logger
}

// New validates opts and builds a Reranker over the given lists.
func New(opts Options, lists Lists, logger *slog.Logger) (*Reranker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reranker{
		opts:   opts,
		filter: NewQualityFilter(lists),
		scorer: NewRelevanceScorer(lists),
		logger: logger,
	}, nil
}

// Options returns the thresholds in effect.
func (r *Reranker) Options() Options {
	return r.opts
}

// WithOptions returns a copy of r using opts, sharing its lists.
func (r *Reranker) WithOptions(opts Options) (*Reranker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	clone := *r
	clone.opts = opts
	return &clone, nil
}

// Rerank returns the curated subset of results in rank order. Inputs are
// never modified; each output carries the untouched RawResult and its scores.
func (r *Reranker) Rerank(results []domain.RawResult, query string) ([]domain.ScoredResult, Stats) {
	stats := Stats{Input: len(results), DropsByRule: map[Rule]int{}}
	if len(results) == 0 {
		return nil, stats
	}

	kw := ExtractKeywords(query)

	survivors := make([]domain.RawResult, 0, len(results))
	for _, res := range results {
		if drop, reason := r.filter.ShouldDrop(res, kw); drop {
			stats.Filtered++
			stats.DropsByRule[reason.Rule]++
			r.logger.Debug("result filtered", "reason", reason.String(), "url", res.URL)
			continue
		}
		survivors = append(survivors, res)
	}

	diversity := DiversityScores(survivors)
	scored := make([]domain.ScoredResult, len(survivors))
	for i, res := range survivors {
		relevance := r.scorer.Score(res, kw)
		scored[i] = domain.ScoredResult{
			Result: res,
			Scores: domain.Scores{
				Relevance: relevance,
				Diversity: diversity[i],
				Final:     FinalScore(relevance, diversity[i]),
			},
		}
	}

	ranked, below := RankByFinal(scored, r.opts.MinScore)
	stats.BelowThreshold = below

	capped, capDropped := CapPerDomain(ranked, r.opts.MaxPerDomain)
	stats.DomainCapped = capDropped

	final, dupes := RemoveNearDuplicates(capped, r.opts.DuplicateThreshold)
	stats.Duplicates = dupes
	stats.Output = len(final)

	r.logger.Debug("rerank done",
		"keywords", fmt.Sprint(kw.Sorted()),
		"input", stats.Input,
		"filtered", stats.Filtered,
		"below_threshold", stats.BelowThreshold,
		"domain_capped", stats.DomainCapped,
		"duplicates", stats.Duplicates,
		"output", stats.Output,
	)
	return final, stats
}
