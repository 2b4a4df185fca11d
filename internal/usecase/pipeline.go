package usecase

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"SearchRerank/internal/domain"
	"SearchRerank/internal/ports"
	"SearchRerank/internal/rerank"
	"SearchRerank/internal/scanner"
)

var (
	// ErrEmptyQuery is returned when a search is requested without a query.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrInvalidCount is returned when the per-engine result count exceeds scanner.MaxCount.
	ErrInvalidCount = errors.New("invalid result count")
)

// PipelineDeps wires all driven adapters into the search pipeline.
type PipelineDeps struct {
	Source   ports.ResultSource
	Reranker *rerank.Reranker
	Observer ports.RerankObserver
	Logger   *slog.Logger
	// Engines and Count are used when a request leaves them unset.
	Engines []string
	Count   int
}

// SearchRequest describes one search.
type SearchRequest struct {
	Query   string
	Engines []string
	Count   int
	// Options overrides the reranker thresholds when set.
	Options *rerank.Options
	// NoFilter returns the raw provider results unranked.
	NoFilter bool
}

// DomainCount is the number of final results from one domain.
type DomainCount struct {
	Domain string
	Count  int
}

// SearchResult is the outcome of one pipeline run.
type SearchResult struct {
	Query   string
	Engines []string
	Results []domain.ScoredResult
	Stats   rerank.Stats
	// Ranked is false when reranking was skipped and scores are absent.
	Ranked     bool
	TopDomains []DomainCount
}

// Page projects the result to the presentation boundary.
func (r SearchResult) Page(showScores bool) domain.Page {
	return domain.Page{
		Query:      r.Query,
		Engines:    r.Engines,
		Results:    r.Results,
		ShowScores: showScores && r.Ranked,
	}
}

// Pipeline implements the fetch-then-rerank workflow.
type Pipeline struct {
	source   ports.ResultSource
	reranker *rerank.Reranker
	observer ports.RerankObserver
	logger   *slog.Logger
	engines  []string
	count    int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		source:   deps.Source,
		reranker: deps.Reranker,
		observer: deps.Observer,
		logger:   logger,
		engines:  deps.Engines,
		count:    deps.Count,
	}
}

// Search fetches raw results from the requested engines and reranks them.
// Options and the result count are validated before anything is fetched.
func (p *Pipeline) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	if req.Query == "" {
		return SearchResult{}, ErrEmptyQuery
	}
	if p.source == nil {
		return SearchResult{}, fmt.Errorf("result source is not configured")
	}

	reranker, err := p.rerankerFor(req)
	if err != nil {
		return SearchResult{}, err
	}

	engines := req.Engines
	if len(engines) == 0 {
		engines = p.engines
	}
	count := req.Count
	if count <= 0 {
		count = p.count
	}
	if count > scanner.MaxCount {
		return SearchResult{}, fmt.Errorf("%w: %d exceeds %d per engine", ErrInvalidCount, count, scanner.MaxCount)
	}

	raw, err := p.source.Search(ctx, req.Query, engines, count)
	if err != nil {
		return SearchResult{}, fmt.Errorf("fetch results: %w", err)
	}

	result := SearchResult{Query: req.Query, Engines: engines}
	if req.NoFilter {
		result.Results = wrap(raw)
		result.Stats = rerank.Stats{Input: len(raw), Output: len(raw)}
		result.TopDomains = topDomains(result.Results, topDomainCount)
		return result, nil
	}

	p.rerank(&result, reranker, raw)
	return result, nil
}

// Rerank runs only the reranker over an already assembled batch.
func (p *Pipeline) Rerank(raw []domain.RawResult, query string, opts *rerank.Options) (SearchResult, error) {
	reranker, err := p.rerankerFor(SearchRequest{Options: opts})
	if err != nil {
		return SearchResult{}, err
	}

	result := SearchResult{Query: query, Engines: sources(raw)}
	p.rerank(&result, reranker, raw)
	return result, nil
}

// Deduplicate is the compatibility mode of the reranker: no score threshold,
// no practical domain cap and no query keywords. query only labels the result.
func (p *Pipeline) Deduplicate(raw []domain.RawResult, query string) (SearchResult, error) {
	opts := rerank.DedupOptions()
	reranker, err := p.rerankerFor(SearchRequest{Options: &opts})
	if err != nil {
		return SearchResult{}, err
	}

	result := SearchResult{Engines: sources(raw)}
	p.rerank(&result, reranker, raw)
	result.Query = query
	return result, nil
}

const topDomainCount = 5

func (p *Pipeline) rerank(result *SearchResult, reranker *rerank.Reranker, raw []domain.RawResult) {
	scored, stats := reranker.Rerank(raw, result.Query)
	result.Results = scored
	result.Stats = stats
	result.Ranked = true
	result.TopDomains = topDomains(scored, topDomainCount)

	if p.observer != nil {
		p.observer.ObserveRerank(stats)
	}

	p.logger.Info("rerank",
		"query", result.Query,
		"raw", stats.Input,
		"kept", stats.Output,
		"dropped", stats.Dropped(),
		"top_domains", fmt.Sprint(result.TopDomains),
	)
}

func (p *Pipeline) rerankerFor(req SearchRequest) (*rerank.Reranker, error) {
	if p.reranker == nil {
		return nil, fmt.Errorf("reranker is not configured")
	}
	if req.Options == nil {
		return p.reranker, nil
	}
	return p.reranker.WithOptions(*req.Options)
}

func wrap(raw []domain.RawResult) []domain.ScoredResult {
	out := make([]domain.ScoredResult, len(raw))
	for i, r := range raw {
		out[i] = domain.ScoredResult{Result: r}
	}
	return out
}

// sources lists distinct result sources in first-seen order.
func sources(raw []domain.RawResult) []string {
	var out []string
	for _, r := range raw {
		if r.Source != "" && !slices.Contains(out, r.Source) {
			out = append(out, r.Source)
		}
	}
	return out
}

// topDomains returns the n most frequent domains, ties broken by first appearance.
func topDomains(results []domain.ScoredResult, n int) []DomainCount {
	var counts []DomainCount
	index := map[string]int{}
	for _, r := range results {
		d := domain.Domain(r.Result.URL)
		if i, ok := index[d]; ok {
			counts[i].Count++
			continue
		}
		index[d] = len(counts)
		counts = append(counts, DomainCount{Domain: d, Count: 1})
	}

	slices.SortStableFunc(counts, func(a, b DomainCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
