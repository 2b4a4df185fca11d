package ports

import (
	"context"
	"io"

	"SearchRerank/internal/domain"
	"SearchRerank/internal/rerank"
)

// ResultSource pulls raw results for a query from upstream providers.
type ResultSource interface {
	Search(ctx context.Context, query string, engines []string, count int) ([]domain.RawResult, error)
}

// FetchObserver records the outcome of one provider fetch.
type FetchObserver interface {
	ObserveFetch(provider string, results int, err error)
}

// RerankObserver records per-stage counts of a rerank run.
type RerankObserver interface {
	ObserveRerank(stats rerank.Stats)
}

// Formatter serializes a page for display. It never reorders or drops results.
type Formatter interface {
	Format(w io.Writer, page domain.Page) error
}
