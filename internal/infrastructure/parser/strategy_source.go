package parser

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"SearchRerank/internal/domain"
	"SearchRerank/internal/ports"
	"SearchRerank/internal/scanner"
)

// StrategySource implements ResultSource via registered provider strategies.
type StrategySource struct {
	registry *scanner.Registry
	observer ports.FetchObserver
	logger   *slog.Logger
}

var _ ports.ResultSource = (*StrategySource)(nil)

// NewStrategySource wires the provider registry. observer may be nil.
func NewStrategySource(reg *scanner.Registry, observer ports.FetchObserver, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		observer: observer,
		logger:   log,
	}
}

// Search queries every engine concurrently and concatenates their results in
// engine order. A failing provider contributes no results; only unknown
// engine names and cancellation are errors.
func (s *StrategySource) Search(ctx context.Context, query string, engines []string, count int) ([]domain.RawResult, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("provider registry is not configured")
	}

	providers := make([]scanner.Provider, 0, len(engines))
	for _, name := range engines {
		p, err := s.registry.Resolve(name)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	s.debug("search", "query", query, "engines", len(providers), "count", count)

	perProvider := make([][]domain.RawResult, len(providers))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			results, err := p.Fetch(gctx, scanner.Request{Query: query, Count: count})
			if s.observer != nil {
				s.observer.ObserveFetch(p.Name(), len(results), err)
			}
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.warn("provider failed", "provider", p.Name(), "error", err)
				return nil
			}
			s.debug("provider produced results", "provider", p.Name(), "count", len(results))
			perProvider[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var aggregated []domain.RawResult
	for _, results := range perProvider {
		aggregated = append(aggregated, results...)
	}

	s.debug("strategy source done", "total_results", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
