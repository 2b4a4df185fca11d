package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"SearchRerank/internal/config"
	"SearchRerank/internal/domain"
	"SearchRerank/internal/infrastructure/parser"
	"SearchRerank/internal/logging"
	"SearchRerank/internal/metrics"
	"SearchRerank/internal/rerank"
	"SearchRerank/internal/scanner"
	"SearchRerank/internal/transport/httpapi"
	"SearchRerank/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	pipeline *usecase.Pipeline
}

// New builds the provider registry, metrics, reranker and pipeline.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format, nil)
	}

	client := &http.Client{Timeout: cfg.Providers.Timeout}
	providers := scanner.NewRegistry()
	providers.Register(parser.NewBingScanner(client, parser.Options{
		BaseURL:   cfg.Providers.Bing.BaseURL,
		UserAgent: cfg.Providers.UserAgent,
	}))
	providers.Register(parser.NewBaiduScanner(client, parser.Options{
		BaseURL:   cfg.Providers.Baidu.BaseURL,
		UserAgent: cfg.Providers.UserAgent,
	}))
	return newWithProviders(cfg, baseLogger, providers)
}

func newWithProviders(cfg config.Config, baseLogger *slog.Logger, providers *scanner.Registry) (*Application, error) {
	registry := prometheus.NewRegistry()
	collectors, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	reranker, err := rerank.New(cfg.Rerank.Options(), cfg.Rerank.Lists, baseLogger.With("component", "rerank"))
	if err != nil {
		return nil, err
	}

	source := parser.NewStrategySource(providers, collectors, baseLogger.With("component", "source"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:   source,
		Reranker: reranker,
		Observer: collectors,
		Logger:   baseLogger.With("component", "pipeline"),
		Engines:  cfg.Providers.Engines,
		Count:    cfg.Providers.ResultsPerEngine,
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		registry: registry,
		pipeline: pipeline,
	}, nil
}

// Search runs one fetch-and-rerank pass.
func (a *Application) Search(ctx context.Context, req usecase.SearchRequest) (usecase.SearchResult, error) {
	return a.pipeline.Search(ctx, req)
}

// Rerank reranks a batch that was fetched elsewhere.
func (a *Application) Rerank(raw []domain.RawResult, query string, opts *rerank.Options) (usecase.SearchResult, error) {
	return a.pipeline.Rerank(raw, query, opts)
}

// Deduplicate runs the dedup-only compatibility mode over a batch.
func (a *Application) Deduplicate(raw []domain.RawResult, query string) (usecase.SearchResult, error) {
	return a.pipeline.Deduplicate(raw, query)
}

// Handler builds the HTTP API on top of the pipeline.
func (a *Application) Handler() (http.Handler, error) {
	httpMetrics, err := metrics.NewHTTP(a.registry)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}
	server := httpapi.NewServer(a.pipeline, a.cfg.Rerank.Options(), a.registry, httpMetrics, a.logger.With("component", "http"))
	return server.Router(), nil
}

// Serve listens on cfg.HTTP.Listen until ctx is cancelled, then shuts down
// gracefully.
func (a *Application) Serve(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         a.cfg.HTTP.Listen,
		Handler:      handler,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info("server stopped gracefully")
	return nil
}
