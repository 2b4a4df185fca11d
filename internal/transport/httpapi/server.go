// Package httpapi exposes the search pipeline over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SearchRerank/internal/config"
	"SearchRerank/internal/domain"
	"SearchRerank/internal/format"
	"SearchRerank/internal/metrics"
	"SearchRerank/internal/rerank"
	"SearchRerank/internal/scanner"
	"SearchRerank/internal/usecase"
)

const maxBodyBytes = 4 << 20

// Searcher is the use case surface the API drives.
type Searcher interface {
	Search(ctx context.Context, req usecase.SearchRequest) (usecase.SearchResult, error)
	Rerank(raw []domain.RawResult, query string, opts *rerank.Options) (usecase.SearchResult, error)
	Deduplicate(raw []domain.RawResult, query string) (usecase.SearchResult, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves /v1/search, /v1/rerank, /healthz and /metrics.
type Server struct {
	searcher      Searcher
	defaults      rerank.Options
	gatherer      prometheus.Gatherer
	httpMetrics   *metrics.HTTP
	logger        *slog.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. defaults seeds per-request option
// overrides. gatherer and httpMetrics may be nil.
func NewServer(searcher Searcher, defaults rerank.Options, gatherer prometheus.Gatherer, httpMetrics *metrics.HTTP, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		searcher:    searcher,
		defaults:    defaults,
		gatherer:    gatherer,
		httpMetrics: httpMetrics,
		logger:      logger,
		errorHandlers: []errorHandler{
			sentinelHandler(rerank.ErrInvalidOptions, http.StatusBadRequest, "invalid_options"),
			sentinelHandler(scanner.ErrUnknownProvider, http.StatusBadRequest, "unknown_engine"),
			sentinelHandler(usecase.ErrEmptyQuery, http.StatusBadRequest, "missing_query"),
			sentinelHandler(usecase.ErrInvalidCount, http.StatusBadRequest, "invalid_count"),
		},
	}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.jsonRecoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(s.requestLogger)
	if s.httpMetrics != nil {
		r.Use(s.httpMetrics.Middleware)
	}

	r.Get("/healthz", s.health)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", s.search)
		r.Post("/rerank", s.rerank)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// search handles GET /v1/search.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params{values: q}

	req := usecase.SearchRequest{
		Query:    q.Get("q"),
		Engines:  config.SplitEngines(q.Get("engines")),
		Count:    p.intParam("count", 0),
		NoFilter: p.boolParam("no_filter"),
	}
	showScores := p.boolParam("show_scores")

	opts, overridden := s.defaults, false
	if v, ok := p.floatParam("min_score"); ok {
		opts.MinScore, overridden = v, true
	}
	if v, ok := p.intParamOK("max_per_domain"); ok {
		opts.MaxPerDomain, overridden = v, true
	}
	if v, ok := p.floatParam("duplicate_threshold"); ok {
		opts.DuplicateThreshold, overridden = v, true
	}
	if p.err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", p.err.Error())
		return
	}
	if overridden {
		req.Options = &opts
	}

	res, err := s.searcher.Search(r.Context(), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, res.Page(showScores))
}

type rerankOptions struct {
	MinScore           *float64 `json:"min_score"`
	MaxPerDomain       *int     `json:"max_per_domain"`
	DuplicateThreshold *float64 `json:"duplicate_threshold"`
}

type rerankRequest struct {
	Query      string             `json:"query"`
	Results    []domain.RawResult `json:"results"`
	Options    *rerankOptions     `json:"options"`
	DedupOnly  bool               `json:"dedup_only"`
	ShowScores bool               `json:"show_scores"`
}

// rerank handles POST /v1/rerank over a caller supplied batch.
func (s *Server) rerank(w http.ResponseWriter, r *http.Request) {
	var body rerankRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
		return
	}

	if body.DedupOnly {
		res, err := s.searcher.Deduplicate(body.Results, body.Query)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		writePage(w, res.Page(body.ShowScores))
		return
	}

	opts := s.defaults
	if o := body.Options; o != nil {
		if o.MinScore != nil {
			opts.MinScore = *o.MinScore
		}
		if o.MaxPerDomain != nil {
			opts.MaxPerDomain = *o.MaxPerDomain
		}
		if o.DuplicateThreshold != nil {
			opts.DuplicateThreshold = *o.DuplicateThreshold
		}
	}

	res, err := s.searcher.Rerank(body.Results, body.Query, &opts)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writePage(w, res.Page(body.ShowScores))
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("request failed",
		"path", r.URL.Path,
		"request_id", chiMiddleware.GetReqID(r.Context()),
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

// jsonRecoverer returns JSON instead of a plain text stacktrace.
func (s *Server) jsonRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				s.logger.Error("panic recovered", "panic", rvr, "path", r.URL.Path)
				writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestLogger emits one line per request and echoes X-Request-ID.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := chiMiddleware.GetReqID(r.Context())
		if requestID != "" {
			w.Header().Set("X-Request-ID", requestID)
		}

		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("http_request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"latency", time.Since(start),
			"response_bytes", ww.BytesWritten(),
		)
	})
}

func writePage(w http.ResponseWriter, page domain.Page) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = format.JSON{}.Format(w, page)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// params parses optional query parameters, keeping the first error.
type params struct {
	values url.Values
	err    error
}

func (p *params) intParam(name string, fallback int) int {
	if v, ok := p.intParamOK(name); ok {
		return v
	}
	return fallback
}

func (p *params) intParamOK(name string) (int, bool) {
	raw := p.values.Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(name, raw)
		return 0, false
	}
	return v, true
}

func (p *params) floatParam(name string) (float64, bool) {
	raw := p.values.Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(name, raw)
		return 0, false
	}
	return v, true
}

func (p *params) boolParam(name string) bool {
	raw := p.values.Get(name)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(name, raw)
		return false
	}
	return v
}

func (p *params) fail(name, raw string) {
	if p.err == nil {
		p.err = errors.New("parameter " + name + " has invalid value " + strconv.Quote(raw))
	}
}
