package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SearchRerank/internal/config"
	"SearchRerank/internal/domain"
	"SearchRerank/internal/infrastructure/parser"
	"SearchRerank/internal/rerank"
	"SearchRerank/internal/scanner"
	"SearchRerank/internal/usecase"
)

const bingPage = `
<ol id="b_results">
  <li class="b_algo">
    <h2><a href="https://go.dev/doc/effective_go">Effective Go documentation</a></h2>
    <div class="b_caption"><p>Tips for writing clear, idiomatic Go code from the Go team.</p></div>
  </li>
  <li class="b_algo">
    <h2><a href="https://github.com/golang/go/wiki/CodeReviewComments">Go code review comments</a></h2>
    <div class="b_caption"><p>Common comments collected from reviews of Go code on the wiki.</p></div>
  </li>
  <li class="b_algo">
    <h2><a href="http://172.16.0.4/go">Effective Go mirror</a></h2>
    <div class="b_caption"><p>A copy of the Go documentation on a numeric host.</p></div>
  </li>
</ol>`

func newTestApp(t *testing.T) *Application {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(bingPage))
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Default()
	cfg.Providers.Engines = []string{"bing"}

	providers := scanner.NewRegistry()
	providers.Register(parser.NewBingScanner(upstream.Client(), parser.Options{BaseURL: upstream.URL + "/search"}))

	a, err := newWithProviders(cfg, slog.New(slog.DiscardHandler), providers)
	require.NoError(t, err)
	return a
}

func TestApplicationSearch(t *testing.T) {
	a := newTestApp(t)

	res, err := a.Search(context.Background(), usecase.SearchRequest{Query: "effective go"})
	require.NoError(t, err)
	require.Equal(t, 3, res.Stats.Input)
	require.Equal(t, 1, res.Stats.DropsByRule[rerank.RuleIPHost])
	require.Len(t, res.Results, 2)
	require.Equal(t, "Effective Go documentation", res.Results[0].Result.Title)
	require.Equal(t, "bing", res.Results[0].Result.Source)
}

func TestApplicationUnknownEngine(t *testing.T) {
	a := newTestApp(t)

	_, err := a.Search(context.Background(), usecase.SearchRequest{Query: "go", Engines: []string{"baidu"}})
	require.ErrorIs(t, err, scanner.ErrUnknownProvider)
}

func TestApplicationDeduplicate(t *testing.T) {
	a := newTestApp(t)
	raw := []domain.RawResult{
		{Title: "Effective Go documentation", URL: "https://go.dev/doc/effective_go", Snippet: "Tips for writing clear, idiomatic Go code from the Go team."},
		{Title: "Effective Go documentation", URL: "https://go.dev/doc/effective_go", Snippet: "Tips for writing clear, idiomatic Go code from the Go team."},
	}

	res, err := a.Deduplicate(raw, "effective go")
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	require.Equal(t, 1, res.Stats.Duplicates)
	require.Equal(t, "effective go", res.Query)

	opts := rerank.DefaultOptions()
	opts.MaxPerDomain = 1
	res, err = a.Rerank(raw, "effective go", &opts)
	require.NoError(t, err)
	require.Equal(t, 1, res.Stats.DomainCapped)
}

func TestApplicationHandler(t *testing.T) {
	a := newTestApp(t)
	handler, err := a.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/search?q=effective+go&show_scores=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalResults int `json:"total_results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.TotalResults)
}

func TestApplicationServeStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.HTTP.Listen = "127.0.0.1:0"
	cfg.HTTP.ShutdownTimeout = time.Second
	a, err := newWithProviders(cfg, slog.New(slog.DiscardHandler), scanner.NewRegistry())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
