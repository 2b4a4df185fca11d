package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"SearchRerank/internal/rerank"
	"SearchRerank/internal/scanner"
	"SearchRerank/internal/usecase"
)

const batchJSON = `[
  {"title": "Effective Go documentation", "url": "https://go.dev/doc/effective_go",
   "snippet": "Tips for writing clear, idiomatic Go code from the Go team.", "source": "bing"},
  {"title": "Effective Go documentation", "url": "https://go.dev/doc/effective_go",
   "snippet": "Tips for writing clear, idiomatic Go code from the Go team.", "source": "baidu"},
  {"title": "Effective Go mirror", "url": "http://172.16.0.4/go",
   "snippet": "A copy of the Go documentation on a numeric host.", "source": "bing"}
]`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SEARCH_RERANK_CONFIG", "")
	t.Setenv("SEARCH_RERANK_ENGINES", "")

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRerankCommandMarkdown(t *testing.T) {
	out, err := execute(t, batchJSON, "rerank", "--query", "effective go", "--show-scores")
	require.NoError(t, err)
	require.Contains(t, out, "# Search results: effective go")
	require.Contains(t, out, "Found 1 results")
	require.Contains(t, out, "## 1. Effective Go documentation")
	require.Contains(t, out, "**Score**:")
	require.NotContains(t, out, "172.16.0.4")
}

func TestRerankCommandDedupOnlyJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"query": "effective go", "results": `+batchJSON+`}`), 0o600))

	out, err := execute(t, "", "rerank", "--input", path, "--dedup-only", "-j")
	require.NoError(t, err)

	var page struct {
		Query        string `json:"query"`
		TotalResults int    `json:"total_results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Equal(t, "effective go", page.Query)
	// the quality filter still runs under --dedup-only
	require.Equal(t, 1, page.TotalResults)
}

func TestRerankCommandRejectsInvalidThreshold(t *testing.T) {
	_, err := execute(t, batchJSON, "rerank", "--dup-threshold", "1.5")
	require.ErrorIs(t, err, rerank.ErrInvalidOptions)
}

func TestRerankCommandEmptyInput(t *testing.T) {
	_, err := execute(t, "  ", "rerank")
	require.ErrorContains(t, err, "input is empty")
}

func TestSearchCommandRejectsInvalidOptionsBeforeFetching(t *testing.T) {
	_, err := execute(t, "", "search", "--min-score", "-0.5", "python")
	require.ErrorIs(t, err, rerank.ErrInvalidOptions)
}

func TestSearchCommandRejectsOversizedCount(t *testing.T) {
	_, err := execute(t, "", "search", "-e", "bing", "--num-results", "1099511627776", "python")
	require.ErrorIs(t, err, usecase.ErrInvalidCount)
}

func TestSearchCommandLowercasesEngines(t *testing.T) {
	_, err := execute(t, "", "search", "-e", "AltaVista", "python")
	require.ErrorIs(t, err, scanner.ErrUnknownProvider)
	require.ErrorContains(t, err, "altavista")
	require.NotContains(t, err.Error(), "AltaVista")
}

func TestSearchCommandNeedsQuery(t *testing.T) {
	_, err := execute(t, "", "search")
	require.Error(t, err)
}

func TestReadBatchFormats(t *testing.T) {
	batch, err := readBatch(strings.NewReader(batchJSON), "-")
	require.NoError(t, err)
	require.Len(t, batch.Results, 3)
	require.Empty(t, batch.Query)

	_, err = readBatch(strings.NewReader("{not json"), "")
	require.ErrorContains(t, err, "decode input")
}
