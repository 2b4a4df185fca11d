package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"SearchRerank/internal/domain"
)

func samplePage(showScores bool) domain.Page {
	return domain.Page{
		Query:   "python tutorial",
		Engines: []string{"bing", "baidu"},
		Results: []domain.ScoredResult{
			{
				Result: domain.RawResult{Title: "First", URL: "https://a.org", Snippet: "first snippet", Source: "bing"},
				Scores: domain.Scores{Relevance: 0.83, Diversity: 0.00613, Final: 0.58284},
			},
			{
				Result: domain.RawResult{Title: "Second", URL: "https://b.com", Source: "baidu"},
				Scores: domain.Scores{Relevance: 0.4, Diversity: 0.5, Final: 0.43},
			},
		},
		ShowScores: showScores,
	}
}

func TestMarkdownPreservesOrder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Markdown{}.Format(&buf, samplePage(false)))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "# Search results: python tutorial\n"))
	require.Contains(t, out, "Found 2 results")
	require.Less(t, strings.Index(out, "## 1. First"), strings.Index(out, "## 2. Second"))
	require.Contains(t, out, "first snippet")
	require.NotContains(t, out, "**Score**")
}

func TestMarkdownWithScores(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Markdown{}.Format(&buf, samplePage(true)))
	require.Contains(t, buf.String(), "**Score**: 0.583 (relevance 0.830, diversity 0.006)")
}

func TestMarkdownEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Markdown{}.Format(&buf, domain.Page{Query: "nothing"}))
	require.Equal(t, "# Search results: nothing\n\nNo results found.\n", buf.String())
}

func TestJSONStripsScoresByDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, JSON{}.Format(&buf, samplePage(false)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "python tutorial", decoded["query"])
	require.EqualValues(t, 2, decoded["total_results"])

	results := decoded["results"].([]any)
	first := results[0].(map[string]any)
	require.Equal(t, "First", first["title"])
	require.Equal(t, "", results[1].(map[string]any)["snippet"])
	require.NotContains(t, first, "final")
}

func TestJSONWithScores(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, JSON{}.Format(&buf, samplePage(true)))

	var decoded struct {
		Results []struct {
			Title     string  `json:"title"`
			Relevance float64 `json:"relevance"`
			Diversity float64 `json:"diversity"`
			Final     float64 `json:"final"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Results, 2)
	require.Equal(t, "First", decoded.Results[0].Title)
	require.Equal(t, 0.583, decoded.Results[0].Final)
	require.Equal(t, 0.006, decoded.Results[0].Diversity)
}

func TestByName(t *testing.T) {
	t.Parallel()

	f, err := ByName("JSON")
	require.NoError(t, err)
	require.IsType(t, JSON{}, f)

	f, err = ByName("")
	require.NoError(t, err)
	require.IsType(t, Markdown{}, f)

	_, err = ByName("xml")
	require.Error(t, err)
}
