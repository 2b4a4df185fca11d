// Package format renders a final result page. Renderers project fields only;
// they never reorder or drop results.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"SearchRerank/internal/domain"
	"SearchRerank/internal/ports"
)

// Markdown renders a page as a numbered Markdown list.
type Markdown struct{}

var _ ports.Formatter = Markdown{}

// Format writes the page to w.
func (Markdown) Format(w io.Writer, page domain.Page) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Search results: %s\n\n", page.Query)
	if len(page.Results) == 0 {
		b.WriteString("No results found.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Found %d results\n\n", len(page.Results))
	for i, item := range page.Results {
		r := item.Result
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, r.Title)
		fmt.Fprintf(&b, "**Source**: %s\n", r.Source)
		fmt.Fprintf(&b, "**Link**: %s\n\n", r.URL)
		if page.ShowScores {
			s := item.Scores.Rounded()
			fmt.Fprintf(&b, "**Score**: %.3f (relevance %.3f, diversity %.3f)\n\n", s.Final, s.Relevance, s.Diversity)
		}
		if r.Snippet != "" {
			fmt.Fprintf(&b, "%s\n\n", r.Snippet)
		}
		b.WriteString("---\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON renders a page as an indented JSON document.
type JSON struct{}

var _ ports.Formatter = JSON{}

type jsonResult struct {
	domain.RawResult
	Relevance *float64 `json:"relevance,omitempty"`
	Diversity *float64 `json:"diversity,omitempty"`
	Final     *float64 `json:"final,omitempty"`
}

type jsonPage struct {
	Query        string       `json:"query"`
	Engines      []string     `json:"engines"`
	TotalResults int          `json:"total_results"`
	Results      []jsonResult `json:"results"`
}

// Format writes the page to w. Scores appear only when page.ShowScores is set.
func (JSON) Format(w io.Writer, page domain.Page) error {
	out := jsonPage{
		Query:        page.Query,
		Engines:      page.Engines,
		TotalResults: len(page.Results),
		Results:      make([]jsonResult, 0, len(page.Results)),
	}
	if out.Engines == nil {
		out.Engines = []string{}
	}

	for _, item := range page.Results {
		jr := jsonResult{RawResult: item.Result}
		if page.ShowScores {
			s := item.Scores.Rounded()
			jr.Relevance, jr.Diversity, jr.Final = &s.Relevance, &s.Diversity, &s.Final
		}
		out.Results = append(out.Results, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	return nil
}

// ByName resolves "markdown" or "json".
func ByName(name string) (ports.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "markdown", "md":
		return Markdown{}, nil
	case "json":
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", name)
	}
}
