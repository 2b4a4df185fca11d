package parser

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"SearchRerank/internal/domain"
	"SearchRerank/internal/scanner"
)

const bingSearchURL = "https://www.bing.com/search"

// BingScanner scrapes the Bing web results page.
type BingScanner struct {
	fetcher pageFetcher
	baseURL string
}

var _ scanner.Provider = (*BingScanner)(nil)

// NewBingScanner wires an HTTP client; a nil client gets a 10s timeout.
func NewBingScanner(client *http.Client, opts Options) *BingScanner {
	base := opts.BaseURL
	if base == "" {
		base = bingSearchURL
	}
	return &BingScanner{
		fetcher: newPageFetcher(client, opts.UserAgent, ""),
		baseURL: base,
	}
}

// Name identifies the provider inside the registry.
func (b *BingScanner) Name() string {
	return "bing"
}

// Fetch requests one results page and extracts up to req.Count hits.
func (b *BingScanner) Fetch(ctx context.Context, req scanner.Request) ([]domain.RawResult, error) {
	count := resultCount(req.Count)
	pageURL, err := buildSearchURL(b.baseURL, map[string]string{
		"q":     req.Query,
		"count": strconv.Itoa(count),
	})
	if err != nil {
		return nil, err
	}

	doc, err := b.fetcher.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("bing: %w", err)
	}

	return extractBingResults(doc, count, b.Name()), nil
}

func extractBingResults(doc *goquery.Document, limit int, source string) []domain.RawResult {
	items := doc.Find(".b_algo")
	items = items.Slice(0, min(limit, items.Length()))
	results := make([]domain.RawResult, 0, items.Length())
	items.Each(func(_ int, item *goquery.Selection) {
		link := item.Find("h2 a").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		results = append(results, domain.RawResult{
			Title:   cleanText(link.Text()),
			URL:     href,
			Snippet: cleanText(item.Find(".b_caption p").First().Text()),
			Source:  source,
		})
	})
	return results
}
