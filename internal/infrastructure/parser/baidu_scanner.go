package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SearchRerank/internal/domain"
	"SearchRerank/internal/scanner"
)

const (
	baiduSearchURL = "https://www.baidu.com/s"
	baiduRedirect  = "/link?url="
)

// BaiduScanner scrapes the Baidu web results page.
type BaiduScanner struct {
	fetcher pageFetcher
	baseURL string
}

var _ scanner.Provider = (*BaiduScanner)(nil)

// NewBaiduScanner wires an HTTP client; a nil client gets a 10s timeout.
func NewBaiduScanner(client *http.Client, opts Options) *BaiduScanner {
	base := opts.BaseURL
	if base == "" {
		base = baiduSearchURL
	}
	return &BaiduScanner{
		fetcher: newPageFetcher(client, opts.UserAgent, "https://www.baidu.com/"),
		baseURL: base,
	}
}

// Name identifies the provider inside the registry.
func (b *BaiduScanner) Name() string {
	return "baidu"
}

// Fetch requests one results page and extracts up to req.Count hits.
func (b *BaiduScanner) Fetch(ctx context.Context, req scanner.Request) ([]domain.RawResult, error) {
	count := resultCount(req.Count)
	pageURL, err := buildSearchURL(b.baseURL, map[string]string{
		"wd": req.Query,
		"rn": strconv.Itoa(count),
	})
	if err != nil {
		return nil, err
	}

	doc, err := b.fetcher.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("baidu: %w", err)
	}

	return extractBaiduResults(doc, count, b.Name()), nil
}

func extractBaiduResults(doc *goquery.Document, limit int, source string) []domain.RawResult {
	items := doc.Find(".result")
	items = items.Slice(0, min(limit, items.Length()))
	results := make([]domain.RawResult, 0, items.Length())
	items.Each(func(_ int, item *goquery.Selection) {
		link := item.Find("h3 a").First()
		if link.Length() == 0 {
			return
		}
		href, _ := link.Attr("href")
		results = append(results, domain.RawResult{
			Title:   cleanText(link.Text()),
			URL:     unwrapBaiduLink(href),
			Snippet: cleanText(item.Find(".c-abstract").First().Text()),
			Source:  source,
		})
	})
	return results
}

// unwrapBaiduLink extracts the target of a "/link?url=" redirect when it is
// carried inline; other links are returned unchanged.
func unwrapBaiduLink(href string) string {
	if !strings.HasPrefix(href, baiduRedirect) {
		return href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("url"); target != "" {
		return target
	}
	return href
}
