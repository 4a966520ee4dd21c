package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"drafty/internal/logger"
)

// DuckDuckGoProvider implements the Provider interface using DuckDuckGo's
// HTML endpoint. No API key required.
type DuckDuckGoProvider struct {
	client    *http.Client
	userAgent string
	limiter   rateLimiter
}

// ProviderOptions configures the HTTP behavior of a search provider.
type ProviderOptions struct {
	Timeout   time.Duration // Per-request timeout
	RateLimit time.Duration // Minimum interval between queries
}

// DefaultProviderOptions returns sensible defaults
func DefaultProviderOptions() ProviderOptions {
	return ProviderOptions{
		Timeout:   30 * time.Second,
		RateLimit: 2 * time.Second,
	}
}

// NewDuckDuckGoProvider creates a new DuckDuckGo search provider with
// default options.
func NewDuckDuckGoProvider() *DuckDuckGoProvider {
	return NewDuckDuckGoProviderWithOptions(DefaultProviderOptions())
}

// NewDuckDuckGoProviderWithOptions creates a new DuckDuckGo search provider.
// Zero option values fall back to the defaults.
func NewDuckDuckGoProviderWithOptions(opts ProviderOptions) *DuckDuckGoProvider {
	defaults := DefaultProviderOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaults.RateLimit
	}
	return &DuckDuckGoProvider{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		limiter:   rateLimiter{interval: opts.RateLimit},
	}
}

// GetName returns the name of this provider
func (d *DuckDuckGoProvider) GetName() string {
	return "DuckDuckGo"
}

// Search performs a search using DuckDuckGo and returns results
func (d *DuckDuckGoProvider) Search(ctx context.Context, query string, config Config) ([]Result, error) {
	d.limiter.wait()

	searchURL := d.buildSearchURL(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed with status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	results := d.parseSearchResults(doc, config.MaxResults)
	logger.Debug("DuckDuckGo search completed", "query", query, "results_found", len(results))

	return results, nil
}

func (d *DuckDuckGoProvider) buildSearchURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("kl", "us-en")
	return "https://html.duckduckgo.com/html/?" + params.Encode()
}

// parseSearchResults extracts search results from the DuckDuckGo HTML page
func (d *DuckDuckGoProvider) parseSearchResults(doc *goquery.Document, maxResults int) []Result {
	var results []Result

	doc.Find("div.result").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if maxResults > 0 && len(results) >= maxResults {
			return false
		}

		link := sel.Find("a.result__a")
		rawURL, ok := link.Attr("href")
		if !ok {
			return true
		}

		finalURL := extractFinalURL(rawURL)
		if finalURL == "" {
			return true
		}

		results = append(results, Result{
			Title:   strings.TrimSpace(link.Text()),
			URL:     finalURL,
			Snippet: strings.TrimSpace(sel.Find("a.result__snippet").Text()),
		})
		return true
	})

	return results
}

// extractFinalURL extracts the actual URL from DuckDuckGo's redirect URL
func extractFinalURL(redirectURL string) string {
	// DuckDuckGo uses URLs like: /l/?uddg=https%3A//example.com/...&rut=...
	if strings.HasPrefix(redirectURL, "/l/?") || strings.HasPrefix(redirectURL, "//duckduckgo.com/l/?") {
		parsed, err := url.Parse(redirectURL)
		if err != nil {
			return ""
		}
		if uddg := parsed.Query().Get("uddg"); uddg != "" {
			decoded, err := url.QueryUnescape(uddg)
			if err != nil {
				return ""
			}
			return decoded
		}
	}

	if strings.HasPrefix(redirectURL, "http") {
		return redirectURL
	}

	return ""
}
