package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// maxPageChars caps the cleaned text handed back to the model so a large
// page cannot blow the prompt budget.
const maxPageChars = 8000

// Fetcher fetches web pages and extracts their readable text.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a fetcher with the given timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: "Drafty/1.0",
	}
}

// FetchPage fetches a URL and returns the page's cleaned plain text.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get URL %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL %s: status code %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}

	text, err := ExtractText(doc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", pageURL, err)
	}
	return text, nil
}

// ExtractText pulls readable text out of a parsed HTML document, preferring
// common main-content containers over the full body.
func ExtractText(doc *goquery.Document) (string, error) {
	doc.Find("script, style, nav, footer, header, aside, form, iframe, noscript").Remove()

	var text string
	mainContentSelectors := []string{"article", "main", ".main", "#main", ".content", "#content", ".post-body", ".entry-content"}
	for _, selector := range mainContentSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text += s.Text() + " "
		})
		if strings.TrimSpace(text) != "" {
			break
		}
	}

	if strings.TrimSpace(text) == "" {
		text = doc.Find("body").Text()
	}

	cleanedText := strings.Join(strings.Fields(text), " ")
	if cleanedText == "" {
		return "", fmt.Errorf("no meaningful text content found after parsing")
	}

	if len(cleanedText) > maxPageChars {
		cleanedText = cleanedText[:maxPageChars] + "..."
	}
	return cleanedText, nil
}
