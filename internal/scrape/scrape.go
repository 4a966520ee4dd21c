package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"drafty/internal/core"
)

// Scraper fetches an account's public timeline from a Nitter-compatible
// mirror and extracts its posts. It implements voice.Scraper.
type Scraper struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// Options configures the scraper.
type Options struct {
	BaseURL   string        // Mirror base URL, e.g. https://nitter.net
	UserAgent string        // User-Agent header sent with requests
	Timeout   time.Duration // Per-request timeout
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		BaseURL:   "https://nitter.net",
		UserAgent: "Drafty/1.0",
		Timeout:   30 * time.Second,
	}
}

// NewScraper creates a scraper for the configured mirror.
func NewScraper(opts Options) *Scraper {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOptions().BaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultOptions().UserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	return &Scraper{
		client:    &http.Client{Timeout: opts.Timeout},
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
	}
}

// FetchPosts fetches up to limit posts from the account's timeline page.
func (s *Scraper) FetchPosts(ctx context.Context, handle string, limit int) ([]core.Post, error) {
	if handle == "" {
		return nil, fmt.Errorf("handle is required")
	}

	pageURL := fmt.Sprintf("%s/%s", s.baseURL, url.PathEscape(strings.TrimPrefix(handle, "@")))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline for %s: %w", handle, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch timeline for %s: status code %d", handle, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timeline HTML for %s: %w", handle, err)
	}

	posts := s.extractPosts(doc, limit)
	if len(posts) == 0 {
		return nil, fmt.Errorf("no posts found on timeline for %s", handle)
	}
	return posts, nil
}

// extractPosts pulls post text and media refs out of a parsed timeline page.
func (s *Scraper) extractPosts(doc *goquery.Document, limit int) []core.Post {
	var posts []core.Post
	now := time.Now().UTC()

	doc.Find(".timeline-item").EachWithBreak(func(i int, item *goquery.Selection) bool {
		if limit > 0 && len(posts) >= limit {
			return false
		}

		text := strings.TrimSpace(item.Find(".tweet-content").Text())
		if text == "" {
			return true
		}

		var mediaRefs []string
		item.Find(".attachments img, .attachments video source").Each(func(_ int, media *goquery.Selection) {
			if src, ok := media.Attr("src"); ok && src != "" {
				mediaRefs = append(mediaRefs, s.absoluteURL(src))
			}
		})

		posts = append(posts, core.Post{
			ID:        uuid.NewString(),
			Text:      collapseWhitespace(text),
			MediaRefs: mediaRefs,
			ScrapedAt: now,
		})
		return true
	})

	return posts
}

func (s *Scraper) absoluteURL(src string) string {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	return s.baseURL + "/" + strings.TrimLeft(src, "/")
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
