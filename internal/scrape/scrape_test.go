package scrape

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

const timelineHTML = `<!DOCTYPE html>
<html>
<body>
  <div class="timeline">
    <div class="timeline-item">
      <div class="tweet-content">First post about shipping
        the importer</div>
      <div class="attachments">
        <img src="/pic/media%2Fabc.jpg">
      </div>
    </div>
    <div class="timeline-item">
      <div class="tweet-content">Second post, no media</div>
    </div>
    <div class="timeline-item">
      <div class="tweet-content"></div>
    </div>
    <div class="timeline-item">
      <div class="tweet-content">Third post with absolute media</div>
      <div class="attachments">
        <video><source src="https://cdn.example.com/clip.mp4"></video>
      </div>
    </div>
  </div>
</body>
</html>`

func newTimelineServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jane" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, timelineHTML)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchPosts(t *testing.T) {
	server := newTimelineServer(t)
	scraper := NewScraper(Options{BaseURL: server.URL})

	posts, err := scraper.FetchPosts(context.Background(), "jane", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts (empty item skipped), got %d", len(posts))
	}

	// Whitespace inside the tweet content collapses onto one line.
	if posts[0].Text != "First post about shipping the importer" {
		t.Errorf("unexpected first post text: %q", posts[0].Text)
	}
	if len(posts[0].MediaRefs) != 1 {
		t.Fatalf("expected 1 media ref on first post, got %d", len(posts[0].MediaRefs))
	}
	if posts[0].MediaRefs[0] != server.URL+"/pic/media%2Fabc.jpg" {
		t.Errorf("relative media ref not resolved: %q", posts[0].MediaRefs[0])
	}
	if posts[2].MediaRefs[0] != "https://cdn.example.com/clip.mp4" {
		t.Errorf("absolute media ref was rewritten: %q", posts[2].MediaRefs[0])
	}

	for i, post := range posts {
		if post.ID == "" {
			t.Errorf("post %d has no ID", i)
		}
		if post.ScrapedAt.IsZero() {
			t.Errorf("post %d has no scrape timestamp", i)
		}
	}
}

func TestFetchPostsRespectsLimit(t *testing.T) {
	server := newTimelineServer(t)
	scraper := NewScraper(Options{BaseURL: server.URL})

	posts, err := scraper.FetchPosts(context.Background(), "jane", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("expected 2 posts with limit, got %d", len(posts))
	}
}

func TestFetchPostsStripsAtPrefix(t *testing.T) {
	server := newTimelineServer(t)
	scraper := NewScraper(Options{BaseURL: server.URL})

	posts, err := scraper.FetchPosts(context.Background(), "@jane", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) == 0 {
		t.Error("expected posts when handle carries an @ prefix")
	}
}

func TestFetchPostsErrors(t *testing.T) {
	server := newTimelineServer(t)
	scraper := NewScraper(Options{BaseURL: server.URL})

	if _, err := scraper.FetchPosts(context.Background(), "", 0); err == nil {
		t.Error("expected error for empty handle")
	}
	if _, err := scraper.FetchPosts(context.Background(), "unknown", 0); err == nil {
		t.Error("expected error for 404 timeline")
	}
}

func TestFetchPostsEmptyTimeline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html><body><div class="timeline"></div></body></html>`)
	}))
	defer server.Close()

	scraper := NewScraper(Options{BaseURL: server.URL})
	if _, err := scraper.FetchPosts(context.Background(), "jane", 0); err == nil {
		t.Error("expected error for a timeline with no posts")
	}
}
