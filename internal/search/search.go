package search

import (
	"context"
	"sync"
	"time"
)

// Result represents a single search result
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Config holds per-query search configuration
type Config struct {
	MaxResults int
	Language   string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		MaxResults: 5,
		Language:   "en",
	}
}

// Provider defines the interface for search providers
type Provider interface {
	// Search performs a search and returns results
	Search(ctx context.Context, query string, config Config) ([]Result, error)
	// GetName returns the name of this provider
	GetName() string
}

// rateLimiter serializes provider calls to respect a minimum interval.
// Safe for concurrent use; callers block until their slot opens.
type rateLimiter struct {
	interval time.Duration
	mu       sync.Mutex
	lastCall time.Time
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if elapsed := time.Since(r.lastCall); elapsed < r.interval {
		time.Sleep(r.interval - elapsed)
	}
	r.lastCall = time.Now()
}
