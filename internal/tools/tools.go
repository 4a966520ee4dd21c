// Package tools exposes web search and page fetch as function declarations
// the model can invoke mid-generation through the llm client's tool loop.
package tools

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"drafty/internal/fetch"
	"drafty/internal/llm"
	"drafty/internal/search"
)

// WebSearchTool lets the model run a web search while generating.
type WebSearchTool struct {
	provider   search.Provider
	maxResults int
}

// NewWebSearchTool wraps a search provider as a model tool.
func NewWebSearchTool(provider search.Provider, maxResults int) *WebSearchTool {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &WebSearchTool{provider: provider, maxResults: maxResults}
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: "Search the web for current information. Returns a list of results with title, url and snippet.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"query": {
					Type:        genai.TypeString,
					Description: "The search query",
				},
			},
			Required: []string{"query"},
		},
	}
}

func (t *WebSearchTool) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, fmt.Errorf("query argument is required")
	}

	config := search.DefaultConfig()
	config.MaxResults = t.maxResults

	results, err := t.provider.Search(ctx, query, config)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	items := make([]map[string]any, 0, len(results))
	for _, result := range results {
		items = append(items, map[string]any{
			"title":   result.Title,
			"url":     result.URL,
			"snippet": result.Snippet,
		})
	}
	return map[string]any{"results": items}, nil
}

// FetchPageTool lets the model read a web page while generating.
type FetchPageTool struct {
	fetcher *fetch.Fetcher
}

// NewFetchPageTool wraps a page fetcher as a model tool.
func NewFetchPageTool(timeout time.Duration) *FetchPageTool {
	return &FetchPageTool{fetcher: fetch.NewFetcher(timeout)}
}

func (t *FetchPageTool) Name() string { return "fetch_page" }

func (t *FetchPageTool) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        t.Name(),
		Description: "Fetch a web page and return its readable text content.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"url": {
					Type:        genai.TypeString,
					Description: "The http(s) URL of the page to fetch",
				},
			},
			Required: []string{"url"},
		},
	}
}

func (t *FetchPageTool) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	pageURL, _ := args["url"].(string)
	if pageURL == "" {
		return nil, fmt.Errorf("url argument is required")
	}

	text, err := t.fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return map[string]any{"content": text}, nil
}

// Options configures the default tool set.
type Options struct {
	MaxResults    int           // Max search results per query
	SearchTimeout time.Duration // Per-query HTTP timeout
	RateLimit     time.Duration // Minimum interval between queries
	FetchTimeout  time.Duration // Per-page HTTP timeout
}

// Default returns the standard tool set backed by DuckDuckGo search and the
// page fetcher. Zero option values fall back to the provider defaults.
func Default(opts Options) []llm.Tool {
	provider := search.NewDuckDuckGoProviderWithOptions(search.ProviderOptions{
		Timeout:   opts.SearchTimeout,
		RateLimit: opts.RateLimit,
	})
	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	return []llm.Tool{
		NewWebSearchTool(provider, opts.MaxResults),
		NewFetchPageTool(fetchTimeout),
	}
}
