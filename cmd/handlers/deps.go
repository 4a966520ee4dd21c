package handlers

import (
	"context"
	"fmt"
	"time"

	"drafty/internal/config"
	"drafty/internal/core"
	"drafty/internal/llm"
	"drafty/internal/scrape"
	"drafty/internal/store"
	"drafty/internal/tools"
	"drafty/internal/voice"
)

// openStore opens the profile store under the configured data directory.
func openStore() (*store.Store, error) {
	return store.NewStore(config.Get().App.DataDir)
}

// newScraper builds the timeline scraper from config.
func newScraper() *scrape.Scraper {
	cfg := config.Get().Scrape
	return scrape.NewScraper(scrape.Options{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   parseDuration(cfg.Timeout, 30*time.Second),
	})
}

// parseDuration parses a config duration string, falling back when unset or
// malformed.
func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// configuredClient adapts the llm client so every GenerateText call carries
// the configured generation options, and runs the web tools when
// search.enabled is set.
type configuredClient struct {
	client  *llm.Client
	options *llm.TextGenerationOptions
	tools   []llm.Tool
}

func (c *configuredClient) GenerateText(ctx context.Context, prompt string, options interface{}) (string, error) {
	if len(c.tools) > 0 {
		return c.client.GenerateWithTools(ctx, prompt, c.tools)
	}
	return c.client.GenerateText(ctx, prompt, c.options)
}

// newGenerator wires the orchestrator from config: Gemini client, profile
// store, scraper, and optionally the model-side web tools.
func newGenerator(profileStore *store.Store) (*voice.Generator, error) {
	cfg := config.Get()

	client, err := llm.NewClient(cfg.AI.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	modelClient := &configuredClient{
		client: client,
		options: &llm.TextGenerationOptions{
			MaxTokens:   cfg.AI.Gemini.MaxTokens,
			Temperature: cfg.AI.Gemini.Temperature,
		},
	}
	if cfg.Search.Enabled {
		modelClient.tools = tools.Default(tools.Options{
			MaxResults:    cfg.Search.MaxResults,
			SearchTimeout: parseDuration(cfg.Search.Timeout, 15*time.Second),
			RateLimit:     parseDuration(cfg.Search.RateLimit, 2*time.Second),
			FetchTimeout:  parseDuration(cfg.Search.Timeout, 30*time.Second),
		})
	}

	options := voice.DefaultGeneratorOptions()
	options.ModelName = client.ModelName()
	options.Prompt.MinChars = cfg.Generation.MinPostChars
	options.Prompt.MaxChars = cfg.Generation.MaxPostChars
	options.Prompt.StylePosts = cfg.Generation.StylePosts
	options.ScrapeLimit = cfg.Scrape.MaxPosts

	return voice.NewGenerator(modelClient, profileStore, newScraper(), options), nil
}

// printDrafts writes drafts to stdout in a scannable plain format.
func printDrafts(drafts []core.Draft) {
	for i, draft := range drafts {
		fmt.Printf("%d. %s\n", i+1, draft.Text)
		if draft.Community != nil {
			fmt.Printf("   community: %s\n", *draft.Community)
		}
		if draft.Reasoning != "" {
			fmt.Printf("   reasoning: %s\n", draft.Reasoning)
		}
		fmt.Println()
	}
}
