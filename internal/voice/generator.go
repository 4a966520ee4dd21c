package voice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drafty/internal/core"
	"drafty/internal/logger"
)

// ModelClient defines the interface for LLM operations
type ModelClient interface {
	// GenerateText generates text from a prompt
	GenerateText(ctx context.Context, prompt string, options interface{}) (string, error)
}

// ProfileStore is the persistence collaborator, keyed by account handle.
// Get returns an empty default profile when the handle is unknown.
type ProfileStore interface {
	GetProfile(handle string) (*core.AccountProfile, error)
	PutProfile(profile *core.AccountProfile) error
}

// Scraper is the external collaborator that fetches an account's raw posts.
type Scraper interface {
	FetchPosts(ctx context.Context, handle string, limit int) ([]core.Post, error)
}

// Precondition errors surfaced before any model call is attempted.
var (
	ErrNoPosts      = errors.New("profile has no posts to analyze")
	ErrNoAnalysis   = errors.New("profile has no style analysis; run analyze first")
	ErrInvalidCount = errors.New("draft count must be between 1 and 20")
	// ErrTweakContract marks a tweak whose extraction did not produce
	// exactly the fixed number of usable rewrites.
	ErrTweakContract = errors.New("tweak did not produce exactly 3 usable rewrites")
)

// Generator ties the profile store, prompt builders, model client and
// extractors into the public generation operations. It is stateless between
// calls and safe for concurrent use; the store is the only shared-resource
// touchpoint and its last-writer-wins semantics are the store's concern.
type Generator struct {
	llmClient ModelClient
	store     ProfileStore
	scraper   Scraper
	options   GeneratorOptions
}

// GeneratorOptions configures the generator behavior
type GeneratorOptions struct {
	ModelName   string // Stamped onto generated analyses
	Prompt      PromptOptions
	ScrapeLimit int // Max posts fetched when analyze has to scrape first
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		ModelName:   "gemini-2.5-flash-preview-05-20",
		Prompt:      DefaultPromptOptions(),
		ScrapeLimit: 100,
	}
}

// NewGenerator creates a generator. The scraper may be nil, in which case
// Analyze fails on profiles without posts instead of fetching them.
func NewGenerator(llmClient ModelClient, store ProfileStore, scraper Scraper, options GeneratorOptions) *Generator {
	return &Generator{
		llmClient: llmClient,
		store:     store,
		scraper:   scraper,
		options:   options,
	}
}

// NewGeneratorWithDefaults creates a generator with default options.
func NewGeneratorWithDefaults(llmClient ModelClient, store ProfileStore, scraper Scraper) *Generator {
	return NewGenerator(llmClient, store, scraper, DefaultGeneratorOptions())
}

// Analyze runs a style analysis over the account's posts and persists the
// result. If the stored profile has no posts and a scraper is available the
// posts are fetched and persisted first. A parse failure persists nothing:
// the profile keeps whatever analysis it had before.
func (g *Generator) Analyze(ctx context.Context, handle string) (*core.StyleAnalysis, error) {
	profile, err := g.store.GetProfile(handle)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile for @%s: %w", handle, err)
	}

	if len(profile.Posts) == 0 && g.scraper != nil {
		posts, err := g.scraper.FetchPosts(ctx, handle, g.options.ScrapeLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch posts for @%s: %w", handle, err)
		}
		if len(posts) > 0 {
			profile.Posts = posts
			profile.UpdatedAt = time.Now().UTC()
			if err := g.store.PutProfile(profile); err != nil {
				return nil, fmt.Errorf("failed to persist posts for @%s: %w", handle, err)
			}
		}
	}

	if len(profile.Posts) == 0 {
		return nil, fmt.Errorf("@%s: %w", handle, ErrNoPosts)
	}

	prompt := BuildAnalysisPrompt(handle, profile.Posts, g.options.Prompt)
	response, err := g.llmClient.GenerateText(ctx, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}

	analysis, err := ExtractAnalysis(response)
	if err != nil {
		return nil, err
	}

	analysis.ModelUsed = g.options.ModelName
	analysis.DateGenerated = time.Now().UTC()

	profile.Analysis = analysis
	profile.UpdatedAt = time.Now().UTC()
	if err := g.store.PutProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to persist analysis for @%s: %w", handle, err)
	}

	return analysis, nil
}

// GenerateFromProfile generates up to count drafts in the account's own
// voice. Fails fast when the profile has never been analyzed. Drafts are
// returned to the caller, never persisted.
func (g *Generator) GenerateFromProfile(ctx context.Context, handle string, count int) ([]core.Draft, error) {
	if count < 1 || count > 20 {
		return nil, ErrInvalidCount
	}

	profile, err := g.store.GetProfile(handle)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile for @%s: %w", handle, err)
	}
	if !profile.HasAnalysis() {
		return nil, fmt.Errorf("@%s: %w", handle, ErrNoAnalysis)
	}
	if len(profile.Posts) == 0 {
		return nil, fmt.Errorf("@%s: %w", handle, ErrNoPosts)
	}

	prompt := BuildProfileGenerationPrompt(profile, count, g.options.Prompt)
	response, err := g.llmClient.GenerateText(ctx, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}

	result := ExtractDrafts(response, count)
	g.logDegradation(handle, result.Stage)
	return result.Drafts, nil
}

// GenerateFromTopic generates up to count drafts about an arbitrary topic.
// The handle is optional: when given but the profile lacks an analysis, the
// call proceeds without style matching and logs the degradation.
func (g *Generator) GenerateFromTopic(ctx context.Context, topic string, count int, handle string) ([]core.Draft, error) {
	if count < 1 || count > 20 {
		return nil, ErrInvalidCount
	}

	profile := g.optionalProfile(handle)
	prompt := BuildTopicGenerationPrompt(topic, count, profile, g.options.Prompt)
	response, err := g.llmClient.GenerateText(ctx, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}

	result := ExtractDrafts(response, count)
	g.logDegradation(handle, result.Stage)
	return result.Drafts, nil
}

// Tweak rewrites an existing draft according to feedback, returning exactly
// 3 variants. Unlike ordinary generation this is a strict contract: a
// degraded extraction or a wrong item count is an error, because the
// downstream comparison assumes 3 real rewrites.
func (g *Generator) Tweak(ctx context.Context, originalText, feedback, handle string) ([]core.Draft, error) {
	profile := g.optionalProfile(handle)
	prompt := BuildTweakPrompt(originalText, feedback, profile, g.options.Prompt)
	response, err := g.llmClient.GenerateText(ctx, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}

	result := ExtractDrafts(response, TweakVariantCount)
	if result.Stage == StageFallback {
		return nil, fmt.Errorf("%w: response was unparseable", ErrTweakContract)
	}
	if len(result.Drafts) != TweakVariantCount {
		return nil, fmt.Errorf("%w: got %d", ErrTweakContract, len(result.Drafts))
	}
	for _, draft := range result.Drafts {
		if draft.Reasoning == FallbackReasoning {
			return nil, fmt.Errorf("%w: response yielded fewer than %d rewrites", ErrTweakContract, TweakVariantCount)
		}
	}
	return result.Drafts, nil
}

// optionalProfile loads a profile for style matching when a handle is
// given. Missing or analysis-less profiles degrade to nil rather than
// failing the operation.
func (g *Generator) optionalProfile(handle string) *core.AccountProfile {
	if handle == "" {
		return nil
	}
	profile, err := g.store.GetProfile(handle)
	if err != nil {
		logger.Warn("Proceeding without style profile", "handle", handle, "reason", err.Error())
		return nil
	}
	if !profile.HasAnalysis() {
		logger.Warn("Proceeding without style matching: profile has no analysis", "handle", handle)
		return nil
	}
	return profile
}

func (g *Generator) logDegradation(handle string, stage ExtractionStage) {
	switch stage {
	case StageRegex:
		logger.Warn("Draft extraction degraded to regex recovery", "handle", handle)
	case StageFallback:
		logger.Warn("Draft extraction degraded to emergency fallback", "handle", handle)
	}
}
