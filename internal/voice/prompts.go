package voice

import (
	"fmt"
	"strings"
	"unicode"

	"drafty/internal/core"
)

// TweakVariantCount is the fixed number of rewrites a tweak operation
// requests and requires. Downstream consumers assume a 3-slot comparison.
const TweakVariantCount = 3

// PromptOptions configures prompt generation
type PromptOptions struct {
	MinChars   int // Lower bound of the post length window
	MaxChars   int // Upper bound of the post length window
	StylePosts int // Max prior posts embedded as style study material
}

// DefaultPromptOptions returns sensible defaults
func DefaultPromptOptions() PromptOptions {
	return PromptOptions{
		MinChars:   20,
		MaxChars:   280,
		StylePosts: 30,
	}
}

// BuildAnalysisPrompt creates the prompt for analyzing an account's post
// history. Callers must not invoke it with zero posts.
func BuildAnalysisPrompt(handle string, posts []core.Post, opts PromptOptions) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("You are a social media strategist analyzing the posting history of the account @%s.\n\n", handle))
	prompt.WriteString(fmt.Sprintf("**Posts (%d total):**\n", len(posts)))
	for i, post := range posts {
		prompt.WriteString(fmt.Sprintf("%d. %s\n", i+1, collapseWhitespace(post.Text)))
	}
	prompt.WriteString("\n")

	prompt.WriteString("**Instructions:**\n")
	prompt.WriteString("1. Study the posts above as a body of work, not individually\n")
	prompt.WriteString("2. Describe what the account actually does, based only on the posts\n")
	prompt.WriteString("3. Be concrete and observational; avoid subjective commentary, praise, or judgment\n")
	prompt.WriteString("4. Use short, specific phrases for list items\n\n")

	prompt.WriteString("**OUTPUT FORMAT:**\n")
	prompt.WriteString("Return exactly one JSON object with these fields and nothing else:\n")
	prompt.WriteString(`{
  "summary": "2-3 sentence description of the account's voice",
  "key_themes": ["recurring topic", "..."],
  "engagement_patterns": ["what formats or angles recur", "..."],
  "unique_behaviors": ["habits that distinguish this account", "..."],
  "opportunities": ["directions grounded in the history", "..."],
  "tone": "short tone description",
  "content_taxonomy": ["content category", "..."],
  "untapped_opportunities": ["adjacent topic not yet covered", "..."],
  "voice_architecture": "how a typical post is structured",
  "random_facts": ["incidental fact about the account", "..."]
}`)
	prompt.WriteString("\n\nNo markdown, no prose before or after the JSON object.")

	return prompt.String()
}

// BuildProfileGenerationPrompt creates the prompt for generating count new
// drafts in the account's own voice. Requires profile.Analysis and at least
// one post; preconditions are the caller's responsibility.
func BuildProfileGenerationPrompt(profile *core.AccountProfile, count int, opts PromptOptions) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Write %d new post drafts for the account @%s, matching its established voice.\n\n", count, profile.Handle))

	writeCustomInstructions(&prompt, profile.CustomInstructions)
	writeStyleSection(&prompt, profile.Analysis)
	writePriorPosts(&prompt, profile.Posts, opts.StylePosts)
	writeCommunitySection(&prompt, profile.Communities)
	writeFormatRules(&prompt, profile.Posts, opts)
	writeOutputContract(&prompt, count)

	return prompt.String()
}

// BuildTopicGenerationPrompt creates the prompt for generating count drafts
// about an arbitrary topic. The style section is included only when a
// profile with a usable analysis is supplied.
func BuildTopicGenerationPrompt(topic string, count int, profile *core.AccountProfile, opts PromptOptions) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Write %d post drafts about the following topic:\n\n", count))
	prompt.WriteString(fmt.Sprintf("**Topic:** %s\n\n", topic))

	if profile.HasAnalysis() {
		writeCustomInstructions(&prompt, profile.CustomInstructions)
		writeStyleSection(&prompt, profile.Analysis)
		writePriorPosts(&prompt, profile.Posts, opts.StylePosts)
		writeCommunitySection(&prompt, profile.Communities)
		writeFormatRules(&prompt, profile.Posts, opts)
	} else {
		prompt.WriteString("**Voice:**\n")
		prompt.WriteString("No account style profile is available. Write in an authentic, engaging voice: conversational, specific, no marketing speak.\n\n")
		writeFormatRules(&prompt, nil, opts)
	}

	writeOutputContract(&prompt, count)
	return prompt.String()
}

// BuildTweakPrompt creates the prompt for rewriting an existing draft
// according to feedback. The output contract is fixed at TweakVariantCount
// rewrites, each preserving the original's core message.
func BuildTweakPrompt(originalText, feedback string, profile *core.AccountProfile, opts PromptOptions) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Rewrite the post draft below in %d different ways.\n\n", TweakVariantCount))
	prompt.WriteString(fmt.Sprintf("**Original draft:**\n%s\n\n", originalText))
	prompt.WriteString(fmt.Sprintf("**Feedback to incorporate:**\n%s\n\n", feedback))

	prompt.WriteString("**Rewrite rules:**\n")
	prompt.WriteString("1. Every rewrite must incorporate the feedback\n")
	prompt.WriteString("2. Every rewrite must preserve the original's core message\n")
	prompt.WriteString(fmt.Sprintf("3. The %d rewrites must differ meaningfully from each other\n\n", TweakVariantCount))

	if profile.HasAnalysis() {
		writeCustomInstructions(&prompt, profile.CustomInstructions)
		writeStyleSection(&prompt, profile.Analysis)
		writeFormatRules(&prompt, profile.Posts, opts)
	} else {
		writeFormatRules(&prompt, nil, opts)
	}

	writeOutputContract(&prompt, TweakVariantCount)
	return prompt.String()
}

// writeCustomInstructions emits the custom-instructions block. It always
// precedes every other section: custom instructions win any conflict with
// the style or format rules that follow.
func writeCustomInstructions(prompt *strings.Builder, instructions string) {
	if strings.TrimSpace(instructions) == "" {
		return
	}
	prompt.WriteString("**CUSTOM INSTRUCTIONS (highest priority):**\n")
	prompt.WriteString(strings.TrimSpace(instructions))
	prompt.WriteString("\n\nThese instructions override anything below that conflicts with them.\n\n")
}

func writeStyleSection(prompt *strings.Builder, analysis *core.StyleAnalysis) {
	if analysis == nil {
		return
	}
	prompt.WriteString("**Account style profile:**\n")
	prompt.WriteString(fmt.Sprintf("Voice: %s\n", analysis.Summary))
	prompt.WriteString(fmt.Sprintf("Tone: %s\n", analysis.Tone))
	if len(analysis.KeyThemes) > 0 {
		prompt.WriteString(fmt.Sprintf("Key themes: %s\n", strings.Join(analysis.KeyThemes, "; ")))
	}
	if len(analysis.EngagementPatterns) > 0 {
		prompt.WriteString(fmt.Sprintf("Engagement patterns: %s\n", strings.Join(analysis.EngagementPatterns, "; ")))
	}
	if len(analysis.UniqueBehaviors) > 0 {
		prompt.WriteString(fmt.Sprintf("Unique behaviors: %s\n", strings.Join(analysis.UniqueBehaviors, "; ")))
	}
	if analysis.VoiceArchitecture != "" {
		prompt.WriteString(fmt.Sprintf("Post structure: %s\n", analysis.VoiceArchitecture))
	}
	if len(analysis.UntappedOpportunities) > 0 {
		prompt.WriteString(fmt.Sprintf("Untapped angles worth exploring: %s\n", strings.Join(analysis.UntappedOpportunities, "; ")))
	}
	prompt.WriteString("\n")
}

// writePriorPosts embeds up to window prior posts verbatim as negative
// examples: study material for voice, never content to reproduce.
func writePriorPosts(prompt *strings.Builder, posts []core.Post, window int) {
	if len(posts) == 0 {
		return
	}
	if window > 0 && len(posts) > window {
		posts = posts[:window]
	}
	prompt.WriteString("**Recent posts (study for style only - do NOT reproduce):**\n")
	for i, post := range posts {
		prompt.WriteString(fmt.Sprintf("%d. %s\n", i+1, post.Text))
	}
	prompt.WriteString("\nNew drafts must not repeat, closely paraphrase, or structurally copy any post above. They are style reference, not content.\n\n")
}

func writeCommunitySection(prompt *strings.Builder, communities []core.Community) {
	if len(communities) == 0 {
		return
	}
	prompt.WriteString("**Communities:**\n")
	for _, c := range communities {
		prompt.WriteString(fmt.Sprintf("- %s: %s\n", c.Name, c.Description))
	}
	prompt.WriteString("\nSet \"community\" to one of the names above ONLY when the draft clearly belongs there. Otherwise set it to null. When in doubt, use null.\n\n")
}

func writeFormatRules(prompt *strings.Builder, posts []core.Post, opts PromptOptions) {
	prompt.WriteString("**Formatting rules:**\n")
	prompt.WriteString(fmt.Sprintf("- Each draft must be %d-%d characters long\n", opts.MinChars, opts.MaxChars))
	prompt.WriteString("- Text must be ready to publish as-is: no placeholders, no [brackets], no \"insert X here\"\n")
	if postsUseHashtags(posts) {
		prompt.WriteString("- Hashtags are fine; the account uses them\n")
	} else {
		prompt.WriteString("- Do not use hashtags; the account does not use them\n")
	}
	if postsUseEmoji(posts) {
		prompt.WriteString("- Emoji are fine; the account uses them\n")
	} else {
		prompt.WriteString("- Do not use emoji; the account does not use them\n")
	}
	prompt.WriteString("\n")
}

func writeOutputContract(prompt *strings.Builder, count int) {
	prompt.WriteString("**OUTPUT FORMAT:**\n")
	prompt.WriteString(fmt.Sprintf("Return a bare JSON array of exactly %d objects and nothing else:\n", count))
	prompt.WriteString(`[{"text": "the post text", "community": "community-name-or-null", "reasoning": "one sentence on why this fits"}]`)
	prompt.WriteString("\nNo markdown fences, no prose before or after the array.")
}

// postsUseHashtags reports whether the source account's posts contain
// hashtags. With no posts available it defaults to false.
func postsUseHashtags(posts []core.Post) bool {
	for _, post := range posts {
		for _, field := range strings.Fields(post.Text) {
			if len(field) > 1 && strings.HasPrefix(field, "#") {
				return true
			}
		}
	}
	return false
}

// postsUseEmoji reports whether the source account's posts contain emoji.
func postsUseEmoji(posts []core.Post) bool {
	for _, post := range posts {
		for _, r := range post.Text {
			if unicode.In(r, unicode.So) || (r >= 0x1F300 && r <= 0x1FAFF) {
				return true
			}
		}
	}
	return false
}

// collapseWhitespace flattens a post onto a single line for numbered lists.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
