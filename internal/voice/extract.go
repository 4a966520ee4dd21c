package voice

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"drafty/internal/core"
)

// ExtractionStage identifies which parsing strategy produced a result, so
// callers can distinguish clean output from recovered or fabricated output.
type ExtractionStage string

const (
	// StageStrict means the response was a valid JSON draft array.
	StageStrict ExtractionStage = "strict"
	// StageRegex means drafts were recovered from unstructured text.
	StageRegex ExtractionStage = "regex_recovery"
	// StageFallback means nothing was recoverable and placeholder drafts
	// were synthesized.
	StageFallback ExtractionStage = "emergency_fallback"
)

// ExtractionResult is the outcome of staged draft extraction.
type ExtractionResult struct {
	Drafts []core.Draft
	Stage  ExtractionStage
}

const (
	// DefaultReasoning fills the reasoning field when the model omits it.
	DefaultReasoning = "No reasoning provided"
	// RegexReasoning marks drafts recovered by fallback parsing.
	RegexReasoning = "Recovered via fallback parsing"
	// FallbackReasoning marks synthesized emergency-fallback drafts.
	FallbackReasoning = "Emergency fallback: model response could not be parsed"
)

// fallbackTexts is the fixed emergency set returned when no strategy can
// recover anything from the model response. Every entry is under 280 chars.
var fallbackTexts = []string{
	"Sharing a thought that's been on my mind lately: the best ideas usually come from revisiting something familiar with fresh eyes.",
	"Sometimes the most useful thing you can post is the question you're actually stuck on. What's yours this week?",
	"A small habit that compounds: write down the one thing you learned today before closing the laptop.",
	"Progress rarely looks like progress while it's happening. Keep the streak alive anyway.",
	"The gap between a rough idea and a published post is smaller than it feels. Ship the rough version.",
}

var (
	quotedTextPattern   = regexp.MustCompile(`"text"\s*:\s*"((?:[^"\\]|\\.)+)"`)
	singleQuotedPattern = regexp.MustCompile(`'text'\s*:\s*'([^']+)'`)
	numberedLinePattern = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+(.+)$`)
	bulletLinePattern   = regexp.MustCompile(`(?m)^\s*[-*\x{2022}]\s+(.+)$`)
	fencePattern        = regexp.MustCompile("(?s)^```(?:[a-zA-Z]+)?\\s*\\n?(.*?)\\n?```$")
)

// ExtractDrafts converts raw model text into at most count validated drafts.
// Strategies are tried in order; the first that succeeds wins. The result is
// always structurally valid: a malformed model response degrades the output,
// it never surfaces as an error.
func ExtractDrafts(raw string, count int) ExtractionResult {
	if count < 1 {
		count = 1
	}

	if drafts, ok := extractStrictArray(raw, count); ok {
		return ExtractionResult{Drafts: drafts, Stage: StageStrict}
	}

	if candidates := recoverWithPatterns(raw, count); len(candidates) > 0 {
		drafts := make([]core.Draft, 0, count)
		for _, text := range candidates {
			drafts = append(drafts, core.Draft{Text: text, Reasoning: RegexReasoning})
		}
		// Scenario where recovery finds something but not enough: top the
		// remaining slots up from the emergency set.
		for i := 0; len(drafts) < count; i++ {
			drafts = append(drafts, fallbackDraft(i))
		}
		return ExtractionResult{Drafts: drafts, Stage: StageRegex}
	}

	drafts := make([]core.Draft, 0, count)
	for i := 0; i < count; i++ {
		drafts = append(drafts, fallbackDraft(i))
	}
	return ExtractionResult{Drafts: drafts, Stage: StageFallback}
}

// draftWire mirrors the documented wire shape of a single draft item.
type draftWire struct {
	Text      string `json:"text"`
	Community any    `json:"community"`
	Reasoning string `json:"reasoning"`
}

// extractStrictArray attempts stage 1: locate a JSON array in the payload
// and parse every element. A single invalid element fails the whole stage;
// partial strict results are never returned.
func extractStrictArray(raw string, count int) ([]core.Draft, bool) {
	payload := stripCodeFence(raw)

	start := strings.Index(payload, "[")
	end := strings.LastIndex(payload, "]")
	if start < 0 || end <= start {
		return nil, false
	}
	payload = payload[start : end+1]

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &elements); err != nil {
		return nil, false
	}
	if len(elements) == 0 {
		return nil, false
	}

	drafts := make([]core.Draft, 0, len(elements))
	for _, element := range elements {
		draft, err := validateDraftElement(element)
		if err != nil {
			// Invalid elements are not dropped silently; they invalidate
			// strict extraction so the regex stage sees the full payload.
			return nil, false
		}
		drafts = append(drafts, draft)
	}

	if len(drafts) > count {
		drafts = drafts[:count]
	}
	return drafts, true
}

// validateDraftElement checks one array element against the draft contract:
// an object with a non-empty string text, community coerced to nil or
// string, reasoning defaulted when absent.
func validateDraftElement(element json.RawMessage) (core.Draft, error) {
	var wire draftWire
	if err := json.Unmarshal(element, &wire); err != nil {
		return core.Draft{}, fmt.Errorf("draft element is not an object: %w", err)
	}
	if strings.TrimSpace(wire.Text) == "" {
		return core.Draft{}, fmt.Errorf("draft element has empty text")
	}

	draft := core.Draft{Text: wire.Text, Reasoning: wire.Reasoning}
	if draft.Reasoning == "" {
		draft.Reasoning = DefaultReasoning
	}

	switch v := wire.Community.(type) {
	case nil:
		draft.Community = nil
	case string:
		if v == "" || strings.EqualFold(v, "null") {
			draft.Community = nil
		} else {
			draft.Community = &v
		}
	default:
		coerced := fmt.Sprintf("%v", v)
		draft.Community = &coerced
	}

	return draft, nil
}

// recoverWithPatterns applies stage 2: ordered regex patterns over the raw
// text, collecting up to count unique candidates.
func recoverWithPatterns(raw string, count int) []string {
	var candidates []string
	seen := make(map[string]bool)

	collect := func(matches [][]string) {
		for _, match := range matches {
			if len(candidates) >= count {
				return
			}
			text := strings.TrimSpace(unescapeJSONString(match[1]))
			if text == "" || seen[text] {
				continue
			}
			seen[text] = true
			candidates = append(candidates, text)
		}
	}

	collect(quotedTextPattern.FindAllStringSubmatch(raw, -1))
	if len(candidates) < count {
		collect(singleQuotedPattern.FindAllStringSubmatch(raw, -1))
	}
	if len(candidates) < count {
		collect(numberedLinePattern.FindAllStringSubmatch(raw, -1))
	}
	if len(candidates) < count {
		collect(bulletLinePattern.FindAllStringSubmatch(raw, -1))
	}
	if len(candidates) < count {
		collect(bareLineMatches(raw))
	}

	return candidates
}

// bareLineMatches returns trimmed lines whose length falls inside the post
// length window, excluding lines that look structural rather than prose.
func bareLineMatches(raw string) [][]string {
	var matches [][]string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 20 || len(line) > 280 {
			continue
		}
		if strings.HasPrefix(line, "{") || strings.HasPrefix(line, "[") ||
			strings.HasPrefix(line, "}") || strings.HasPrefix(line, "]") ||
			strings.HasPrefix(line, "```") || strings.HasPrefix(line, "#") {
			continue
		}
		// Lines the list patterns already cover would double-count here.
		if numberedLinePattern.MatchString(line) || bulletLinePattern.MatchString(line) {
			continue
		}
		matches = append(matches, []string{line, line})
	}
	return matches
}

func fallbackDraft(i int) core.Draft {
	return core.Draft{
		Text:      fallbackTexts[i%len(fallbackTexts)],
		Community: nil,
		Reasoning: FallbackReasoning,
	}
}

// stripCodeFence unwraps a payload that is entirely a single fenced code
// block, the one tolerated deviation from the bare-JSON output contract.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if match := fencePattern.FindStringSubmatch(trimmed); match != nil {
		return strings.TrimSpace(match[1])
	}
	return trimmed
}

// unescapeJSONString resolves common escapes in regex-captured fragments.
func unescapeJSONString(s string) string {
	var unquoted string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &unquoted); err == nil {
		return unquoted
	}
	replacer := strings.NewReplacer(`\"`, `"`, `\n`, "\n", `\t`, "\t", `\\`, `\`)
	return replacer.Replace(s)
}
