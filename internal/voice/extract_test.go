package voice

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestExtractDraftsStrictFencedArray(t *testing.T) {
	raw := "```json\n[{\"text\": \"Shipping the new parser today, and it only took three rewrites.\", \"community\": null, \"reasoning\": \"Matches the build-in-public theme\"}]\n```"

	result := ExtractDrafts(raw, 1)

	if result.Stage != StageStrict {
		t.Fatalf("expected strict stage, got %s", result.Stage)
	}
	if len(result.Drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(result.Drafts))
	}
	draft := result.Drafts[0]
	if draft.Text != "Shipping the new parser today, and it only took three rewrites." {
		t.Errorf("unexpected text: %q", draft.Text)
	}
	if draft.Community != nil {
		t.Errorf("expected nil community, got %q", *draft.Community)
	}
	if draft.Reasoning != "Matches the build-in-public theme" {
		t.Errorf("unexpected reasoning: %q", draft.Reasoning)
	}
}

func TestExtractDraftsStrictWithSurroundingProse(t *testing.T) {
	raw := `Here are your drafts:
[{"text": "First draft with enough words to feel real.", "community": "golang", "reasoning": "fits"}, {"text": "Second draft, also perfectly plausible.", "community": "null", "reasoning": "fits"}]
Hope these help!`

	result := ExtractDrafts(raw, 2)

	if result.Stage != StageStrict {
		t.Fatalf("expected strict stage, got %s", result.Stage)
	}
	if len(result.Drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(result.Drafts))
	}
	if result.Drafts[0].Community == nil || *result.Drafts[0].Community != "golang" {
		t.Errorf("expected community golang, got %v", result.Drafts[0].Community)
	}
	// The string "null" coerces to no community.
	if result.Drafts[1].Community != nil {
		t.Errorf("expected nil community for \"null\", got %q", *result.Drafts[1].Community)
	}
}

func TestExtractDraftsStrictNeverExceedsCount(t *testing.T) {
	items := make([]string, 7)
	for i := range items {
		items[i] = `{"text": "A draft long enough to be plausible content.", "community": null, "reasoning": "r"}`
	}
	raw := "[" + strings.Join(items, ",") + "]"

	for _, count := range []int{1, 3, 7, 12} {
		result := ExtractDrafts(raw, count)
		if result.Stage != StageStrict {
			t.Fatalf("count %d: expected strict stage, got %s", count, result.Stage)
		}
		want := count
		if want > 7 {
			want = 7
		}
		if len(result.Drafts) != want {
			t.Errorf("count %d: expected %d drafts, got %d", count, want, len(result.Drafts))
		}
	}
}

func TestExtractDraftsStrictDefaultsMissingReasoning(t *testing.T) {
	raw := `[{"text": "A draft whose reasoning field was left out by the model."}]`

	result := ExtractDrafts(raw, 1)

	if result.Stage != StageStrict {
		t.Fatalf("expected strict stage, got %s", result.Stage)
	}
	if result.Drafts[0].Reasoning != DefaultReasoning {
		t.Errorf("expected default reasoning, got %q", result.Drafts[0].Reasoning)
	}
}

func TestExtractDraftsOneInvalidElementFailsStrictStage(t *testing.T) {
	raw := `[{"text": "A perfectly valid draft element with plenty of text."}, {"text": ""}]`

	result := ExtractDrafts(raw, 2)

	if result.Stage == StageStrict {
		t.Fatal("strict stage should fail when any element is invalid")
	}
	// The valid element's text is still recoverable by the regex stage.
	if result.Stage != StageRegex {
		t.Fatalf("expected regex recovery, got %s", result.Stage)
	}
	if result.Drafts[0].Text != "A perfectly valid draft element with plenty of text." {
		t.Errorf("unexpected recovered text: %q", result.Drafts[0].Text)
	}
}

func TestExtractDraftsRegexRecoveryPadsWithFallback(t *testing.T) {
	raw := `Some ideas:

1. The first idea, written out in a full sentence of reasonable length.
2. The second idea, also written out at a length that counts as a post.`

	result := ExtractDrafts(raw, 5)

	if result.Stage != StageRegex {
		t.Fatalf("expected regex recovery, got %s", result.Stage)
	}
	if len(result.Drafts) != 5 {
		t.Fatalf("expected recovery to pad to 5 drafts, got %d", len(result.Drafts))
	}
	recovered := 0
	padded := 0
	for _, draft := range result.Drafts {
		switch draft.Reasoning {
		case RegexReasoning:
			recovered++
		case FallbackReasoning:
			padded++
		default:
			t.Errorf("unexpected reasoning %q", draft.Reasoning)
		}
	}
	if recovered != 2 || padded != 3 {
		t.Errorf("expected 2 recovered + 3 padded, got %d + %d", recovered, padded)
	}
}

func TestExtractDraftsBareLineRecovery(t *testing.T) {
	raw := "I think remote work is evolving fast this year"

	result := ExtractDrafts(raw, 3)

	if result.Stage != StageRegex {
		t.Fatalf("expected regex recovery, got %s", result.Stage)
	}
	if len(result.Drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(result.Drafts))
	}
	if result.Drafts[0].Text != raw || result.Drafts[0].Reasoning != RegexReasoning {
		t.Errorf("bare line not recovered as first draft: %+v", result.Drafts[0])
	}
	for _, draft := range result.Drafts[1:] {
		if draft.Reasoning != FallbackReasoning {
			t.Errorf("expected fallback padding, got reasoning %q", draft.Reasoning)
		}
	}
}

func TestExtractDraftsRegexRecoversQuotedTextFields(t *testing.T) {
	// Broken JSON (trailing comma) that still carries text fields.
	raw := `[{"text": "Recovered from a broken JSON payload, still useful.",},]`

	result := ExtractDrafts(raw, 1)

	if result.Stage != StageRegex {
		t.Fatalf("expected regex recovery, got %s", result.Stage)
	}
	if result.Drafts[0].Text != "Recovered from a broken JSON payload, still useful." {
		t.Errorf("unexpected text: %q", result.Drafts[0].Text)
	}
}

func TestExtractDraftsEmergencyFallback(t *testing.T) {
	result := ExtractDrafts("???", 5)

	if result.Stage != StageFallback {
		t.Fatalf("expected emergency fallback, got %s", result.Stage)
	}
	if len(result.Drafts) != 5 {
		t.Fatalf("expected 5 fallback drafts, got %d", len(result.Drafts))
	}
	for i, draft := range result.Drafts {
		if draft.Text == "" || len(draft.Text) > 280 {
			t.Errorf("fallback draft %d outside length window: %d chars", i, len(draft.Text))
		}
		if draft.Community != nil {
			t.Errorf("fallback draft %d has a community", i)
		}
		if draft.Reasoning != FallbackReasoning {
			t.Errorf("fallback draft %d has reasoning %q", i, draft.Reasoning)
		}
	}
}

func TestExtractDraftsEmptyInput(t *testing.T) {
	result := ExtractDrafts("", 3)
	if result.Stage != StageFallback {
		t.Fatalf("expected emergency fallback for empty input, got %s", result.Stage)
	}
	if len(result.Drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(result.Drafts))
	}
}

func TestExtractDraftsRoundTripIsStrict(t *testing.T) {
	// A draft array serialized back out must parse strictly again.
	result := ExtractDrafts(`[{"text": "Round trips should not degrade the extraction stage.", "community": "dev", "reasoning": "why not"}]`, 1)
	if result.Stage != StageStrict {
		t.Fatalf("expected strict stage, got %s", result.Stage)
	}

	encoded, err := json.Marshal(result.Drafts)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	again := ExtractDrafts(string(encoded), 1)
	if again.Stage != StageStrict {
		t.Fatalf("round trip degraded to %s", again.Stage)
	}
	if again.Drafts[0].Text != result.Drafts[0].Text {
		t.Errorf("round trip changed text: %q vs %q", again.Drafts[0].Text, result.Drafts[0].Text)
	}
}

func TestExtractDraftsEscapedQuotesInRecovery(t *testing.T) {
	raw := `"text": "She said \"ship it\" and we did."`

	result := ExtractDrafts(raw, 1)

	if result.Stage != StageRegex {
		t.Fatalf("expected regex recovery, got %s", result.Stage)
	}
	if result.Drafts[0].Text != `She said "ship it" and we did.` {
		t.Errorf("escapes not resolved: %q", result.Drafts[0].Text)
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `[1]`, `[1]`},
		{"fenced", "```\n[1]\n```", `[1]`},
		{"fenced with language", "```json\n[1]\n```", `[1]`},
		{"fence not covering whole payload", "prefix ```json\n[1]\n```", "prefix ```json\n[1]\n```"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFence(tc.in); got != tc.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
