package voice

import (
	"fmt"
	"strings"
	"testing"

	"drafty/internal/core"
)

func testProfile() *core.AccountProfile {
	return &core.AccountProfile{
		Handle: "jane",
		Posts: []core.Post{
			{ID: "1", Text: "Shipped the new importer today. Two weeks of edge cases, finally green."},
			{ID: "2", Text: "Hot take: most flaky tests are just clocks."},
		},
		Analysis: &core.StyleAnalysis{
			Summary:   "Posts candid engineering updates with a dry sense of humor.",
			KeyThemes: []string{"testing", "shipping"},
			Tone:      "dry, technical",
		},
		CustomInstructions: "Never mention competitors by name.",
		Communities: []core.Community{
			{Name: "golang", Description: "Go language discussion"},
		},
	}
}

func TestBuildAnalysisPromptIncludesAllPosts(t *testing.T) {
	posts := []core.Post{
		{Text: "first post text"},
		{Text: "second post\nwith a newline"},
	}
	prompt := BuildAnalysisPrompt("jane", posts, DefaultPromptOptions())

	if !strings.Contains(prompt, "@jane") {
		t.Error("prompt missing handle")
	}
	if !strings.Contains(prompt, "1. first post text") {
		t.Error("prompt missing first numbered post")
	}
	// Multi-line posts are collapsed onto one numbered line.
	if !strings.Contains(prompt, "2. second post with a newline") {
		t.Error("prompt missing collapsed second post")
	}
	if !strings.Contains(prompt, `"key_themes"`) {
		t.Error("prompt missing output schema")
	}
	if !strings.Contains(prompt, "avoid subjective commentary") {
		t.Error("prompt missing objectivity instruction")
	}
}

func TestBuildProfileGenerationPromptSectionOrder(t *testing.T) {
	profile := testProfile()
	prompt := BuildProfileGenerationPrompt(profile, 5, DefaultPromptOptions())

	instructionsIdx := strings.Index(prompt, "CUSTOM INSTRUCTIONS")
	styleIdx := strings.Index(prompt, "Account style profile")
	postsIdx := strings.Index(prompt, "Recent posts")
	contractIdx := strings.Index(prompt, "OUTPUT FORMAT")

	for name, idx := range map[string]int{
		"custom instructions": instructionsIdx,
		"style section":       styleIdx,
		"prior posts":         postsIdx,
		"output contract":     contractIdx,
	} {
		if idx < 0 {
			t.Fatalf("prompt missing %s section", name)
		}
	}

	// Custom instructions outrank everything else, so they come first.
	if !(instructionsIdx < styleIdx && styleIdx < postsIdx && postsIdx < contractIdx) {
		t.Errorf("sections out of order: instructions=%d style=%d posts=%d contract=%d",
			instructionsIdx, styleIdx, postsIdx, contractIdx)
	}
}

func TestBuildProfileGenerationPromptIncludesPostsVerbatim(t *testing.T) {
	profile := testProfile()
	prompt := BuildProfileGenerationPrompt(profile, 3, DefaultPromptOptions())

	for _, post := range profile.Posts {
		if !strings.Contains(prompt, post.Text) {
			t.Errorf("prompt missing post text %q", post.Text)
		}
	}
	if !strings.Contains(prompt, "do NOT reproduce") {
		t.Error("prompt missing anti-reproduction instruction")
	}
	if !strings.Contains(prompt, "exactly 3 objects") {
		t.Error("prompt missing draft count in output contract")
	}
}

func TestBuildProfileGenerationPromptCapsStylePosts(t *testing.T) {
	profile := testProfile()
	profile.Posts = nil
	for i := 0; i < 50; i++ {
		profile.Posts = append(profile.Posts, core.Post{Text: fmt.Sprintf("post number %d padded to a plausible length", i)})
	}

	opts := DefaultPromptOptions()
	opts.StylePosts = 10
	prompt := BuildProfileGenerationPrompt(profile, 5, opts)

	if !strings.Contains(prompt, "post number 9 ") {
		t.Error("expected the 10th post inside the window")
	}
	if strings.Contains(prompt, "post number 10 ") {
		t.Error("posts beyond the style window leaked into the prompt")
	}
}

func TestBuildProfileGenerationPromptMirrorsHashtagUsage(t *testing.T) {
	profile := testProfile()
	prompt := BuildProfileGenerationPrompt(profile, 2, DefaultPromptOptions())
	if !strings.Contains(prompt, "Do not use hashtags") {
		t.Error("expected hashtag prohibition for an account that never uses them")
	}

	profile.Posts = append(profile.Posts, core.Post{Text: "Launch day! #buildinpublic"})
	prompt = BuildProfileGenerationPrompt(profile, 2, DefaultPromptOptions())
	if !strings.Contains(prompt, "Hashtags are fine") {
		t.Error("expected hashtags allowed for an account that uses them")
	}
}

func TestBuildTopicGenerationPromptWithoutProfile(t *testing.T) {
	prompt := BuildTopicGenerationPrompt("fall conference season", 4, nil, DefaultPromptOptions())

	if !strings.Contains(prompt, "fall conference season") {
		t.Error("prompt missing topic")
	}
	if !strings.Contains(prompt, "authentic, engaging voice") {
		t.Error("prompt missing generic voice instruction")
	}
	if strings.Contains(prompt, "Account style profile") {
		t.Error("style section should not appear without a profile")
	}
	if !strings.Contains(prompt, "exactly 4 objects") {
		t.Error("prompt missing draft count")
	}
}

func TestBuildTopicGenerationPromptWithProfile(t *testing.T) {
	prompt := BuildTopicGenerationPrompt("release retrospectives", 2, testProfile(), DefaultPromptOptions())

	if !strings.Contains(prompt, "Account style profile") {
		t.Error("prompt missing style section")
	}
	if !strings.Contains(prompt, "dry, technical") {
		t.Error("prompt missing tone from analysis")
	}
}

func TestBuildTweakPromptContract(t *testing.T) {
	prompt := BuildTweakPrompt("shipping the new parser today", "make it punchier", nil, DefaultPromptOptions())

	if !strings.Contains(prompt, "shipping the new parser today") {
		t.Error("prompt missing original draft")
	}
	if !strings.Contains(prompt, "make it punchier") {
		t.Error("prompt missing feedback")
	}
	if !strings.Contains(prompt, "preserve the original's core message") {
		t.Error("prompt missing preservation rule")
	}
	if !strings.Contains(prompt, "exactly 3 objects") {
		t.Error("prompt missing fixed rewrite count")
	}
}

func TestBuildPromptCommunityGuidance(t *testing.T) {
	prompt := BuildProfileGenerationPrompt(testProfile(), 2, DefaultPromptOptions())

	if !strings.Contains(prompt, "golang: Go language discussion") {
		t.Error("prompt missing community listing")
	}
	if !strings.Contains(prompt, "Otherwise set it to null") {
		t.Error("prompt missing null-unless-clear-match rule")
	}
}
