package voice

import (
	"errors"
	"testing"
)

const validAnalysisJSON = `{
  "summary": "Posts daily build-in-public updates about a side project.",
  "key_themes": ["side projects", "developer tooling"],
  "engagement_patterns": ["threads on launch days"],
  "unique_behaviors": ["always includes a metric"],
  "opportunities": ["postmortems"],
  "tone": "candid and self-deprecating"
}`

func TestExtractAnalysisValid(t *testing.T) {
	analysis, err := ExtractAnalysis(validAnalysisJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Summary == "" || analysis.Tone == "" {
		t.Error("mandatory fields not populated")
	}
	if len(analysis.KeyThemes) != 2 {
		t.Errorf("expected 2 key themes, got %d", len(analysis.KeyThemes))
	}
}

func TestExtractAnalysisFenced(t *testing.T) {
	analysis, err := ExtractAnalysis("```json\n" + validAnalysisJSON + "\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Summary == "" {
		t.Error("summary not populated")
	}
}

func TestExtractAnalysisMandatoryFieldsOnly(t *testing.T) {
	raw := `{"summary": "s", "key_themes": ["t"], "tone": "dry"}`
	analysis, err := ExtractAnalysis(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.VoiceArchitecture != "" || len(analysis.RandomFacts) != 0 {
		t.Error("optional fields should stay empty when absent")
	}
}

func TestExtractAnalysisMissingMandatoryFields(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing summary", `{"key_themes": ["t"], "tone": "dry"}`},
		{"missing key_themes", `{"summary": "s", "tone": "dry"}`},
		{"empty key_themes", `{"summary": "s", "key_themes": [], "tone": "dry"}`},
		{"missing tone", `{"summary": "s", "key_themes": ["t"]}`},
		{"blank summary", `{"summary": "   ", "key_themes": ["t"], "tone": "dry"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractAnalysis(tc.raw)
			if !errors.Is(err, ErrAnalysisParse) {
				t.Errorf("expected ErrAnalysisParse, got %v", err)
			}
		})
	}
}

func TestExtractAnalysisNoObject(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "[1, 2, 3]"} {
		if _, err := ExtractAnalysis(raw); !errors.Is(err, ErrAnalysisParse) {
			t.Errorf("ExtractAnalysis(%q): expected ErrAnalysisParse, got %v", raw, err)
		}
	}
}

func TestExtractAnalysisMalformedJSON(t *testing.T) {
	_, err := ExtractAnalysis(`{"summary": "s", "key_themes": ["t"`)
	if !errors.Is(err, ErrAnalysisParse) {
		t.Errorf("expected ErrAnalysisParse, got %v", err)
	}
}
