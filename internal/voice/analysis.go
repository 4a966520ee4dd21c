package voice

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"drafty/internal/core"
)

// ErrAnalysisParse marks a model response that could not be turned into a
// valid style analysis. There is no fallback path here: a fabricated
// analysis would silently corrupt all downstream generation, so the one
// operation that builds the profile fails loudly instead.
var ErrAnalysisParse = errors.New("could not parse style analysis from model response")

// ExtractAnalysis parses a single style-analysis JSON object out of raw
// model text. The object may be wrapped in one fenced code block; any other
// deviation, or a missing mandatory field, returns an error wrapping
// ErrAnalysisParse.
func ExtractAnalysis(raw string) (*core.StyleAnalysis, error) {
	payload := stripCodeFence(raw)

	start := strings.Index(payload, "{")
	end := strings.LastIndex(payload, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object found", ErrAnalysisParse)
	}
	payload = payload[start : end+1]

	var analysis core.StyleAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisParse, err)
	}

	if err := validateAnalysis(&analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// validateAnalysis enforces the mandatory field set. Optional fields are
// left as-is; absence degrades to empty downstream.
func validateAnalysis(analysis *core.StyleAnalysis) error {
	if strings.TrimSpace(analysis.Summary) == "" {
		return fmt.Errorf("%w: missing summary", ErrAnalysisParse)
	}
	if len(analysis.KeyThemes) == 0 {
		return fmt.Errorf("%w: missing key_themes", ErrAnalysisParse)
	}
	if strings.TrimSpace(analysis.Tone) == "" {
		return fmt.Errorf("%w: missing tone", ErrAnalysisParse)
	}
	return nil
}
