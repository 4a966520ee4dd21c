package core

import "time"

// Post represents a single post scraped from an account's timeline.
// Posts are immutable once scraped; the generation pipeline only reads them.
type Post struct {
	ID        string    `json:"id"`         // Unique identifier for the post
	Text      string    `json:"text"`       // Post text content
	MediaRefs []string  `json:"media_refs"` // URLs of attached media, if any
	ScrapedAt time.Time `json:"scraped_at"` // Timestamp when the post was scraped
}

// StyleAnalysis is the structured summary of an account's voice produced by
// the analyze operation. Summary, KeyThemes and Tone are mandatory; every
// other field is an optional enrichment emitted by newer prompt versions and
// degrades to empty when absent.
type StyleAnalysis struct {
	Summary               string    `json:"summary"`                          // Overall description of the account's voice
	KeyThemes             []string  `json:"key_themes"`                       // Recurring topics the account posts about
	EngagementPatterns    []string  `json:"engagement_patterns"`              // Observed patterns in what performs well
	UniqueBehaviors       []string  `json:"unique_behaviors"`                 // Habits that distinguish this account
	Opportunities         []string  `json:"opportunities"`                    // Suggested directions grounded in the history
	Tone                  string    `json:"tone"`                             // Dominant tone (e.g., "dry, technical")
	ContentTaxonomy       []string  `json:"content_taxonomy,omitempty"`       // Categories the posts fall into
	UntappedOpportunities []string  `json:"untapped_opportunities,omitempty"` // Adjacent topics the account has not covered
	VoiceArchitecture     string    `json:"voice_architecture,omitempty"`     // Structural description of how posts are built
	RandomFacts           []string  `json:"random_facts,omitempty"`           // Incidental facts about the account worth reusing
	ModelUsed             string    `json:"model_used,omitempty"`             // LLM model that produced this analysis
	DateGenerated         time.Time `json:"date_generated,omitempty"`         // Timestamp when the analysis was generated
}

// Draft is a generated candidate post. Community is nil when the draft does
// not clearly belong to one of the account's configured communities; a
// non-nil value is advisory and not validated against the configured set.
type Draft struct {
	Text      string  `json:"text"`                // Ready-to-publish post text (non-empty)
	Community *string `json:"community"`           // Target community name, or nil
	Reasoning string  `json:"reasoning,omitempty"` // Model's rationale for the draft
}

// Community is a named audience segment configured per account.
type Community struct {
	Name        string `json:"name"`        // Unique per account
	Description string `json:"description"` // What content belongs here
}

// AccountProfile is the aggregate record stored per handle. It is created
// empty on first reference, its posts are replaced by the scrape operation
// and its analysis by the analyze operation.
type AccountProfile struct {
	Handle             string         `json:"handle"`              // Account identifier the profile is keyed by
	Posts              []Post         `json:"posts"`               // Scraped post history
	Analysis           *StyleAnalysis `json:"analysis,omitempty"`  // Last style analysis, nil until analyzed
	CustomInstructions string         `json:"custom_instructions"` // User-supplied overrides, highest prompt priority
	Communities        []Community    `json:"communities"`         // Configured community taxonomy
	UpdatedAt          time.Time      `json:"updated_at"`          // Timestamp of the last mutation
}

// HasAnalysis reports whether the profile carries a usable style analysis.
func (p *AccountProfile) HasAnalysis() bool {
	return p != nil && p.Analysis != nil && p.Analysis.Summary != "" &&
		len(p.Analysis.KeyThemes) > 0 && p.Analysis.Tone != ""
}

// Community returns the configured community with the given name, if any.
func (p *AccountProfile) Community(name string) (Community, bool) {
	for _, c := range p.Communities {
		if c.Name == name {
			return c, true
		}
	}
	return Community{}, false
}
