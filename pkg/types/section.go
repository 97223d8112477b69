// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Section types with dedicated generation prompts. Any other non-empty
// section type is accepted and uses the generic template.
const (
	SectionIntroduction = "Introduction"
	SectionMethodology  = "Methodology"
	SectionResults      = "Results"
	SectionDiscussion   = "Discussion"
	SectionConclusion   = "Conclusion"
)

// SectionRequest describes the section a pipeline run should write.
type SectionRequest struct {
	// Section is the section type (e.g. "Introduction").
	Section string `json:"section" yaml:"section"`

	// KeyPoints lists the points the section must cover.
	KeyPoints []string `json:"keypoints" yaml:"keypoints"`

	// WordLimit is the target word count; must be positive.
	WordLimit int `json:"word_limit" yaml:"word_limit"`
}

// Validate checks the request preconditions. Failures wrap ErrInvalidArgument.
func (r SectionRequest) Validate() error {
	if strings.TrimSpace(r.Section) == "" {
		return fmt.Errorf("section type is required: %w", ErrInvalidArgument)
	}
	if r.WordLimit <= 0 {
		return fmt.Errorf("word limit must be positive, got %d: %w", r.WordLimit, ErrInvalidArgument)
	}
	return nil
}

// GenerationParams is a snapshot of the model settings used for one
// completion call.
type GenerationParams struct {
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
}

// GeneratedCandidate is one independently generated text for a section,
// prior to review. Text is never empty.
type GeneratedCandidate struct {
	Text        string           `json:"text" yaml:"text"`
	SectionType string           `json:"section_type" yaml:"section_type"`
	WordLimit   int              `json:"word_limit" yaml:"word_limit"`
	Params      GenerationParams `json:"generation_params" yaml:"generation_params"`
}

// String returns the candidate text.
func (c GeneratedCandidate) String() string {
	return c.Text
}
