// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package publish formats the final cited text, computes its metadata and
// runs the code-level quality gates. Publishing never fails: problems are
// reported in the validation result.
package publish

import (
	"log/slog"
	"time"

	"github.com/pdiddy/section-writer/internal/wordcount"
	"github.com/pdiddy/section-writer/pkg/types"
)

// DefaultSection is used when the provenance names no section type.
const DefaultSection = types.SectionIntroduction

// Provenance describes the run that produced the content being published.
type Provenance struct {
	SectionType string
	WordLimit   int
	Generation  types.GenerationInfo
}

// Publisher turns cited content into a PublishedContent record.
type Publisher struct {
	// TargetWords is the word-count baseline for validation.
	TargetWords int

	// UseRequestTarget validates against Provenance.WordLimit when it is
	// positive instead of TargetWords.
	UseRequestTarget bool

	Author  string
	Version string

	// Now stamps the metadata; nil means time.Now.
	Now func() time.Time

	// Validators run in order; nil means DefaultValidators.
	Validators []Validator

	Logger *slog.Logger
}

// New returns a Publisher configured from cfg.
func New(cfg types.PublishConfig) *Publisher {
	target := cfg.TargetWords
	if target <= 0 {
		target = types.DefaultTargetWords
	}
	return &Publisher{
		TargetWords:      target,
		UseRequestTarget: cfg.UseRequestTarget,
		Author:           cfg.Author,
		Version:          cfg.Version,
	}
}

func (p *Publisher) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default().With("stage", "publish")
}

func (p *Publisher) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Target returns the word-count baseline used for prov.
func (p *Publisher) Target(prov Provenance) int {
	if p.UseRequestTarget && prov.WordLimit > 0 {
		return prov.WordLimit
	}
	return p.TargetWords
}

// Publish formats content, builds its metadata and validates both.
func (p *Publisher) Publish(content types.CitedContent, prov Provenance) types.PublishedContent {
	md := p.Metadata(content, prov)
	result := p.Validate(content, md, p.Target(prov))

	if !result.IsValid {
		p.logger().Warn("published content failed validation", "issues", len(result.Issues))
	}

	return types.PublishedContent{
		Source:     content,
		Formatted:  Format(content, md.SectionType),
		Metadata:   md,
		Validation: result,
	}
}

// Format returns the publication view of content.
func Format(content types.CitedContent, section string) types.FormattedContent {
	text := content.FinalText()
	citations := make([]types.Citation, len(content.Citations))
	copy(citations, content.Citations)
	return types.FormattedContent{
		Section:   section,
		Content:   text,
		Citations: citations,
		WordCount: wordcount.Count(text),
	}
}

// Metadata computes the metadata record for content.
func (p *Publisher) Metadata(content types.CitedContent, prov Provenance) types.Metadata {
	section := prov.SectionType
	if section == "" {
		section = DefaultSection
	}
	return types.Metadata{
		SectionType:    section,
		WordCount:      wordcount.Count(content.FinalText()),
		CitationCount:  len(content.Citations),
		Timestamp:      p.now().Format(time.RFC3339),
		Author:         p.Author,
		Version:        p.Version,
		GenerationInfo: prov.Generation,
	}
}

// Validate runs every validator against content and md and collects the
// warnings. IsValid is true exactly when no validator reports an issue.
func (p *Publisher) Validate(content types.CitedContent, md types.Metadata, target int) types.ValidationResult {
	s := Subject{Content: content, Metadata: md, Target: target}

	validators := p.Validators
	if validators == nil {
		validators = DefaultValidators()
	}
	var issues []string
	for _, v := range validators {
		issues = append(issues, v(s)...)
	}
	return types.NewValidationResult(issues, Warnings(s))
}
