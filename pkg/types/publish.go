// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ValidationResult is the publisher's pass/fail report. IsValid is true
// exactly when Issues is empty; Warnings never affect it.
type ValidationResult struct {
	IsValid  bool     `json:"is_valid" yaml:"is_valid"`
	Issues   []string `json:"issues" yaml:"issues"`
	Warnings []string `json:"warnings" yaml:"warnings"`
}

// NewValidationResult builds a ValidationResult from issue and warning lists.
// Nil lists are normalized to empty so the serialized form is stable.
func NewValidationResult(issues, warnings []string) ValidationResult {
	if issues == nil {
		issues = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return ValidationResult{
		IsValid:  len(issues) == 0,
		Issues:   issues,
		Warnings: warnings,
	}
}

// FormattedContent is the publication-ready view of the final text.
type FormattedContent struct {
	Section   string     `json:"section" yaml:"section"`
	Content   string     `json:"content" yaml:"content"`
	Citations []Citation `json:"citations" yaml:"citations"`
	WordCount int        `json:"word_count" yaml:"word_count"`
}

// GenerationInfo records the model settings behind a published section.
type GenerationInfo struct {
	Model       string  `json:"model" yaml:"model"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// Metadata describes a published section. Author, Timestamp and Version are
// required; an empty value counts as missing.
type Metadata struct {
	SectionType    string         `json:"section_type" yaml:"section_type"`
	WordCount      int            `json:"word_count" yaml:"word_count"`
	CitationCount  int            `json:"citation_count" yaml:"citation_count"`
	Timestamp      string         `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Author         string         `json:"author,omitempty" yaml:"author,omitempty"`
	Version        string         `json:"version,omitempty" yaml:"version,omitempty"`
	GenerationInfo GenerationInfo `json:"generation_info" yaml:"generation_info"`
}

// PublishedContent is the terminal record of a pipeline run.
type PublishedContent struct {
	Source     CitedContent     `json:"-" yaml:"-"`
	Formatted  FormattedContent `json:"formatted_content" yaml:"formatted_content"`
	Metadata   Metadata         `json:"metadata" yaml:"metadata"`
	Validation ValidationResult `json:"validation" yaml:"validation"`
}
