// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/section-writer/internal/wordcount"
	"github.com/pdiddy/section-writer/pkg/types"
)

// Subject is everything the validators may inspect. Each validator reads
// only its own part of it.
type Subject struct {
	Content  types.CitedContent
	Metadata types.Metadata
	Target   int
}

// Validator returns the issues it finds in s. Validators are independent:
// none depends on another's output, so their order does not change the
// combined result.
type Validator func(s Subject) []string

// DefaultValidators returns the word-count, citation, structure and
// metadata validators, in that order.
func DefaultValidators() []Validator {
	return []Validator{
		ValidateWordCount,
		ValidateCitations,
		ValidateStructure,
		ValidateMetadata,
	}
}

// ValidateWordCount reports text longer than 1.1x or shorter than 0.85x the
// target.
func ValidateWordCount(s Subject) []string {
	actual := wordcount.Count(s.Content.FinalText())
	target := float64(s.Target)
	switch {
	case float64(actual) > target*1.1:
		return []string{fmt.Sprintf("Content exceeds word limit: %d words vs %d limit", actual, s.Target)}
	case float64(actual) < target*0.85:
		return []string{fmt.Sprintf("Content is too short: %d words vs %d target", actual, s.Target)}
	}
	return nil
}

// ValidateCitations reports an empty citation list and markers that are not
// bracketed.
func ValidateCitations(s Subject) []string {
	var issues []string
	if len(s.Content.Citations) == 0 {
		issues = append(issues, "No citations found in the content")
	}
	for _, c := range s.Content.Citations {
		if !strings.Contains(c.MarkerText, "[") || !strings.Contains(c.MarkerText, "]") {
			issues = append(issues, "Some citations are not properly formatted")
			break
		}
	}
	return issues
}

// ValidateStructure reports empty text and an empty citation list.
func ValidateStructure(s Subject) []string {
	var issues []string
	if strings.TrimSpace(s.Content.FinalText()) == "" {
		issues = append(issues, "Content is empty")
	}
	if len(s.Content.Citations) == 0 {
		issues = append(issues, "No citations found")
	}
	return issues
}

// ValidateMetadata reports each required field that is empty.
func ValidateMetadata(s Subject) []string {
	required := []struct {
		name  string
		value string
	}{
		{"author", s.Metadata.Author},
		{"timestamp", s.Metadata.Timestamp},
		{"version", s.Metadata.Version},
	}
	var issues []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			issues = append(issues, "Missing required metadata field: "+f.name)
		}
	}
	return issues
}

// markerPattern matches an inline bracketed marker: [Reason].
var markerPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// CountMarkers returns the number of bracketed markers in text, ignoring
// word-count annotations.
func CountMarkers(text string) int {
	return len(markerPattern.FindAllString(wordcount.Strip(text), -1))
}

// Warnings returns the advisory notes for s. They never affect validity.
func Warnings(s Subject) []string {
	var warnings []string
	citations := len(s.Content.Citations)
	if citations < 3 {
		warnings = append(warnings, "Consider adding more citations for better academic rigor")
	}

	text := s.Content.FinalText()
	actual := wordcount.Count(text)
	target := float64(s.Target)
	switch {
	case float64(actual) < target*0.7:
		warnings = append(warnings, fmt.Sprintf("Content is shorter than target: %d words vs %d target", actual, s.Target))
	case float64(actual) > target*1.1:
		warnings = append(warnings, fmt.Sprintf("Content is longer than target: %d words vs %d target", actual, s.Target))
	}

	if markers := CountMarkers(text); markers < citations {
		warnings = append(warnings, fmt.Sprintf("Inline citation markers (%d) do not match citation records (%d)", markers, citations))
	}
	return warnings
}
