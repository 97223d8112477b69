// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Criterion is one of the five fixed academic-quality dimensions a reviewer
// scores. The set is closed; NumCriteria values exist.
type Criterion uint8

const (
	CriterionClarity Criterion = iota
	CriterionCoherence
	CriterionAcademicStyle
	CriterionContentQuality
	CriterionStructure

	// NumCriteria is the number of review criteria.
	NumCriteria = 5
)

var criterionNames = [NumCriteria]string{
	"Clarity",
	"Coherence",
	"Academic Style",
	"Content Quality",
	"Structure",
}

// AllCriteria returns the criteria in canonical order.
func AllCriteria() [NumCriteria]Criterion {
	return [NumCriteria]Criterion{
		CriterionClarity,
		CriterionCoherence,
		CriterionAcademicStyle,
		CriterionContentQuality,
		CriterionStructure,
	}
}

// String returns the display name, e.g. "Academic Style".
func (c Criterion) String() string {
	if int(c) < NumCriteria {
		return criterionNames[c]
	}
	return fmt.Sprintf("Criterion(%d)", uint8(c))
}

// Key returns the normalized lookup key, e.g. "ACADEMIC_STYLE".
func (c Criterion) Key() string {
	return CriterionKey(c.String())
}

// MarshalText encodes the criterion by display name.
func (c Criterion) MarshalText() ([]byte, error) {
	if int(c) >= NumCriteria {
		return nil, fmt.Errorf("unknown criterion %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a criterion from its display name or key.
func (c *Criterion) UnmarshalText(text []byte) error {
	parsed, ok := ParseCriterion(string(text))
	if !ok {
		return fmt.Errorf("unknown criterion %q", string(text))
	}
	*c = parsed
	return nil
}

// CriterionKey normalizes a criterion label the way reviewer output is
// matched: trimmed, upper-cased, with spaces and hyphens as underscores.
func CriterionKey(name string) string {
	key := strings.ToUpper(strings.TrimSpace(name))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	return key
}

// ParseCriterion maps a label such as "Academic Style" or "ACADEMIC_STYLE"
// to its Criterion.
func ParseCriterion(name string) (Criterion, bool) {
	key := CriterionKey(name)
	for _, c := range AllCriteria() {
		if c.Key() == key {
			return c, true
		}
	}
	return 0, false
}

// Score bounds for a single criterion.
const (
	MinScore     = 1.0
	MaxScore     = 10.0
	DefaultScore = 6.0
)

// ReviewScore is the score for one criterion.
type ReviewScore struct {
	Criterion Criterion `json:"criterion" yaml:"criterion"`
	Score     float64   `json:"score" yaml:"score"`
	Feedback  string    `json:"feedback" yaml:"feedback"`
}

// ReviewedCandidate is a candidate text with a complete score set. Scores is
// indexed by Criterion, so every criterion is always present.
type ReviewedCandidate struct {
	Text            string                   `json:"text" yaml:"text"`
	Scores          [NumCriteria]ReviewScore `json:"scores" yaml:"scores"`
	TotalScore      float64                  `json:"total_score" yaml:"total_score"`
	OverallFeedback string                   `json:"overall_feedback" yaml:"overall_feedback"`

	// Degradations lists the fallbacks applied while parsing the review.
	Degradations []string `json:"degradations,omitempty" yaml:"degradations,omitempty"`
}

// NewReviewedCandidate builds a ReviewedCandidate and computes TotalScore as
// the arithmetic mean of the five scores.
func NewReviewedCandidate(text string, scores [NumCriteria]ReviewScore, overall string, degradations []string) ReviewedCandidate {
	var sum float64
	for _, s := range scores {
		sum += s.Score
	}
	return ReviewedCandidate{
		Text:            text,
		Scores:          scores,
		TotalScore:      sum / NumCriteria,
		OverallFeedback: overall,
		Degradations:    append([]string(nil), degradations...),
	}
}

// Score returns the score recorded for criterion c.
func (r ReviewedCandidate) Score(c Criterion) ReviewScore {
	return r.Scores[c]
}
