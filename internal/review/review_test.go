// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/section-writer/internal/costs"
	"github.com/pdiddy/section-writer/internal/llm"
	"github.com/pdiddy/section-writer/internal/llm/llmtest"
	"github.com/pdiddy/section-writer/pkg/types"
)

var testParams = types.GenerationParams{Model: "gpt-4", Temperature: 0.7, MaxTokens: 2000}

const wellFormed = `SCORES:
Clarity: 8/10 | Feedback: Clear prose.
Coherence: 7/10 | Feedback: Good flow.
Academic Style: 9/10 | Feedback: Formal tone.
Content Quality: 8.5/10 | Feedback: Thorough.
Structure: 7/10 | Feedback: Well organized.

OVERALL FEEDBACK:
Strong draft overall.

Tighten the second paragraph.`

func TestParseReview_WellFormed(t *testing.T) {
	got, report := parseReview("candidate", wellFormed)

	assert.False(t, report.Degraded())
	assert.Nil(t, got.Degradations)
	assert.Equal(t, "candidate", got.Text)
	assert.Equal(t, 8.0, got.Score(types.CriterionClarity).Score)
	assert.Equal(t, 8.5, got.Score(types.CriterionContentQuality).Score)
	assert.Equal(t, "Formal tone.", got.Score(types.CriterionAcademicStyle).Feedback)
	assert.InDelta(t, (8+7+9+8.5+7)/5.0, got.TotalScore, 1e-9)
	assert.Equal(t, "Strong draft overall.\n\nTighten the second paragraph.", got.OverallFeedback)
}

func TestParseReview_Defaults(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"empty reply", ""},
		{"prose only", "This text is fine, I suppose."},
		{"labels without content", "SCORES:\n\nOVERALL FEEDBACK:\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, report := parseReview("candidate", tt.reply)

			assert.True(t, report.Degraded())
			for _, c := range types.AllCriteria() {
				s := got.Score(c)
				assert.Equal(t, c, s.Criterion)
				assert.Equal(t, types.DefaultScore, s.Score)
				assert.Equal(t, DefaultFeedback, s.Feedback)
			}
			assert.Equal(t, types.DefaultScore, got.TotalScore)
			assert.Equal(t, DefaultOverallFeedback, got.OverallFeedback)
			assert.NotEmpty(t, got.Degradations)
		})
	}
}

func TestParseReview_PartialScores(t *testing.T) {
	reply := "SCORES:\nClarity: 9/10 | Feedback: Very clear.\nStructure: 3/10 | Feedback: Disorganized.\n\nOVERALL FEEDBACK:\nMixed."
	got, _ := parseReview("candidate", reply)

	assert.Equal(t, 9.0, got.Score(types.CriterionClarity).Score)
	assert.Equal(t, 3.0, got.Score(types.CriterionStructure).Score)
	assert.Equal(t, types.DefaultScore, got.Score(types.CriterionCoherence).Score)
	assert.InDelta(t, (9+3+6+6+6)/5.0, got.TotalScore, 1e-9)
	assert.Contains(t, strings.Join(got.Degradations, "\n"), "COHERENCE: criterion missing")
}

func TestParseReview_ScoreRepair(t *testing.T) {
	reply := `SCORES:
1. **Clarity (Score 1-10)**: 12/10 | Feedback: Too generous.
2. Coherence: [X]/10 | Feedback: Placeholder left in.
3. academic-style: 0/10 | Feedback: Zero.
4. Content Quality: 4/10 | Feedback: First.
5. Content Quality: 5/10 | Feedback: Second.
Structure: 7/10 |
Originality: 9/10 | Feedback: Not a criterion.

OVERALL FEEDBACK:
ok`
	got, _ := parseReview("candidate", reply)

	assert.Equal(t, types.MaxScore, got.Score(types.CriterionClarity).Score)
	assert.Equal(t, types.MinScore, got.Score(types.CriterionCoherence).Score)
	assert.Equal(t, types.MinScore, got.Score(types.CriterionAcademicStyle).Score)
	assert.Equal(t, 5.0, got.Score(types.CriterionContentQuality).Score)
	assert.Equal(t, "Second.", got.Score(types.CriterionContentQuality).Feedback)
	assert.Equal(t, DefaultFeedback, got.Score(types.CriterionStructure).Feedback)

	joined := strings.Join(got.Degradations, "\n")
	assert.Contains(t, joined, "CLARITY: score 12 out of range, clamped to 10")
	assert.Contains(t, joined, "COHERENCE: no numeric score")
	assert.Contains(t, joined, `ignored unknown criterion "Originality"`)
}

func TestParseReview_FeedbackMentioningScores(t *testing.T) {
	for name, overall := range map[string]string{
		"same paragraph": "OVERALL FEEDBACK:\nA strong section.\nScores: were high across the board.",
		"new paragraph":  "OVERALL FEEDBACK:\nA strong section.\n\nScores: were high across the board.",
	} {
		t.Run(name, func(t *testing.T) {
			var b strings.Builder
			b.WriteString("SCORES:\n")
			for _, c := range types.AllCriteria() {
				b.WriteString(c.String() + ": 9/10 | Feedback: good\n")
			}
			b.WriteString("\n" + overall)

			got, report := parseReview("candidate", b.String())

			assert.False(t, report.Degraded(), report.Reasons())
			assert.Equal(t, 9.0, got.TotalScore)
			assert.Contains(t, got.OverallFeedback, "Scores: were high")
		})
	}
}

func TestParseReview_MissingScoresLabel(t *testing.T) {
	reply := "Clarity: 8/10 | Feedback: fine\n\nOVERALL FEEDBACK:\nfine"
	got, _ := parseReview("candidate", reply)

	assert.Equal(t, 8.0, got.Score(types.CriterionClarity).Score)
	assert.Contains(t, got.Degradations[0], "label missing")
}

func TestReview(t *testing.T) {
	script := llmtest.Texts(wellFormed)
	tracker := costs.NewTracker()
	r := New(script, tracker, testParams)

	got, err := r.Review(context.Background(), "The candidate text.")
	require.NoError(t, err)
	assert.Equal(t, "The candidate text.", got.Text)
	assert.Equal(t, 9.0, got.Score(types.CriterionAcademicStyle).Score)

	reqs := script.Requests()
	require.Len(t, reqs, 1)
	require.Len(t, reqs[0].Messages, 2)
	assert.Equal(t, llm.RoleSystem, reqs[0].Messages[0].Role)
	assert.Contains(t, reqs[0].Messages[1].Content, "The candidate text.")
	assert.Contains(t, reqs[0].Messages[1].Content, "Academic Style: [X]/10 | Feedback:")

	calls := tracker.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, costs.OpReview, calls[0].Operation)
}

func TestReview_EmptyText(t *testing.T) {
	r := New(llmtest.Texts(wellFormed), nil, testParams)
	_, err := r.Review(context.Background(), "  ")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestReview_RemoteError(t *testing.T) {
	remote := &llm.RemoteServiceError{Kind: llm.KindTimeout}
	r := New(llmtest.NewScript(llmtest.Reply{Err: remote}), nil, testParams)

	_, err := r.Review(context.Background(), "text")
	var rse *llm.RemoteServiceError
	require.True(t, errors.As(err, &rse))
	assert.Equal(t, llm.KindTimeout, rse.Kind)
}

func TestReviewAll_OrderPreserved(t *testing.T) {
	script := llmtest.Texts(wellFormed)
	r := New(script, costs.NewTracker(), testParams)
	r.Workers = 3

	candidates := []types.GeneratedCandidate{{Text: "one"}, {Text: "two"}, {Text: "three"}}
	got, err := r.ReviewAll(context.Background(), candidates)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, c := range candidates {
		assert.Equal(t, c.Text, got[i].Text)
	}
	assert.Equal(t, 3, script.Calls())
}
