// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/section-writer/internal/costs"
	"github.com/pdiddy/section-writer/internal/llm"
	"github.com/pdiddy/section-writer/internal/llm/llmtest"
	"github.com/pdiddy/section-writer/pkg/types"
)

var testParams = types.GenerationParams{Model: "gpt-4", Temperature: 0.7, MaxTokens: 2000}

const original = "Transformers dominate NLP. They scale well."

func TestParseCitations_WellFormed(t *testing.T) {
	reply := `Cited content:
Transformers dominate NLP [Needs survey]. They scale well [Needs scaling study].

Citations:
1. Location: First sentence | Reason: Needs survey
2. Location: Second sentence | Reason: Needs scaling study
[etc.]`

	got, report := parseCitations(original, reply)
	assert.False(t, report.Degraded())
	assert.Equal(t, "Transformers dominate NLP [Needs survey]. They scale well [Needs scaling study].", got.CitedText)
	require.Len(t, got.Citations, 2)
	assert.Equal(t, types.Citation{
		MarkerText: "[Needs survey]",
		Source:     SourceReason,
		Location:   "First sentence",
		Reason:     "Needs survey",
	}, got.Citations[0])
	require.Len(t, got.CitationChanges, 2)
	assert.Equal(t, types.RevisionChange{Type: "citation", Location: "Second sentence", Change: "Added citation reason: Needs scaling study"}, got.CitationChanges[1])
	assert.Equal(t, "Added 2 citation reasons to indicate where academic support is needed throughout the text while preserving the full content.", got.Summary)
}

func TestParseCitations_Fallbacks(t *testing.T) {
	for _, reply := range []string{"", "Cited content:\n", "Citations:\nnothing useful here", "Citations:\n1. Location: Intro | Reason:"} {
		got, report := parseCitations(original, reply)

		assert.True(t, report.Degraded(), reply)
		assert.Equal(t, original, got.CitedText)
		require.Len(t, got.Citations, 1)
		assert.Equal(t, Placeholder(), got.Citations[0])
		require.Len(t, got.CitationChanges, 1)
		assert.Equal(t, "General", got.CitationChanges[0].Location)
		assert.Equal(t, noCitationsNote, got.CitationChanges[0].Change)
		assert.Contains(t, got.Summary, "Added 1 citation reasons")
	}
}

func TestParseCitations_MultiParagraph(t *testing.T) {
	reply := "Cited content:\nPara one [r1].\n\nPara two [r2].\n\nCitations:\nLocation: P1 | Reason: r1\nLocation: P2 | Reason: r2 | extra"
	got, _ := parseCitations(original, reply)

	assert.Equal(t, "Para one [r1].\n\nPara two [r2].", got.CitedText)
	require.Len(t, got.Citations, 2)
	assert.Equal(t, "r2", got.Citations[1].Reason)
}

func TestCite(t *testing.T) {
	script := llmtest.Texts("Cited content:\nText [why].\n\nCitations:\n1. Location: Body | Reason: why")
	tracker := costs.NewTracker()

	got, err := New(script, tracker, testParams).Cite(context.Background(), original)
	require.NoError(t, err)
	assert.Equal(t, "Text [why].", got.FinalText())
	assert.Equal(t, original, got.OriginalText)

	assert.Contains(t, script.Prompt(0), "maintain EXACTLY 6 words")
	calls := tracker.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, costs.OpCite, calls[0].Operation)
}

func TestCite_Errors(t *testing.T) {
	_, err := New(llmtest.Texts("x"), nil, testParams).Cite(context.Background(), " ")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	remote := &llm.RemoteServiceError{Kind: llm.KindTransport}
	_, err = New(llmtest.NewScript(llmtest.Reply{Err: remote}), nil, testParams).Cite(context.Background(), original)
	var rse *llm.RemoteServiceError
	require.True(t, errors.As(err, &rse))
	assert.Equal(t, llm.KindTransport, rse.Kind)
}
