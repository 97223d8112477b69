// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cite annotates revised text with bracketed citation reasons that
// mark where academic support is needed. It does not look up sources.
package cite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/section-writer/internal/costs"
	"github.com/pdiddy/section-writer/internal/llm"
	"github.com/pdiddy/section-writer/internal/parse"
	"github.com/pdiddy/section-writer/internal/wordcount"
	"github.com/pdiddy/section-writer/pkg/types"
)

// ChangeType tags every change this stage reports.
const ChangeType = "citation"

// Source values recorded on citations.
const (
	SourceReason = "Citation reason"
	SourceNone   = "No citations provided"
)

// Placeholder returns the citation reported when the reply lists none.
func Placeholder() types.Citation {
	return types.Citation{
		MarkerText: "[Citation needed]",
		Source:     SourceNone,
		Location:   "Throughout text",
		Reason:     "Citation reasons are needed to indicate where academic support is required",
	}
}

const noCitationsNote = "No citation reasons were added; the text requires indications of where academic support is needed"

// Citer runs the citation stage.
type Citer struct {
	Completer llm.Completer
	Costs     costs.Recorder
	Params    types.GenerationParams
	Logger    *slog.Logger
}

// New returns a Citer that calls c with params and records each call in rec.
func New(c llm.Completer, rec costs.Recorder, params types.GenerationParams) *Citer {
	return &Citer{Completer: c, Costs: rec, Params: params}
}

func (c *Citer) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default().With("stage", "cite")
}

// Cite annotates text. The result always carries at least one citation and
// non-empty cited text.
func (c *Citer) Cite(ctx context.Context, text string) (types.CitedContent, error) {
	if strings.TrimSpace(text) == "" {
		return types.CitedContent{}, fmt.Errorf("text to cite is empty: %w", types.ErrInvalidArgument)
	}

	prompt, err := renderPrompt(text, wordcount.Count(text))
	if err != nil {
		return types.CitedContent{}, fmt.Errorf("rendering prompt: %w", err)
	}

	resp, err := c.Completer.Complete(ctx, llm.Request{
		Messages:    []llm.Message{llm.System(systemPrompt), llm.User(prompt)},
		Model:       c.Params.Model,
		Temperature: c.Params.Temperature,
		MaxTokens:   c.Params.MaxTokens,
	})
	if err != nil {
		return types.CitedContent{}, err
	}
	if c.Costs != nil {
		c.Costs.RecordCall(c.Params.Model, resp.InputTokens, resp.OutputTokens, costs.OpCite)
	}

	cited, report := parseCitations(text, resp.Text)
	for _, d := range report.Items() {
		c.logger().Warn("citation reply degraded", "field", d.Field, "reason", d.Reason)
	}
	return cited, nil
}

// parseCitations builds the stage output from a reply. Each citation line
// yields a citation and a mirror change.
func parseCitations(original, reply string) (types.CitedContent, *parse.Report) {
	report := &parse.Report{}
	doc := parse.Sections(reply, labelCited, labelCitations)

	cited, _ := doc.Get(labelCited)
	if cited == "" {
		report.Degrade("cited_content", "missing, keeping original text")
		cited = original
	}

	body, _ := doc.Get(labelCitations)
	var (
		citations []types.Citation
		changes   []types.RevisionChange
	)
	for _, line := range parse.Lines(body) {
		location, reason, ok := parse.ParsePipeLine(line)
		if !ok {
			continue
		}
		if reason == "" {
			report.Degrade("citations", "skipped line without a reason: %q", line)
			continue
		}
		citations = append(citations, types.Citation{
			MarkerText: "[" + reason + "]",
			Source:     SourceReason,
			Location:   location,
			Reason:     reason,
		})
		changes = append(changes, types.RevisionChange{
			Type:     ChangeType,
			Location: location,
			Change:   "Added citation reason: " + reason,
		})
	}
	if len(citations) == 0 {
		report.Degrade("citations", "none listed")
		citations = []types.Citation{Placeholder()}
		changes = []types.RevisionChange{{Type: ChangeType, Location: "General", Change: noCitationsNote}}
	}

	return types.CitedContent{
		OriginalText:    original,
		CitedText:       cited,
		Citations:       citations,
		CitationChanges: changes,
		Summary:         fmt.Sprintf("Added %d citation reasons to indicate where academic support is needed throughout the text while preserving the full content.", len(citations)),
		Degradations:    report.Reasons(),
	}, report
}
