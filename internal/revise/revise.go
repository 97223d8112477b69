// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package revise asks the model to improve the selected text for clarity,
// coherence and academic style while keeping its length.
package revise

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
const ChangeType = "revision"

// NoChangesNote is the placeholder change used when the reply lists none.
const NoChangesNote = "No specific changes were needed; the text was already well-written."

// Reviser runs the revision stage.
type Reviser struct {
	Completer llm.Completer
	Costs     costs.Recorder
	Params    types.GenerationParams
	Logger    *slog.Logger
}

// New returns a Reviser that calls c with params and records each call in
// rec.
func New(c llm.Completer, rec costs.Recorder, params types.GenerationParams) *Reviser {
	return &Reviser{Completer: c, Costs: rec, Params: params}
}

func (r *Reviser) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default().With("stage", "revise")
}

// Revise returns a revised version of text. When the reply carries no
// revised text the original is kept, and when it lists no changes a single
// placeholder change is reported.
func (r *Reviser) Revise(ctx context.Context, text string) (types.RevisedContent, error) {
	if strings.TrimSpace(text) == "" {
		return types.RevisedContent{}, fmt.Errorf("text to revise is empty: %w", types.ErrInvalidArgument)
	}

	prompt, err := renderPrompt(text, wordcount.Count(text))
	if err != nil {
		return types.RevisedContent{}, fmt.Errorf("rendering prompt: %w", err)
	}

	resp, err := r.Completer.Complete(ctx, llm.Request{
		Messages:    []llm.Message{llm.System(systemPrompt), llm.User(prompt)},
		Model:       r.Params.Model,
		Temperature: r.Params.Temperature,
		MaxTokens:   r.Params.MaxTokens,
	})
	if err != nil {
		return types.RevisedContent{}, err
	}
	if r.Costs != nil {
		r.Costs.RecordCall(r.Params.Model, resp.InputTokens, resp.OutputTokens, costs.OpRevise)
	}

	revised, report := parseRevision(text, resp.Text)
	for _, d := range report.Items() {
		r.logger().Warn("revision reply degraded", "field", d.Field, "reason", d.Reason)
	}
	return revised, nil
}

// parseRevision builds the stage output from a reply.
func parseRevision(original, reply string) (types.RevisedContent, *parse.Report) {
	report := &parse.Report{}
	doc := parse.Sections(reply, labelRevised, labelChanges)

	revised, _ := doc.Get(labelRevised)
	if revised == "" {
		report.Degrade("revised_content", "missing, keeping original text")
		revised = original
	}

	changesBody, _ := doc.Get(labelChanges)
	var changes []types.RevisionChange
	for _, line := range parse.Lines(changesBody) {
		location, description, ok := parse.ParseNumberedLine(line)
		if !ok {
			continue
		}
		changes = append(changes, types.RevisionChange{
			Type:     ChangeType,
			Location: location,
			Change:   description,
		})
	}
	if len(changes) == 0 {
		report.Degrade("revision_changes", "none listed")
		changes = []types.RevisionChange{{Type: ChangeType, Location: "General", Change: NoChangesNote}}
	}

	return types.RevisedContent{
		OriginalText: original,
		RevisedText:  revised,
		Changes:      changes,
		Summary:      fmt.Sprintf("Made %d revisions to improve clarity, coherence, and style while preserving the full content.", len(changes)),
		Degradations: report.Reasons(),
	}, report
}
