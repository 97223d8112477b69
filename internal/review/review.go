// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review scores candidate texts against the five academic-quality
// criteria. Every reviewed candidate carries a score for every criterion;
// gaps in the model's reply are filled with defaults and recorded as
// degradations.
package review

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/section-writer/internal/costs"
	"github.com/pdiddy/section-writer/internal/llm"
	"github.com/pdiddy/section-writer/internal/parse"
	"github.com/pdiddy/section-writer/pkg/types"
)

// Fallback text for missing reply fields.
const (
	DefaultFeedback        = "No specific feedback provided for this criterion"
	DefaultOverallFeedback = "No overall feedback provided"
)

// Reviewer scores texts with one completion call per text.
type Reviewer struct {
	Completer llm.Completer
	Costs     costs.Recorder
	Params    types.GenerationParams

	// Workers bounds concurrent calls in ReviewAll; values below 1 mean 1.
	Workers int

	Logger *slog.Logger
}

// New returns a Reviewer that calls c with params and records each call in
// rec.
func New(c llm.Completer, rec costs.Recorder, params types.GenerationParams) *Reviewer {
	return &Reviewer{Completer: c, Costs: rec, Params: params, Workers: 1}
}

func (r *Reviewer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default().With("stage", "review")
}

// Review scores text. Only remote failures and an empty text are errors; a
// malformed reply yields a complete score set with degradations.
func (r *Reviewer) Review(ctx context.Context, text string) (types.ReviewedCandidate, error) {
	if strings.TrimSpace(text) == "" {
		return types.ReviewedCandidate{}, fmt.Errorf("text to review is empty: %w", types.ErrInvalidArgument)
	}

	var names []string
	for _, c := range types.AllCriteria() {
		names = append(names, c.String())
	}
	prompt, err := renderPrompt(text, names)
	if err != nil {
		return types.ReviewedCandidate{}, fmt.Errorf("rendering prompt: %w", err)
	}

	resp, err := r.Completer.Complete(ctx, llm.Request{
		Messages:    []llm.Message{llm.System(systemPrompt), llm.User(prompt)},
		Model:       r.Params.Model,
		Temperature: r.Params.Temperature,
		MaxTokens:   r.Params.MaxTokens,
	})
	if err != nil {
		return types.ReviewedCandidate{}, err
	}
	if r.Costs != nil {
		r.Costs.RecordCall(r.Params.Model, resp.InputTokens, resp.OutputTokens, costs.OpReview)
	}

	reviewed, report := parseReview(text, resp.Text)
	for _, d := range report.Items() {
		r.logger().Warn("review reply degraded", "field", d.Field, "reason", d.Reason)
	}
	return reviewed, nil
}

// ReviewAll reviews each candidate, running up to Workers calls at once. The
// result is index-aligned with candidates.
func (r *Reviewer) ReviewAll(ctx context.Context, candidates []types.GeneratedCandidate) ([]types.ReviewedCandidate, error) {
	out := make([]types.ReviewedCandidate, len(candidates))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(r.Workers, 1))
	for i, c := range candidates {
		eg.Go(func() error {
			reviewed, err := r.Review(egCtx, c.Text)
			if err != nil {
				return fmt.Errorf("reviewing candidate %d: %w", i+1, err)
			}
			out[i] = reviewed
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// parenRe matches a trailing parenthetical such as "(Score 1-10)".
var parenRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// parseReview builds a complete ReviewedCandidate from a reply. Score lines
// are read from the SCORES section, or from the whole reply when that label
// is missing. For a criterion that appears twice the later line wins.
func parseReview(text, reply string) (types.ReviewedCandidate, *parse.Report) {
	report := &parse.Report{}
	doc := parse.Sections(reply, labelScores, labelOverall)

	scoresBody, ok := doc.Get(labelScores)
	if !ok {
		report.Degrade("scores", "%s label missing, scanning whole reply", labelScores)
		scoresBody = doc.Preamble
	}

	var (
		scores [types.NumCriteria]types.ReviewScore
		found  [types.NumCriteria]bool
	)
	for _, line := range parse.Lines(scoresBody) {
		sl, ok := parse.ParseScoreLine(line)
		if !ok {
			continue
		}
		c, ok := types.ParseCriterion(parenRe.ReplaceAllString(sl.Criterion, ""))
		if !ok {
			report.Degrade("scores", "ignored unknown criterion %q", sl.Criterion)
			continue
		}

		score := sl.Score
		switch {
		case !sl.ScoreOK:
			report.Degrade(c.Key(), "no numeric score, using %v", types.MinScore)
			score = types.MinScore
		case score < types.MinScore || score > types.MaxScore:
			clamped := min(max(score, types.MinScore), types.MaxScore)
			report.Degrade(c.Key(), "score %v out of range, clamped to %v", score, clamped)
			score = clamped
		}

		feedback := sl.Feedback
		if feedback == "" {
			report.Degrade(c.Key(), "feedback missing")
			feedback = DefaultFeedback
		}
		scores[c] = types.ReviewScore{Criterion: c, Score: score, Feedback: feedback}
		found[c] = true
	}

	for _, c := range types.AllCriteria() {
		if found[c] {
			continue
		}
		report.Degrade(c.Key(), "criterion missing, defaulted to %v", types.DefaultScore)
		scores[c] = types.ReviewScore{Criterion: c, Score: types.DefaultScore, Feedback: DefaultFeedback}
	}

	overall, _ := doc.Get(labelOverall)
	if overall == "" {
		report.Degrade("overall_feedback", "missing")
		overall = DefaultOverallFeedback
	}

	return types.NewReviewedCandidate(text, scores, overall, report.Reasons()), report
}
