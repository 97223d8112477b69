// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the section-writing stages in order: generate
// candidates, review each, select the best, revise it, annotate it with
// citation reasons and publish the result.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/section-writer/internal/cite"
	"github.com/pdiddy/section-writer/internal/costs"
	"github.com/pdiddy/section-writer/internal/generate"
	"github.com/pdiddy/section-writer/internal/llm"
	"github.com/pdiddy/section-writer/internal/publish"
	"github.com/pdiddy/section-writer/internal/review"
	"github.com/pdiddy/section-writer/internal/revise"
	"github.com/pdiddy/section-writer/internal/runstore"
	"github.com/pdiddy/section-writer/internal/selector"
	"github.com/pdiddy/section-writer/pkg/types"
)

// Pipeline holds what every run shares. Each Run gets its own cost tracker.
type Pipeline struct {
	Completer llm.Completer
	Config    types.Config

	// Progress receives one human-readable line per step; nil discards.
	Progress io.Writer

	// Now and NewID are injectable for tests.
	Now   func() time.Time
	NewID func() string

	Logger *slog.Logger
}

// New returns a Pipeline that sends every completion to c.
func New(c llm.Completer, cfg types.Config) *Pipeline {
	return &Pipeline{Completer: c, Config: cfg}
}

// Result is everything a run produced.
type Result struct {
	RunID         string
	StartedAt     time.Time
	Request       types.SectionRequest
	Candidates    []types.GeneratedCandidate
	Reviews       []types.ReviewedCandidate
	SelectedIndex int
	Selected      types.ReviewedCandidate
	Revised       types.RevisedContent
	Cited         types.CitedContent
	Published     types.PublishedContent
	Costs         *costs.Tracker
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pipeline) progress() io.Writer {
	if p.Progress != nil {
		return p.Progress
	}
	return io.Discard
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default().With("component", "pipeline")
}

// Run executes every stage for req. A remote failure in any stage ends the
// run and is returned wrapped with the stage name; nothing is persisted.
func (p *Pipeline) Run(ctx context.Context, req types.SectionRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	n := p.Config.Pipeline.Candidates
	if n <= 0 {
		n = types.DefaultCandidates
	}

	runID := uuid.NewString()
	if p.NewID != nil {
		runID = p.NewID()
	}
	res := &Result{
		RunID:     runID,
		StartedAt: p.now(),
		Request:   req,
		Costs:     costs.NewTracker(),
	}
	res.Costs.Now = p.Now
	log := p.logger().With("run", runID)
	w := p.progress()
	params := p.Config.AI.Params()
	workers := p.Config.Pipeline.Workers

	fmt.Fprintf(w, "generating %d %s candidates (%d words)\n", n, req.Section, req.WordLimit)
	gen := generate.New(p.Completer, res.Costs, params)
	gen.Workers = workers
	candidates, err := gen.GenerateAll(ctx, req, n)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	res.Candidates = candidates

	fmt.Fprintf(w, "reviewing %d candidates\n", len(candidates))
	rev := review.New(p.Completer, res.Costs, params)
	rev.Workers = workers
	reviews, err := rev.ReviewAll(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("review: %w", err)
	}
	res.Reviews = reviews
	for i, r := range reviews {
		fmt.Fprintf(w, "  candidate %d: %.2f\n", i+1, r.TotalScore)
	}

	selected, err := selector.Select(reviews)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	res.Selected = selected
	res.SelectedIndex = selector.SelectIndex(reviews)
	fmt.Fprintf(w, "selected candidate %d (%.2f)\n", res.SelectedIndex+1, selected.TotalScore)

	fmt.Fprintf(w, "revising\n")
	revised, err := revise.New(p.Completer, res.Costs, params).Revise(ctx, selected.Text)
	if err != nil {
		return nil, fmt.Errorf("revise: %w", err)
	}
	res.Revised = revised

	fmt.Fprintf(w, "adding citation reasons\n")
	cited, err := cite.New(p.Completer, res.Costs, params).Cite(ctx, revised.RevisedText)
	if err != nil {
		return nil, fmt.Errorf("cite: %w", err)
	}
	res.Cited = cited

	pub := publish.New(p.Config.Publish)
	pub.Now = p.Now
	res.Published = pub.Publish(cited, publish.Provenance{
		SectionType: req.Section,
		WordLimit:   req.WordLimit,
		Generation:  types.GenerationInfo{Model: params.Model, Temperature: params.Temperature},
	})
	v := res.Published.Validation
	fmt.Fprintf(w, "published: %d words, %d citations, valid=%t\n",
		res.Published.Metadata.WordCount, res.Published.Metadata.CitationCount, v.IsValid)

	log.Info("run complete",
		"section", req.Section,
		"selected", res.SelectedIndex,
		"valid", v.IsValid,
		"issues", len(v.Issues),
		"cost", res.Costs.TotalCost())
	return res, nil
}

// Record summarizes the result for the run store.
func (r *Result) Record(artifactPath string) runstore.RunRecord {
	pub := r.Published
	return runstore.RunRecord{
		ID:            r.RunID,
		CreatedAt:     r.StartedAt,
		Section:       r.Request.Section,
		WordLimit:     r.Request.WordLimit,
		Model:         pub.Metadata.GenerationInfo.Model,
		Candidates:    len(r.Candidates),
		SelectedIndex: r.SelectedIndex,
		SelectedScore: r.Selected.TotalScore,
		WordCount:     pub.Metadata.WordCount,
		CitationCount: pub.Metadata.CitationCount,
		IsValid:       pub.Validation.IsValid,
		Issues:        pub.Validation.Issues,
		Warnings:      pub.Validation.Warnings,
		ArtifactPath:  artifactPath,
		TotalCost:     r.Costs.TotalCost(),
		Calls:         r.Costs.Calls(),
	}
}
