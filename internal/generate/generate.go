// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate produces candidate texts for a paper section. Each
// candidate is an independent completion of the same prompt.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/section-writer/internal/costs"
	"github.com/pdiddy/section-writer/internal/llm"
	"github.com/pdiddy/section-writer/pkg/types"
)

// Generator produces candidate texts with one completion call per candidate.
type Generator struct {
	Completer llm.Completer
	Costs     costs.Recorder
	Params    types.GenerationParams

	// Workers bounds concurrent calls in GenerateAll; values below 1 mean 1.
	Workers int

	Logger *slog.Logger
}

// New returns a Generator that calls c with params and records each call in
// rec.
func New(c llm.Completer, rec costs.Recorder, params types.GenerationParams) *Generator {
	return &Generator{Completer: c, Costs: rec, Params: params, Workers: 1}
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default().With("stage", "generate")
}

// Generate produces one candidate for req. An empty reply fails with a
// RemoteServiceError of kind empty_response.
func (g *Generator) Generate(ctx context.Context, req types.SectionRequest) (types.GeneratedCandidate, error) {
	if err := req.Validate(); err != nil {
		return types.GeneratedCandidate{}, err
	}

	prompt, err := renderPrompt(req)
	if err != nil {
		return types.GeneratedCandidate{}, fmt.Errorf("rendering prompt: %w", err)
	}

	resp, err := g.Completer.Complete(ctx, llm.Request{
		Messages:    []llm.Message{llm.User(prompt)},
		Model:       g.Params.Model,
		Temperature: g.Params.Temperature,
		MaxTokens:   g.Params.MaxTokens,
	})
	if err != nil {
		return types.GeneratedCandidate{}, err
	}
	if g.Costs != nil {
		g.Costs.RecordCall(g.Params.Model, resp.InputTokens, resp.OutputTokens, costs.OpGenerate)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return types.GeneratedCandidate{}, &llm.RemoteServiceError{
			Kind: llm.KindEmptyResponse,
			Err:  fmt.Errorf("no text generated for %s section", req.Section),
		}
	}

	return types.GeneratedCandidate{
		Text:        text,
		SectionType: req.Section,
		WordLimit:   req.WordLimit,
		Params:      g.Params,
	}, nil
}

// GenerateAll produces n candidates for req, running up to Workers calls at
// once. The result is in candidate order regardless of completion order. The
// first failure cancels the remaining calls and is returned.
func (g *Generator) GenerateAll(ctx context.Context, req types.SectionRequest, n int) ([]types.GeneratedCandidate, error) {
	if n <= 0 {
		return nil, fmt.Errorf("candidate count must be positive, got %d: %w", n, types.ErrInvalidArgument)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	out := make([]types.GeneratedCandidate, n)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.Workers, 1))
	for i := range n {
		eg.Go(func() error {
			c, err := g.Generate(egCtx, req)
			if err != nil {
				return fmt.Errorf("generating candidate %d: %w", i+1, err)
			}
			out[i] = c
			g.logger().Debug("candidate generated", "index", i, "section", req.Section)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
