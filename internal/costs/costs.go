// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package costs accounts for the price of completion calls. A Tracker is
// injected into every stage; it is safe for concurrent use.
package costs

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Operation names recorded by the pipeline stages.
const (
	OpGenerate = "generate_content"
	OpReview   = "review_content"
	OpRevise   = "revise_content"
	OpCite     = "add_citations"
)

// Rate is the USD price per 1K tokens.
type Rate struct {
	Input  float64
	Output float64
}

// fallbackModel prices any model missing from the table.
const fallbackModel = "gpt-4"

// Pricing is the per-model price table.
var Pricing = map[string]Rate{
	"gpt-4":         {Input: 0.03, Output: 0.06},
	"gpt-4-0613":    {Input: 0.03, Output: 0.06},
	"gpt-4o":        {Input: 0.03, Output: 0.06},
	"gpt-3.5-turbo": {Input: 0.001, Output: 0.002},
	"o1-2024-12-17": {Input: 0.015, Output: 0.06},
}

// RateFor returns the price of model, falling back to gpt-4 rates.
func RateFor(model string) Rate {
	if r, ok := Pricing[model]; ok {
		return r
	}
	return Pricing[fallbackModel]
}

// Call is one recorded completion call.
type Call struct {
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	Operation    string    `json:"operation" yaml:"operation"`
	Model        string    `json:"model" yaml:"model"`
	InputTokens  int       `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int       `json:"output_tokens" yaml:"output_tokens"`
	Cost         float64   `json:"cost" yaml:"cost"`
}

// Recorder is the cost sink a pipeline stage reports each call to.
type Recorder interface {
	RecordCall(model string, inputTokens, outputTokens int, operation string) Call
}

// Tracker accumulates call costs. The zero value is ready to use.
type Tracker struct {
	// Now stamps recorded calls; nil means time.Now.
	Now func() time.Time

	mu    sync.Mutex
	total float64
	calls []Call
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RecordCall prices a call and adds it to the history.
func (t *Tracker) RecordCall(model string, inputTokens, outputTokens int, operation string) Call {
	rate := RateFor(model)
	cost := float64(inputTokens)/1000*rate.Input + float64(outputTokens)/1000*rate.Output

	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	c := Call{
		Timestamp:    now(),
		Operation:    operation,
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         cost,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.total += cost
	t.calls = append(t.calls, c)
	return c
}

// TotalCost returns the accumulated cost in USD.
func (t *Tracker) TotalCost() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Breakdown returns the accumulated cost per operation.
func (t *Tracker) Breakdown() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]float64)
	for _, c := range t.calls {
		out[c.Operation] += c.Cost
	}
	return out
}

// Calls returns a snapshot of the recorded calls in recording order.
func (t *Tracker) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// Summary writes the total, the per-operation breakdown in first-seen order
// and the call count to w.
func (t *Tracker) Summary(w io.Writer) {
	calls := t.Calls()
	total := t.TotalCost()

	var ops []string
	byOp := make(map[string]float64)
	for _, c := range calls {
		if _, seen := byOp[c.Operation]; !seen {
			ops = append(ops, c.Operation)
		}
		byOp[c.Operation] += c.Cost
	}

	fmt.Fprintf(w, "\nAPI Cost Summary:\n")
	fmt.Fprintf(w, "Total Cost: $%.4f\n", total)
	fmt.Fprintf(w, "\nBreakdown by operation:\n")
	for _, op := range ops {
		fmt.Fprintf(w, "- %s: $%.4f\n", op, byOp[op])
	}
	fmt.Fprintf(w, "\nTotal API calls: %d\n", len(calls))
}
