// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llmtest provides a scripted Completer for stage tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/pdiddy/section-writer/internal/llm"
)

// Reply is one scripted response: a completion or an error.
type Reply struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Err          error
}

// Script is a Completer that returns its replies in call order and records
// every request it receives. Once the replies run out the last one repeats.
// It is safe for concurrent use.
type Script struct {
	mu       sync.Mutex
	replies  []Reply
	requests []llm.Request
}

// NewScript returns a Script that answers with replies in order.
func NewScript(replies ...Reply) *Script {
	return &Script{replies: replies}
}

// Texts returns a Script that answers with each text in order, reporting 100
// input and 50 output tokens per call.
func Texts(texts ...string) *Script {
	replies := make([]Reply, len(texts))
	for i, t := range texts {
		replies[i] = Reply{Text: t, InputTokens: 100, OutputTokens: 50}
	}
	return NewScript(replies...)
}

// Complete implements llm.Completer.
func (s *Script) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	if err := ctx.Err(); err != nil {
		return llm.Completion{}, err
	}

	s.mu.Lock()
	n := len(s.requests)
	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		s.mu.Unlock()
		return llm.Completion{}, fmt.Errorf("llmtest: no replies scripted")
	}
	r := s.replies[min(n, len(s.replies)-1)]
	s.mu.Unlock()

	if r.Err != nil {
		return llm.Completion{}, r.Err
	}
	return llm.Completion{Text: r.Text, InputTokens: r.InputTokens, OutputTokens: r.OutputTokens}, nil
}

// Requests returns the requests received so far.
func (s *Script) Requests() []llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Request(nil), s.requests...)
}

// Calls returns the number of requests received.
func (s *Script) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Prompt returns the concatenated message contents of request i.
func (s *Script) Prompt(i int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out string
	for _, m := range s.requests[i].Messages {
		out += m.Content + "\n"
	}
	return out
}
