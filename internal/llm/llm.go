// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm is the boundary to the remote text-completion service. Every
// pipeline stage talks to a Completer; the OpenAI and Anthropic backends
// implement it over HTTP.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/section-writer/internal/httputil"
	"github.com/pdiddy/section-writer/pkg/types"
)

// Role is the speaker of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a chat prompt.
type Message struct {
	Role    Role
	Content string
}

// Request is a single completion call.
type Request struct {
	Messages    []Message
	Model       string
	Temperature float64
	MaxTokens   int
}

// Completion is the model's reply and the token usage of the call.
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Completer sends a prompt to a completion service. Implementations return
// *RemoteServiceError for every failure of the remote call.
type Completer interface {
	Complete(ctx context.Context, req Request) (Completion, error)
}

// System and User build the two-message prompt every stage sends.
func System(content string) Message { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message   { return Message{Role: RoleUser, Content: content} }

// New returns the Completer for cfg.Provider. Both backends share an HTTP
// client whose transport retries transient failures cfg.MaxRetries times, and
// every call is bounded by cfg.Timeout.
func New(cfg types.AIConfig) (Completer, error) {
	client := httputil.NewClient(cfg.MaxRetries)

	var c Completer
	switch cfg.Provider {
	case types.ProviderOpenAI, "":
		c = NewOpenAIBackend(cfg.APIKey, cfg.BaseURL, client)
	case types.ProviderAnthropic:
		c = &AnthropicBackend{APIKey: cfg.APIKey, BaseURL: cfg.BaseURL, Client: client}
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", types.ErrInvalidArgument, cfg.Provider)
	}
	return WithTimeout(c, cfg.Timeout), nil
}

// timeoutCompleter bounds each call with a deadline.
type timeoutCompleter struct {
	next    Completer
	timeout time.Duration
}

// WithTimeout wraps c so that each call runs under context.WithTimeout(d).
// A call that misses its own deadline fails with a RemoteServiceError of kind
// timeout; cancellation of the caller's context is returned as-is. A
// non-positive d leaves c unbounded.
func WithTimeout(c Completer, d time.Duration) Completer {
	if d <= 0 {
		return c
	}
	return &timeoutCompleter{next: c, timeout: d}
}

// Complete implements Completer.
func (t *timeoutCompleter) Complete(ctx context.Context, req Request) (Completion, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	start := time.Now()
	out, err := t.next.Complete(callCtx, req)
	if err != nil {
		if ctx.Err() == nil && callCtx.Err() == context.DeadlineExceeded {
			return Completion{}, &RemoteServiceError{
				Kind: KindTimeout,
				Err:  fmt.Errorf("no response within %s: %w", t.timeout, err),
			}
		}
		return Completion{}, err
	}

	slog.Debug("completion",
		"model", req.Model,
		"input_tokens", out.InputTokens,
		"output_tokens", out.OutputTokens,
		"elapsed", time.Since(start))
	return out, nil
}
