// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/section-writer/internal/httputil"
	"github.com/pdiddy/section-writer/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

func testRequest() Request {
	return Request{
		Messages:    []Message{System("You are an academic writer."), User("Write an introduction.")},
		Model:       "gpt-4",
		Temperature: 0.7,
		MaxTokens:   512,
	}
}

const openAIReply = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1,
  "model": "gpt-4",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "Generated text."}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 12, "completion_tokens": 34, "total_tokens": 46}
}`

func TestOpenAIBackend_Complete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4", body["model"])
		msgs, ok := body["messages"].([]any)
		require.True(t, ok)
		assert.Len(t, msgs, 2)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, openAIReply)
	}))
	defer ts.Close()

	b := NewOpenAIBackend("sk-test", ts.URL, ts.Client())
	got, err := b.Complete(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "Generated text.", got.Text)
	assert.Equal(t, 12, got.InputTokens)
	assert.Equal(t, 34, got.OutputTokens)
}

func TestOpenAIBackend_StatusErrors(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusTooManyRequests, KindRateLimit},
		{http.StatusBadRequest, KindInvalidRequest},
		{http.StatusInternalServerError, KindProvider},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				io.WriteString(w, `{"error": {"message": "nope", "type": "test"}}`)
			}))
			defer ts.Close()

			b := NewOpenAIBackend("sk-test", ts.URL, ts.Client())
			_, err := b.Complete(context.Background(), testRequest())
			require.Error(t, err)

			var rse *RemoteServiceError
			require.True(t, errors.As(err, &rse))
			assert.Equal(t, tt.kind, rse.Kind)
			assert.Equal(t, tt.status, rse.StatusCode)
			assert.Equal(t, "openai", rse.Provider)
		})
	}
}

func TestNew_RetriesTransientFailures(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, openAIReply)
	}))
	defer ts.Close()

	c, err := New(types.AIConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, BaseURL: ts.URL},
		Provider:   types.ProviderOpenAI,
		APIKey:     "sk-test",
		MaxRetries: 2,
	})
	require.NoError(t, err)

	got, err := c.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "Generated text.", got.Text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(types.AIConfig{Provider: "mystery"})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestAnthropicBackend_Complete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "You are an academic writer.", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, 512, req.MaxTokens)

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": "Part one. "},
				{"type": "tool_use", "text": "ignored"},
				{"type": "text", "text": "Part two."},
			},
			"usage": map[string]int{"input_tokens": 7, "output_tokens": 9},
		})
	}))
	defer ts.Close()

	b := &AnthropicBackend{APIKey: "test-key", BaseURL: ts.URL, Client: ts.Client()}
	got, err := b.Complete(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "Part one. Part two.", got.Text)
	assert.Equal(t, 7, got.InputTokens)
	assert.Equal(t, 9, got.OutputTokens)
}

func TestAnthropicBackend_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error": "bad key"}`)
	}))
	defer ts.Close()

	b := &AnthropicBackend{APIKey: "bad", BaseURL: ts.URL, Client: ts.Client()}
	_, err := b.Complete(context.Background(), testRequest())

	var rse *RemoteServiceError
	require.True(t, errors.As(err, &rse))
	assert.Equal(t, KindAuth, rse.Kind)
	assert.False(t, rse.Temporary())
	assert.Contains(t, err.Error(), "status 403")
}

func TestAnthropicBackend_MalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `not json`)
	}))
	defer ts.Close()

	b := &AnthropicBackend{APIKey: "k", BaseURL: ts.URL, Client: ts.Client()}
	_, err := b.Complete(context.Background(), testRequest())

	var rse *RemoteServiceError
	require.True(t, errors.As(err, &rse))
	assert.Equal(t, KindProvider, rse.Kind)
}

type completerFunc func(ctx context.Context, req Request) (Completion, error)

func (f completerFunc) Complete(ctx context.Context, req Request) (Completion, error) {
	return f(ctx, req)
}

func TestWithTimeout(t *testing.T) {
	slow := completerFunc(func(ctx context.Context, _ Request) (Completion, error) {
		<-ctx.Done()
		return Completion{}, transportError("fake", ctx.Err())
	})

	t.Run("own deadline becomes timeout", func(t *testing.T) {
		_, err := WithTimeout(slow, 10*time.Millisecond).Complete(context.Background(), testRequest())
		var rse *RemoteServiceError
		require.True(t, errors.As(err, &rse))
		assert.Equal(t, KindTimeout, rse.Kind)
		assert.True(t, rse.Temporary())
	})

	t.Run("caller cancellation passes through", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := WithTimeout(slow, time.Minute).Complete(ctx, testRequest())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("zero leaves completer unwrapped", func(t *testing.T) {
		_, wrapped := WithTimeout(slow, 0).(*timeoutCompleter)
		assert.False(t, wrapped)
	})

	t.Run("fast call succeeds", func(t *testing.T) {
		fast := completerFunc(func(context.Context, Request) (Completion, error) {
			return Completion{Text: "ok"}, nil
		})
		got, err := WithTimeout(fast, time.Second).Complete(context.Background(), testRequest())
		require.NoError(t, err)
		assert.Equal(t, "ok", got.Text)
	})
}

func TestKindForStatus(t *testing.T) {
	assert.Equal(t, KindAuth, kindForStatus(401))
	assert.Equal(t, KindAuth, kindForStatus(403))
	assert.Equal(t, KindRateLimit, kindForStatus(429))
	assert.Equal(t, KindProvider, kindForStatus(529))
	assert.Equal(t, KindProvider, kindForStatus(502))
	assert.Equal(t, KindInvalidRequest, kindForStatus(404))
}
