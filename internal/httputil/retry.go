// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the completion backends.
package httputil

import (
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff between
// attempts. Tests override this to avoid real sleeps.
var RetryBaseDelay = time.Second

// maxRetryAfter caps a server-provided Retry-After delay.
const maxRetryAfter = 60 * time.Second

// RetryTransport is an http.RoundTripper that retries rate-limited (429),
// overloaded (529) and 5xx responses, and connection failures, with
// exponential backoff: RetryBaseDelay, 2x, 4x, ... A Retry-After header on the
// response takes precedence when present.
//
// MaxRetries of 0 disables retry. Requests whose body cannot be rewound are
// never retried. If the request context is cancelled during a backoff wait
// the transport returns ctx.Err(). After exhausting retries the last
// response (or error) is returned as-is so the caller can classify it.
type RetryTransport struct {
	Base       http.RoundTripper
	MaxRetries int
}

// NewClient returns an http.Client using a RetryTransport over
// http.DefaultTransport.
func NewClient(maxRetries int) *http.Client {
	return &http.Client{Transport: &RetryTransport{MaxRetries: maxRetries}}
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	ctx := req.Context()

	for attempt := 0; ; attempt++ {
		r := req
		if attempt > 0 {
			var err error
			if r, err = rewind(req); err != nil {
				return nil, err
			}
		}

		resp, err := base.RoundTrip(r)
		if attempt >= t.MaxRetries || !shouldRetry(resp, err) || !canRewind(req) || ctx.Err() != nil {
			return resp, err
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if resp != nil {
			if d, ok := retryAfter(resp); ok {
				backoff = d
			}
			// Drain and close the body before retrying.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// shouldRetry reports whether a response or transport error is transient.
func shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests, 529:
		return true
	}
	return resp.StatusCode >= http.StatusInternalServerError
}

func canRewind(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

// rewind clones req with a fresh copy of its body.
func rewind(req *http.Request) (*http.Request, error) {
	r := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		r.Body = body
	}
	return r, nil
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d, true
}
