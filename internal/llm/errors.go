// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a remote failure.
type Kind string

const (
	KindTimeout        Kind = "timeout"
	KindRateLimit      Kind = "rate_limit"
	KindAuth           Kind = "auth"
	KindInvalidRequest Kind = "invalid_request"
	KindTransport      Kind = "transport"
	KindProvider       Kind = "provider"
	KindEmptyResponse  Kind = "empty_response"
)

// RemoteServiceError reports a failed completion call. Stages propagate it
// unchanged so callers can inspect it with errors.As.
type RemoteServiceError struct {
	Kind       Kind
	Provider   string
	StatusCode int
	Err        error
}

func (e *RemoteServiceError) Error() string {
	msg := fmt.Sprintf("remote service error (%s", e.Kind)
	if e.Provider != "" {
		msg += ", " + e.Provider
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(", status %d", e.StatusCode)
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// Temporary reports whether running the same request again may succeed.
func (e *RemoteServiceError) Temporary() bool {
	switch e.Kind {
	case KindTimeout, KindRateLimit, KindTransport, KindProvider:
		return true
	}
	return false
}

// kindForStatus maps a non-2xx HTTP status to an error kind.
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status >= http.StatusInternalServerError || status == 529:
		return KindProvider
	default:
		return KindInvalidRequest
	}
}

// transportError classifies a failure that produced no HTTP status.
func transportError(provider string, err error) *RemoteServiceError {
	kind := KindTransport
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &RemoteServiceError{Kind: kind, Provider: provider, Err: err}
}
