// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import "fmt"

// Degradation records one fallback substituted for missing or malformed
// model output.
type Degradation struct {
	Field  string
	Reason string
}

// String renders the degradation as "field: reason".
func (d Degradation) String() string {
	return fmt.Sprintf("%s: %s", d.Field, d.Reason)
}

// Report collects the degradations applied while parsing one response. The
// zero value is ready to use.
type Report struct {
	items []Degradation
}

// Degrade records a fallback for field.
func (r *Report) Degrade(field, reason string, args ...any) {
	if len(args) > 0 {
		reason = fmt.Sprintf(reason, args...)
	}
	r.items = append(r.items, Degradation{Field: field, Reason: reason})
}

// Degraded reports whether any fallback was applied.
func (r *Report) Degraded() bool {
	return len(r.items) > 0
}

// Items returns the recorded degradations in order.
func (r *Report) Items() []Degradation {
	return append([]Degradation(nil), r.items...)
}

// Reasons returns the degradations rendered as strings, or nil when the
// response parsed cleanly.
func (r *Report) Reasons() []string {
	if len(r.items) == 0 {
		return nil
	}
	out := make([]string, len(r.items))
	for i, d := range r.items {
		out[i] = d.String()
	}
	return out
}
