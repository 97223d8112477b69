// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns free-form model responses into labeled sections and
// structured lines. Nothing in this package fails on malformed input: callers
// receive what could be recovered and record fallbacks in a Report.
package parse

import (
	"regexp"
	"strings"
)

// Document is a model response split into labeled sections.
type Document struct {
	// Preamble holds text that appeared before the first recognized label.
	Preamble string

	sections map[string]string
}

// Sections splits text into sections keyed by the given labels. A label is
// recognized only on the first line of a block (the top of the reply or a
// line after a blank line), ignoring case and leading markdown emphasis or
// heading marks; e.g. "Revised content:" or "**SCORES:**". The section body
// is everything after the label up to the next recognized label, so
// blank-line separated paragraphs stay together. A label that repeats after
// its section already has content is read as ordinary body text.
func Sections(text string, labels ...string) Document {
	doc := Document{sections: make(map[string]string)}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	var (
		current string
		body    []string
		pre     []string
	)

	flush := func() {
		if current == "" {
			return
		}
		doc.sections[current] = strings.TrimSpace(strings.Join(body, "\n"))
		body = nil
	}

	blockStart := true
	for _, line := range strings.Split(text, "\n") {
		atBlock := blockStart
		blockStart = strings.TrimSpace(line) == ""
		if atBlock {
			label, rest, ok := matchLabel(line, labels)
			if ok && label == current && strings.TrimSpace(strings.Join(body, "")) != "" {
				ok = false
			}
			if ok && doc.sections[label] == "" {
				flush()
				current = label
				if rest != "" {
					body = append(body, rest)
				}
				continue
			}
		}
		if current == "" {
			pre = append(pre, line)
			continue
		}
		body = append(body, line)
	}
	flush()

	doc.Preamble = strings.TrimSpace(strings.Join(pre, "\n"))
	return doc
}

// Get returns the body of the section with the given label.
func (d Document) Get(label string) (string, bool) {
	body, ok := d.sections[label]
	return body, ok
}

// matchLabel reports whether line starts with one of labels and returns the
// canonical label and the remainder of the line after it.
func matchLabel(line string, labels []string) (string, string, bool) {
	trimmed := strings.TrimLeft(strings.TrimSpace(line), "#*_ ")
	for _, label := range labels {
		if len(trimmed) < len(label) || !strings.EqualFold(trimmed[:len(label)], label) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimLeft(trimmed[len(label):], "*_ "))
		return label, rest, true
	}
	return "", "", false
}

var (
	slashScoreRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*10\b`)
	bareScoreRe  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	outOfTenRe   = regexp.MustCompile(`/\s*10\b`)
	numberingRe  = regexp.MustCompile(`^(?:\d+[.)]|[-*•])\s*`)
)

// ExtractScore reads a numeric score from text. An "X/10" pattern takes
// precedence over the first bare number. When neither is present it returns
// 0 and false. A dangling "/10" denominator is not read as a score, so an
// unfilled "[X]/10" placeholder yields no score.
func ExtractScore(text string) (float64, bool) {
	if m := slashScoreRe.FindStringSubmatch(text); m != nil {
		if v, ok := parseFloat(m[1]); ok {
			return v, true
		}
	}
	if m := bareScoreRe.FindString(outOfTenRe.ReplaceAllString(text, "")); m != "" {
		if v, ok := parseFloat(m); ok {
			return v, true
		}
	}
	return 0, false
}

// cleanField trims whitespace and markdown emphasis, removes list numbering,
// and strips a leading "prefix:" (case-insensitive) when present.
func cleanField(s, prefix string) string {
	s = strings.Trim(strings.TrimSpace(s), "*_ ")
	s = numberingRe.ReplaceAllString(s, "")
	s = strings.Trim(s, "*_ ")
	if prefix != "" && len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		s = s[len(prefix):]
	}
	return strings.Trim(strings.TrimSpace(s), "*_ ")
}
