// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strconv"
	"strings"
)

// ScoreLine is one parsed "Criterion: X/10 | Feedback: text" line.
type ScoreLine struct {
	Criterion string
	Score     float64
	// ScoreOK is false when no number could be read; Score is then 0.
	ScoreOK  bool
	Feedback string
}

// ParseScoreLine parses a reviewer score line. Lines lacking either a colon
// or a pipe are rejected.
func ParseScoreLine(line string) (ScoreLine, bool) {
	if !strings.Contains(line, ":") || !strings.Contains(line, "|") {
		return ScoreLine{}, false
	}
	criterion, rest, _ := strings.Cut(line, ":")
	scorePart, feedbackPart, ok := strings.Cut(rest, "|")
	if !ok {
		return ScoreLine{}, false
	}

	criterion = cleanField(criterion, "")
	if criterion == "" {
		return ScoreLine{}, false
	}
	score, scoreOK := ExtractScore(scorePart)
	return ScoreLine{
		Criterion: criterion,
		Score:     score,
		ScoreOK:   scoreOK,
		Feedback:  cleanField(feedbackPart, "Feedback:"),
	}, true
}

// ParseNumberedLine parses "N. Location: Description". The numbering is
// optional; a colon is required.
func ParseNumberedLine(line string) (location, description string, ok bool) {
	if strings.TrimSpace(line) == "" || !strings.Contains(line, ":") {
		return "", "", false
	}
	loc, desc, _ := strings.Cut(line, ":")
	location = cleanField(loc, "")
	description = strings.TrimSpace(desc)
	if location == "" && description == "" {
		return "", "", false
	}
	return location, description, true
}

// ParsePipeLine parses "N. Location: where | Reason: why". At least two
// pipe-separated fields are required; extra fields are ignored.
func ParsePipeLine(line string) (location, reason string, ok bool) {
	if strings.TrimSpace(line) == "" || !strings.Contains(line, "|") {
		return "", "", false
	}
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return "", "", false
	}
	return cleanField(parts[0], "Location:"), cleanField(parts[1], "Reason:"), true
}

// Lines splits a section body into non-blank, trimmed lines.
func Lines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
