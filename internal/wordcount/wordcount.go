// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wordcount implements the canonical word-count algorithm shared by
// every stage that states or checks a word count.
package wordcount

import (
	"regexp"
	"strings"
	"unicode"
)

// Annotation patterns the model sometimes appends to its output. They are
// not content and are removed before counting. "Word Count:" lines are only
// stripped when the line is terminated, and matching is case-sensitive, so
// prose that mentions a word count is left alone.
var markerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\*\*Word Count:.*?\*\*`),
	regexp.MustCompile(`\[Word count:.*?\]`),
	regexp.MustCompile(`Word Count:[^\n]*\n`),
	regexp.MustCompile(`\(\d+ words\)`),
}

var (
	lineBreakRe   = regexp.MustCompile(`[\n\r\t]`)
	nonWordRe     = regexp.MustCompile(`[^\p{L}\p{N}_\s'-]`)
	spaceRe       = regexp.MustCompile(`\s+`)
	possessiveRe  = regexp.MustCompile(`'s\b`)
	contractionRe = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`'t\b`), " not"},
		{regexp.MustCompile(`'re\b`), " are"},
		{regexp.MustCompile(`'ve\b`), " have"},
		{regexp.MustCompile(`'m\b`), " am"},
		{regexp.MustCompile(`'ll\b`), " will"},
		{regexp.MustCompile(`'d\b`), " would"},
	}
)

// Strip removes word-count annotations such as "(123 words)",
// "Word Count: 123\n", "**Word Count: 123**" and "[Word count: 123]" from
// text.
func Strip(text string) string {
	for _, re := range markerPatterns {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// Normalize returns the token stream the counter operates on: annotations
// stripped, punctuation removed, hyphenated compounds split and common
// contractions expanded.
func Normalize(text string) string {
	text = Strip(text)
	text = lineBreakRe.ReplaceAllString(text, " ")
	text = nonWordRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
	text = splitHyphens(text)
	text = possessiveRe.ReplaceAllString(text, "")
	for _, c := range contractionRe {
		text = c.re.ReplaceAllString(text, c.repl)
	}
	return text
}

// Count returns the number of words in text. A word is a whitespace-delimited
// token of the normalized text holding at least one letter or digit.
func Count(text string) int {
	if text == "" {
		return 0
	}
	n := 0
	for _, tok := range strings.Fields(Normalize(text)) {
		if hasAlnum(tok) {
			n++
		}
	}
	return n
}

// splitHyphens replaces a hyphen between two ASCII letters with a space, so
// "well-known" counts as two words.
func splitHyphens(text string) string {
	runes := []rune(text)
	for i := 1; i+1 < len(runes); i++ {
		if runes[i] == '-' && isASCIILetter(runes[i-1]) && isASCIILetter(runes[i+1]) {
			runes[i] = ' '
		}
	}
	return string(runes)
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func hasAlnum(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
