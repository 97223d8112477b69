// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package wordcount

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "  \n\t ", 0},
		{"simple sentence", "Gold nanoparticles are versatile.", 4},
		{"punctuation ignored", "Hello, world! (really?)", 3},
		{"hyphenated compound splits", "A well-known result.", 4},
		{"numeric range hyphen kept", "pages 10-12", 2},
		{"possessive dropped", "the model's output", 3},
		{"negation expanded", "it isn't clear", 4},
		{"are expanded", "they're here", 3},
		{"have expanded", "we've seen", 3},
		{"am expanded", "I'm sure", 3},
		{"will expanded", "we'll see", 3},
		{"would expanded", "they'd agree", 3},
		{"paren word count stripped", "Four words are here. (4 words)", 4},
		{"line word count stripped", "Three words here.\nWord Count: 3\n", 3},
		{"unterminated word count line kept", "Three words here.\nWord Count: 3", 6},
		{"lowercase word count prose kept", "We report the word count: across the corpus.", 8},
		{"approximate paren kept", "Results are robust (about 5 words) here.", 7},
		{"bold word count stripped", "Two words **Word Count: 2**", 2},
		{"bracket word count stripped", "Two words [Word count: 2]", 2},
		{"citation markers count as words", "Results improved [Needs source].", 4},
		{"lone dash not counted", "before - after", 2},
		{"unicode letters kept", "maximizing λmax values", 3},
		{"line breaks and tabs", "one\ntwo\tthree\r\nfour", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.text))
		})
	}
}

func TestCount_MarkerStrippingIsIdempotent(t *testing.T) {
	texts := []string{
		"An introduction to plasmonics.\n\n(1000 words)",
		"**Word Count: 12** Body text follows here.",
		"Body text. [Word count: 3]\nWord Count: 3\nMore body text.",
		"No annotations at all, just prose-like text that's plain.",
		"We report the word count: across the corpus and each one of them.",
		"Results are robust (about 5 words) here.",
	}
	for _, text := range texts {
		stripped := Strip(text)
		assert.Equal(t, Count(text), Count(stripped), "text %q", text)
		assert.Equal(t, Count(stripped), Count(Strip(stripped)), "text %q", text)
	}
}

func TestStrip_LeavesProse(t *testing.T) {
	for _, text := range []string{
		"We report the word count: across the corpus and each one of them.",
		"Results are robust (about 5 words) here.",
		"The final Word Count: stays in this sentence",
	} {
		assert.Equal(t, text, Strip(text))
	}
}

func TestCount_Repeated(t *testing.T) {
	text := strings.Repeat("word ", 1000)
	assert.Equal(t, 1000, Count(text))
}
