// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package revise

import (
	"bytes"
	"text/template"
)

const systemPrompt = "You are an expert academic editor. Focus on making meaningful improvements to clarity, coherence, and academic style while preserving the FULL content and EXACT word count. Do NOT truncate or shorten the text. Make targeted improvements while maintaining the same length and structure."

// Response labels.
const (
	labelRevised = "Revised content:"
	labelChanges = "Revision changes:"
)

var revisionPromptTmpl = template.Must(template.New("revision").Parse(`Review and revise this academic text for clarity, coherence, and academic style.
Make specific improvements to enhance:
1. Clarity - Clear writing and well-explained concepts
2. Coherence - Logical flow and smooth transitions
3. Academic Style - Formal tone and appropriate vocabulary

CRITICAL REQUIREMENT: The revised text MUST maintain EXACTLY {{.WordCount}} words (±10 words). This is non-negotiable.
You MUST preserve the ENTIRE content and maintain the same word count. Do NOT shorten or truncate the text.
Make targeted improvements to specific sentences or phrases while keeping the overall structure and length intact.

For each change, explain:
1. What was changed
2. Where in the text (e.g., "First paragraph", "Second sentence", etc.)
3. Why the change improves the text

Original text:

{{.Text}}

Provide your response in this format:

Revised content:
[The complete revised text - MUST include ALL paragraphs and maintain EXACTLY {{.WordCount}} words (±10 words)]

Revision changes:
1. [Location]: [What was changed and why]
2. [Location]: [What was changed and why]
[etc.]

Before submitting your response, you MUST:
1. Count the words in your revised text
2. Verify it has EXACTLY {{.WordCount}} words (±10 words)
3. If the word count is off, adjust your text to meet this requirement
4. Only after confirming the word count, verify that:
   - The revised content includes ALL paragraphs from the original text
   - No content has been truncated or removed
   - The overall structure remains the same
   - Each paragraph maintains its original length and scope
   - All key points and arguments are preserved
   - Technical terms and concepts are accurately represented
   - Citations and references are preserved in their original form`))

func renderPrompt(text string, wordCount int) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Text      string
		WordCount int
	}{Text: text, WordCount: wordCount}
	if err := revisionPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
