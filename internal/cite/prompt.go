// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cite

import (
	"bytes"
	"text/template"
)

const systemPrompt = "You are an expert academic citation editor. Your task is to add citation reasons throughout ALL paragraphs of the text, not just the beginning. Add reasons in square brackets to indicate where citations would be helpful. Ensure EVERY paragraph has at least one citation reason. Do NOT truncate or shorten the text."

// Response labels.
const (
	labelCited     = "Cited content:"
	labelCitations = "Citations:"
)

var citationPromptTmpl = template.Must(template.New("citation").Parse(`Add citation reasons to this text. Citation reasons should be added throughout ALL paragraphs, not just the beginning.

IMPORTANT: You MUST preserve the ENTIRE content and maintain the same word count. Do NOT shorten or truncate the text.
Add citation reasons in square brackets [Reason for citation] at appropriate points while keeping the overall structure and length intact.

Original text:

{{.Text}}

Provide your response in this format:

Cited content:
[The complete text with citation reasons added in square brackets - MUST include ALL paragraphs and maintain EXACTLY {{.WordCount}} words (±10 words)]

Citations:
1. Location: [Where in text] | Reason: [Why this part needs a citation]
2. Location: [Where in text] | Reason: [Why this part needs a citation]
[etc.]

Before submitting your response, you MUST:
1. Count the words in your text (excluding citation reasons in square brackets)
2. Verify it has EXACTLY {{.WordCount}} words (±10 words)
3. If the word count is off, adjust your text to meet this requirement
4. Only after confirming the word count, verify that:
   - The cited content includes ALL paragraphs from the original text
   - No content has been truncated or removed
   - Citation reasons are added throughout ALL paragraphs
   - Each paragraph has at least one citation reason
   - The overall structure remains the same
   - Each paragraph maintains its original length and scope
   - All key points and arguments are preserved
   - Technical terms and concepts are accurately represented`))

func renderPrompt(text string, wordCount int) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Text      string
		WordCount int
	}{Text: text, WordCount: wordCount}
	if err := citationPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
