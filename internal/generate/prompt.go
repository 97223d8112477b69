// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/section-writer/pkg/types"
)

// generationPromptTmpl is the user prompt for one candidate. The word-count
// bounds are 70% and 110% of the limit, truncated.
var generationPromptTmpl = template.Must(template.New("generation").Parse(`Generate an academic {{.Section}} section that is EXACTLY {{.WordLimit}} words (±10%). This is a CRITICAL requirement - if not met, the content will fail validation and be rejected.

Key points to cover:
{{range .KeyPoints}}- {{.}}
{{end}}
CRITICAL WORD COUNT REQUIREMENT:
The text MUST be between {{.MinWords}} and {{.MaxWords}} words. This is non-negotiable. Content that does not meet this requirement will be rejected. You MUST count your words carefully and adjust your text to meet this requirement before completing your response.
{{with .Guidance}}
Section-specific guidance:
{{.}}
{{end}}
Additional Requirements:
1. Academic style and formal tone
2. Clear paragraph structure
3. Thorough coverage of all key points
4. Logical flow and transitions
5. Technical precision and clarity
6. Balanced treatment of each point
7. Appropriate depth and detail
8. Professional academic language
9. Strong topic sentences

Format your response as a single, well-structured academic text with clear paragraphs. Each paragraph should thoroughly develop one or more related points while maintaining logical flow throughout the entire text.

FINAL WORD COUNT CHECK:
Before submitting your response, you MUST:
1. Count the total words in your text
2. Verify the count is between {{.MinWords}} and {{.MaxWords}} words
3. If the word count is outside this range, revise your text to meet this requirement
4. Only after confirming the word count is correct, verify that:
   - All key points are covered thoroughly
   - The text maintains academic rigor and clarity
   - Each paragraph flows logically to the next
   - Technical terms are used appropriately
   - The overall structure is coherent

IMPORTANT: Include the word count at the end of your response in parentheses.`))

// sectionGuidance adds structure hints for the common section types.
var sectionGuidance = map[string]string{
	types.SectionIntroduction: "Open with the broader context, narrow to the specific problem, state the gap in existing work, and close with the contribution and an outline of what follows.",
	types.SectionMethodology:  "Describe the approach in enough detail to be reproduced: data, procedures, instruments, and the rationale for each design decision.",
	types.SectionResults:      "Report findings objectively and in a logical order, referring to measures and comparisons without interpreting their implications.",
	types.SectionDiscussion:   "Interpret the findings, relate them to prior work, acknowledge limitations, and explain the implications for theory and practice.",
	types.SectionConclusion:   "Summarize the main contributions, restate their significance, and point to concrete directions for future work without introducing new results.",
}

// promptData is the template input for one generation prompt.
type promptData struct {
	Section   string
	KeyPoints []string
	WordLimit int
	MinWords  int
	MaxWords  int
	Guidance  string
}

// WordBounds returns the acceptable word range stated in the prompt:
// int(0.7×limit) to int(1.1×limit).
func WordBounds(limit int) (lo, hi int) {
	return int(float64(limit) * 0.7), int(float64(limit) * 1.1)
}

// renderPrompt executes the generation template for req.
func renderPrompt(req types.SectionRequest) (string, error) {
	lo, hi := WordBounds(req.WordLimit)
	data := promptData{
		Section:   req.Section,
		KeyPoints: req.KeyPoints,
		WordLimit: req.WordLimit,
		MinWords:  lo,
		MaxWords:  hi,
		Guidance:  sectionGuidance[req.Section],
	}
	var buf bytes.Buffer
	if err := generationPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
