// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"bytes"
	"text/template"
)

// systemPrompt sets the reviewer persona.
const systemPrompt = "You are an expert academic reviewer with extensive experience in evaluating scientific papers. Evaluate the text thoroughly and provide detailed, constructive feedback. Be specific in your scoring and justify your ratings with examples from the text. Use the provided scoring guidelines to ensure consistent and fair evaluation. For academic papers of this quality, scores should typically be in the 6-10 range unless there are significant issues."

// Response labels.
const (
	labelScores  = "SCORES:"
	labelOverall = "OVERALL FEEDBACK:"
)

var reviewPromptTmpl = template.Must(template.New("review").Parse(`Review this academic text for quality. Score each criterion from 1-10 (where 10 is excellent) and provide specific feedback.

Text to review:

{{.Text}}

Evaluate these criteria:

1. Clarity (Score 1-10)
- Clear and concise writing
- Well-explained concepts
- Appropriate use of technical terms
- Minimal ambiguity
Score guidelines:
- 8-10: Excellent clarity, concepts are explained exceptionally well
- 6-7: Good clarity, most concepts are well explained
- 4-5: Average clarity, some concepts need better explanation
- 1-3: Poor clarity, significant improvement needed

2. Coherence (Score 1-10)
- Logical flow between ideas
- Smooth transitions between paragraphs
- Clear connections between concepts
- Consistent argument development
Score guidelines:
- 8-10: Excellent flow and connections between ideas
- 6-7: Good flow with minor transition issues
- 4-5: Average flow, some disconnected ideas
- 1-3: Poor flow, major coherence issues

3. Academic Style (Score 1-10)
- Formal and professional tone
- Appropriate vocabulary
- Objective presentation
- Scholarly language
Score guidelines:
- 8-10: Excellent academic style and professionalism
- 6-7: Good academic style with minor issues
- 4-5: Average style, needs more formality
- 1-3: Poor style, significant improvement needed

4. Content Quality (Score 1-10)
- Thorough coverage of topic
- Accurate information
- Depth of analysis
- Balanced presentation
Score guidelines:
- 8-10: Excellent depth and accuracy
- 6-7: Good coverage with minor gaps
- 4-5: Average depth, needs more detail
- 1-3: Poor coverage, major improvements needed

5. Structure (Score 1-10)
- Well-organized paragraphs
- Clear introduction and conclusion
- Appropriate section lengths
- Logical progression
Score guidelines:
- 8-10: Excellent organization and structure
- 6-7: Good structure with minor issues
- 4-5: Average structure, needs improvement
- 1-3: Poor structure, major reorganization needed

For each criterion:
1. Provide a score from 1-10 (10 being excellent)
2. Give specific examples from the text
3. Suggest improvements if needed

Provide output in this exact format:

SCORES:
{{range .Criteria}}{{.}}: [X]/10 | Feedback: [specific feedback with examples]
{{end}}
OVERALL FEEDBACK:
[Comprehensive feedback about strengths and specific areas for improvement]

Note: Replace [X] with a numeric score between 1 and 10. Consider the score guidelines carefully when assigning scores. For academic papers of this quality, scores should typically be in the 6-10 range unless there are significant issues.`))

// renderPrompt executes the review template for text.
func renderPrompt(text string, criteria []string) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Text     string
		Criteria []string
	}{Text: text, Criteria: criteria}
	if err := reviewPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
