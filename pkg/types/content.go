// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RevisionChange describes one edit made by the revision or citation stage.
type RevisionChange struct {
	Type     string `json:"type" yaml:"type"`
	Location string `json:"location" yaml:"location"`
	Change   string `json:"change" yaml:"change"`
}

// RevisedContent is the output of the revision stage. RevisedText is never
// empty when OriginalText is not.
type RevisedContent struct {
	OriginalText string           `json:"original_content" yaml:"original_content"`
	RevisedText  string           `json:"revised_content" yaml:"revised_content"`
	Changes      []RevisionChange `json:"revision_changes" yaml:"revision_changes"`
	Summary      string           `json:"revision_summary" yaml:"revision_summary"`
	Degradations []string         `json:"degradations,omitempty" yaml:"degradations,omitempty"`
}

// Citation is a bracketed citation-reason annotation inserted into prose.
type Citation struct {
	// MarkerText is the annotation as it appears in the text, e.g. "[Needs source]".
	MarkerText string `json:"text" yaml:"text"`
	Source     string `json:"source" yaml:"source"`
	Location   string `json:"location" yaml:"location"`
	Reason     string `json:"reason" yaml:"reason"`
}

// CitedContent is the output of the citation stage. Citations always holds
// at least one entry.
type CitedContent struct {
	OriginalText    string           `json:"original_content" yaml:"original_content"`
	CitedText       string           `json:"cited_content" yaml:"cited_content"`
	Citations       []Citation       `json:"citations" yaml:"citations"`
	CitationChanges []RevisionChange `json:"citation_changes" yaml:"citation_changes"`
	Summary         string           `json:"citation_summary" yaml:"citation_summary"`
	Degradations    []string         `json:"degradations,omitempty" yaml:"degradations,omitempty"`
}

// FinalText returns the cited text, or the original text when the cited
// text is empty.
func (c CitedContent) FinalText() string {
	if c.CitedText != "" {
		return c.CitedText
	}
	return c.OriginalText
}
