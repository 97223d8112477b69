// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package request loads the input files of the CLI: section requests for a
// full run and cited content for a publish-only run.
package request

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/section-writer/pkg/types"
)

// Load reads a section request from a YAML or JSON file and validates it.
//
//	section: Introduction
//	keypoints:
//	  - Background on transformers
//	word_limit: 500
func Load(path string) (types.SectionRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.SectionRequest{}, fmt.Errorf("reading request: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a section request. JSON input is accepted as
// YAML. Blank key points are dropped.
func Parse(data []byte) (types.SectionRequest, error) {
	var req types.SectionRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return types.SectionRequest{}, fmt.Errorf("parsing request: %w", err)
	}
	req.Section = strings.TrimSpace(req.Section)

	points := req.KeyPoints[:0]
	for _, p := range req.KeyPoints {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	req.KeyPoints = points

	if err := req.Validate(); err != nil {
		return types.SectionRequest{}, err
	}
	return req, nil
}

// LoadCited reads the output of the citation stage from a YAML or JSON file.
// The content must carry text to publish.
func LoadCited(path string) (types.CitedContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.CitedContent{}, fmt.Errorf("reading cited content: %w", err)
	}
	var cited types.CitedContent
	if err := yaml.Unmarshal(data, &cited); err != nil {
		return types.CitedContent{}, fmt.Errorf("parsing cited content: %w", err)
	}
	if strings.TrimSpace(cited.FinalText()) == "" {
		return types.CitedContent{}, fmt.Errorf("cited content has no text: %w", types.ErrInvalidArgument)
	}
	return cited, nil
}
