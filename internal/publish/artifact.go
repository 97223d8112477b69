// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/section-writer/pkg/types"
)

// artifactPrefix starts every published artifact file name.
const artifactPrefix = "published_content_"

// ArtifactName returns the file name for an artifact written at t, e.g.
// published_content_20260301_120000.json.
func ArtifactName(t time.Time, format types.OutputFormat) string {
	ext := "json"
	if format == types.OutputYAML {
		ext = "yaml"
	}
	return artifactPrefix + t.Format("20060102_150405") + "." + ext
}

// Save writes pc to dir in the given format and returns the file path.
func Save(dir string, format types.OutputFormat, pc types.PublishedContent, t time.Time) (string, error) {
	switch format {
	case types.OutputYAML:
		return SaveYAML(dir, pc, t)
	case types.OutputJSON, "":
		return SaveJSON(dir, pc, t)
	default:
		return "", fmt.Errorf("unsupported format %q: %w", format, types.ErrInvalidArgument)
	}
}

// SaveJSON writes pc as indented JSON to a timestamped file in dir.
func SaveJSON(dir string, pc types.PublishedContent, t time.Time) (string, error) {
	data, err := json.MarshalIndent(pc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling published content: %w", err)
	}
	return writeArtifact(dir, ArtifactName(t, types.OutputJSON), data)
}

// SaveYAML writes pc as YAML to a timestamped file in dir.
func SaveYAML(dir string, pc types.PublishedContent, t time.Time) (string, error) {
	data, err := yaml.Marshal(pc)
	if err != nil {
		return "", fmt.Errorf("marshaling published content: %w", err)
	}
	return writeArtifact(dir, ArtifactName(t, types.OutputYAML), data)
}

func writeArtifact(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
