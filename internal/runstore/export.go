// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/section-writer/pkg/types"
)

// Export writes every run, newest first and with its calls, to w as YAML or
// JSON.
func (s *Store) Export(ctx context.Context, w io.Writer, format types.OutputFormat) error {
	summaries, err := s.ListRuns(ctx, 0)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	runs := make([]RunRecord, 0, len(summaries))
	for _, r := range summaries {
		full, err := s.GetRun(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("loading run %s: %w", r.ID, err)
		}
		runs = append(runs, full)
	}

	switch format {
	case types.OutputYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(runs); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case types.OutputJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(runs); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q: %w", format, types.ErrInvalidArgument)
	}
	return nil
}
