// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selector picks the winning candidate from a set of reviews.
package selector

import (
	"fmt"

	"github.com/pdiddy/section-writer/pkg/types"
)

// Select returns the candidate with the highest TotalScore. Ties go to the
// earliest candidate. An empty set wraps types.ErrInvalidArgument.
func Select(candidates []types.ReviewedCandidate) (types.ReviewedCandidate, error) {
	if len(candidates) == 0 {
		return types.ReviewedCandidate{}, fmt.Errorf("no candidates provided for selection: %w", types.ErrInvalidArgument)
	}
	return candidates[SelectIndex(candidates)], nil
}

// SelectIndex returns the position of the candidate Select would pick, or -1
// for an empty set.
func SelectIndex(candidates []types.ReviewedCandidate) int {
	if len(candidates) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].TotalScore > candidates[best].TotalScore {
			best = i
		}
	}
	return best
}
