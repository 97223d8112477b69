// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/section-writer/pkg/types"
)

func scored(text string, total float64) types.ReviewedCandidate {
	return types.ReviewedCandidate{Text: text, TotalScore: total}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		input  []types.ReviewedCandidate
		expect string
		index  int
	}{
		{"single", []types.ReviewedCandidate{scored("a", 5)}, "a", 0},
		{"highest wins", []types.ReviewedCandidate{scored("a", 6), scored("b", 8.2), scored("c", 7)}, "b", 1},
		{"tie goes to earliest", []types.ReviewedCandidate{scored("a", 7.4), scored("b", 7.6), scored("c", 7.6)}, "b", 1},
		{"all equal", []types.ReviewedCandidate{scored("a", 6), scored("b", 6), scored("c", 6)}, "a", 0},
		{"last is best", []types.ReviewedCandidate{scored("a", 1), scored("b", 2), scored("c", 3)}, "c", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got.Text)
			assert.Equal(t, tt.index, SelectIndex(tt.input))
		})
	}
}

func TestSelect_Deterministic(t *testing.T) {
	input := []types.ReviewedCandidate{scored("a", 7), scored("b", 9), scored("c", 9)}
	first, err := Select(input)
	require.NoError(t, err)
	for range 10 {
		again, err := Select(input)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSelect_Empty(t *testing.T) {
	_, err := Select(nil)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	assert.Equal(t, -1, SelectIndex(nil))
}
