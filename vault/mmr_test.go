package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/vaultqa/core"
)

func mmrCandidate(id string, vector []float32, score float32) Candidate {
	return Candidate{
		Chunk: &core.VaultChunk{ChunkID: id, Vector: NormalizeVector(vector)},
		Score: score,
	}
}

func TestMaxMarginalRelevance(t *testing.T) {
	t.Run("returns at most k unique candidates", func(t *testing.T) {
		candidates := []Candidate{
			mmrCandidate("a", []float32{1, 0, 0}, 0.9),
			mmrCandidate("b", []float32{0.99, 0.01, 0}, 0.89),
			mmrCandidate("c", []float32{0, 1, 0}, 0.5),
			mmrCandidate("d", []float32{0, 0, 1}, 0.4),
		}

		selected := maxMarginalRelevance(candidates, 0.5, 3)
		require.Len(t, selected, 3)

		seen := make(map[string]bool)
		for _, cand := range selected {
			assert.False(t, seen[cand.Chunk.ChunkID])
			seen[cand.Chunk.ChunkID] = true
		}
	})

	t.Run("first pick is the most relevant", func(t *testing.T) {
		candidates := []Candidate{
			mmrCandidate("a", []float32{1, 0, 0}, 0.9),
			mmrCandidate("b", []float32{0, 1, 0}, 0.5),
		}
		selected := maxMarginalRelevance(candidates, 0.3, 2)
		require.NotEmpty(t, selected)
		assert.Equal(t, "a", selected[0].Chunk.ChunkID)
	})

	t.Run("lambda one degenerates to similarity order", func(t *testing.T) {
		candidates := []Candidate{
			mmrCandidate("a", []float32{1, 0, 0}, 0.9),
			mmrCandidate("b", []float32{0.99, 0.01, 0}, 0.8),
			mmrCandidate("c", []float32{0, 1, 0}, 0.7),
		}
		selected := maxMarginalRelevance(candidates, 1.0, 3)
		require.Len(t, selected, 3)
		assert.Equal(t, "a", selected[0].Chunk.ChunkID)
		assert.Equal(t, "b", selected[1].Chunk.ChunkID)
		assert.Equal(t, "c", selected[2].Chunk.ChunkID)
	})

	t.Run("diversity penalizes near duplicates", func(t *testing.T) {
		// b is almost identical to a; with a diversity-heavy lambda the
		// dissimilar c should be picked second despite its lower relevance.
		candidates := []Candidate{
			mmrCandidate("a", []float32{1, 0, 0}, 0.9),
			mmrCandidate("b", []float32{0.999, 0.001, 0}, 0.89),
			mmrCandidate("c", []float32{0, 1, 0}, 0.5),
		}
		selected := maxMarginalRelevance(candidates, 0.3, 2)
		require.Len(t, selected, 2)
		assert.Equal(t, "a", selected[0].Chunk.ChunkID)
		assert.Equal(t, "c", selected[1].Chunk.ChunkID)
	})

	t.Run("fewer candidates than k", func(t *testing.T) {
		candidates := []Candidate{
			mmrCandidate("a", []float32{1, 0, 0}, 0.9),
		}
		selected := maxMarginalRelevance(candidates, 0.5, 4)
		assert.Len(t, selected, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, maxMarginalRelevance(nil, 0.5, 4))
		assert.Nil(t, maxMarginalRelevance([]Candidate{mmrCandidate("a", []float32{1}, 1)}, 0.5, 0))
	})
}
