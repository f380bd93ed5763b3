package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("some chunk text")
		id2 := IDFromContent("some chunk text")
		assert.Equal(t, id1, id2)
	})

	t.Run("distinct content distinct ids", func(t *testing.T) {
		id1 := IDFromContent("first")
		id2 := IDFromContent("second")
		assert.NotEqual(t, id1, id2)
	})
}

func TestRouteRoundTrip(t *testing.T) {
	routes := []Route{
		RouteGeneral,
		RouteKnowledgeQA,
		RoutePriceCompare,
		RouteFinanceInfo,
		RouteRefused,
	}

	for _, r := range routes {
		t.Run(r.String(), func(t *testing.T) {
			assert.True(t, ValidRoute(r))
			assert.Equal(t, r, ParseRoute(r.String()))
		})
	}
}

func TestParseRoute_UnknownFallsBackToGeneral(t *testing.T) {
	assert.Equal(t, RouteGeneral, ParseRoute("SOMETHING_ELSE"))
	assert.Equal(t, RouteGeneral, ParseRoute(""))
}

func TestValidRoute_OutOfRange(t *testing.T) {
	assert.False(t, ValidRoute(Route(0)))
	assert.False(t, ValidRoute(Route(99)))
}

func TestVaultChunkMUS_RoundTrip(t *testing.T) {
	chunk := VaultChunk{
		Id:       IDFromContent("t1/u123/0"),
		TenantID: "t1",
		UserID:   "u123",
		ChunkID:  "0",
		Text:     "User is vegetarian, prefers paneer.",
		Vector:   []float32{0.25, -0.5, 0.75},
		Source:   "user_vault",
	}

	buf := make([]byte, VaultChunkMUS.Size(chunk))
	n := VaultChunkMUS.Marshal(chunk, buf)
	require.Equal(t, len(buf), n)

	decoded, read, err := VaultChunkMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, read)
	assert.Equal(t, chunk, decoded)
}

func TestVaultChunkMUS_EmptyVector(t *testing.T) {
	chunk := VaultChunk{
		Id:       1,
		TenantID: "t1",
		UserID:   "u1",
		ChunkID:  "7",
		Text:     "no embedding yet",
		Source:   "user_vault",
	}

	buf := make([]byte, VaultChunkMUS.Size(chunk))
	VaultChunkMUS.Marshal(chunk, buf)

	decoded, _, err := VaultChunkMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Nil(t, decoded.Vector)
	assert.Equal(t, chunk.Text, decoded.Text)
}

func TestVaultChunkMUS_Truncated(t *testing.T) {
	_, _, err := VaultChunkMUS.Unmarshal([]byte{})
	assert.Error(t, err)
}
