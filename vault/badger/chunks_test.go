package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/vaultqa/core"
	"github.com/poiesic/vaultqa/vault"
)

func testRepository(t *testing.T) *ChunkRepository {
	t.Helper()
	repo, backend, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func testChunk(tenantID, userID, chunkID, text string) *core.VaultChunk {
	return &core.VaultChunk{
		Id:       core.IDFromContent(tenantID + "/" + userID + "/" + chunkID),
		TenantID: tenantID,
		UserID:   userID,
		ChunkID:  chunkID,
		Text:     text,
		Vector:   []float32{0.6, 0.8},
		Source:   "doc.txt",
	}
}

func TestChunkRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)

	original := testChunk("t1", "u1", "c1", "the quick brown fox")
	require.NoError(t, repo.PutChunks(ctx, original))

	chunks, err := repo.ScopeChunks(ctx, "t1", "u1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, original.Id, chunks[0].Id)
	assert.Equal(t, original.TenantID, chunks[0].TenantID)
	assert.Equal(t, original.UserID, chunks[0].UserID)
	assert.Equal(t, original.ChunkID, chunks[0].ChunkID)
	assert.Equal(t, original.Text, chunks[0].Text)
	assert.Equal(t, original.Vector, chunks[0].Vector)
	assert.Equal(t, original.Source, chunks[0].Source)
}

func TestChunkRepositoryScopeIsolation(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)

	require.NoError(t, repo.PutChunks(ctx,
		testChunk("t1", "u1", "c1", "tenant one"),
		testChunk("t1", "u2", "c2", "other user"),
		testChunk("t2", "u1", "c3", "tenant two"),
	))

	chunks, err := repo.ScopeChunks(ctx, "t1", "u1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "c1", chunks[0].ChunkID)

	// Tenant ids that prefix each other must not collide.
	require.NoError(t, repo.PutChunks(ctx, testChunk("t", "u1", "c9", "short tenant")))
	chunks, err = repo.ScopeChunks(ctx, "t1", "u1")
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestChunkRepositoryScopes(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)

	scopes, err := repo.Scopes(ctx)
	require.NoError(t, err)
	assert.Empty(t, scopes)

	require.NoError(t, repo.PutChunks(ctx,
		testChunk("t1", "u1", "c1", "a"),
		testChunk("t1", "u1", "c2", "b"),
		testChunk("t2", "u9", "c3", "c"),
	))

	scopes, err = repo.Scopes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []vault.Scope{
		{TenantID: "t1", UserID: "u1"},
		{TenantID: "t2", UserID: "u9"},
	}, scopes)
}

func TestChunkRepositoryOverwrite(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)

	require.NoError(t, repo.PutChunks(ctx, testChunk("t1", "u1", "c1", "old text")))
	updated := testChunk("t1", "u1", "c1", "new text")
	require.NoError(t, repo.PutChunks(ctx, updated))

	chunks, err := repo.ScopeChunks(ctx, "t1", "u1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "new text", chunks[0].Text)
}

func TestChunkRepositoryDeleteScope(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)

	require.NoError(t, repo.PutChunks(ctx,
		testChunk("t1", "u1", "c1", "a"),
		testChunk("t1", "u1", "c2", "b"),
		testChunk("t1", "u2", "c3", "c"),
	))

	deleted, err := repo.DeleteScope(ctx, "t1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	chunks, err := repo.ScopeChunks(ctx, "t1", "u1")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	// Sibling scope untouched.
	chunks, err = repo.ScopeChunks(ctx, "t1", "u2")
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestChunkRepositoryRejectsInvalidChunk(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)

	chunk := testChunk("", "u1", "c1", "missing tenant")
	assert.Error(t, repo.PutChunks(ctx, chunk))
}
