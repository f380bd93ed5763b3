package ingest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/vaultqa/ai/mock"
	"github.com/poiesic/vaultqa/core"
	"github.com/poiesic/vaultqa/vault"
)

// memRepository is an in-memory ChunkRepository doubling as the index's
// ChunkStore.
type memRepository struct {
	mu     sync.Mutex
	chunks map[vault.Scope][]*core.VaultChunk
}

func newMemRepository() *memRepository {
	return &memRepository{chunks: map[vault.Scope][]*core.VaultChunk{}}
}

func (r *memRepository) PutChunks(_ context.Context, chunks ...*core.VaultChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, chunk := range chunks {
		scope := vault.Scope{TenantID: chunk.TenantID, UserID: chunk.UserID}
		r.chunks[scope] = append(r.chunks[scope], chunk)
	}
	return nil
}

func (r *memRepository) Scopes(_ context.Context) ([]vault.Scope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	scopes := make([]vault.Scope, 0, len(r.chunks))
	for scope := range r.chunks {
		scopes = append(scopes, scope)
	}
	return scopes, nil
}

func (r *memRepository) ScopeChunks(_ context.Context, tenantID, userID string) ([]*core.VaultChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.chunks[vault.Scope{TenantID: tenantID, UserID: userID}], nil
}

func TestPipelineValidation(t *testing.T) {
	repo := newMemRepository()
	index := vault.NewIndex(repo, nil)
	embedder := mock.NewMockEmbedder()

	_, err := NewPipeline(nil, index, embedder)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewPipeline(repo, nil, embedder)
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewPipeline(repo, index, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestPipelineIngest(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepository()
	index := vault.NewIndex(repo, nil)

	pipeline, err := NewPipeline(repo, index, mock.NewMockEmbedder(), WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	text := strings.Repeat("User is vegetarian and prefers paneer for protein. ", 30)
	count, err := pipeline.Ingest(ctx, "t1", "u1", "profile.txt", text)
	require.NoError(t, err)
	assert.Greater(t, count, 1)

	chunks, err := repo.ScopeChunks(ctx, "t1", "u1")
	require.NoError(t, err)
	require.Len(t, chunks, count)
	for _, chunk := range chunks {
		assert.Equal(t, "t1", chunk.TenantID)
		assert.Equal(t, "u1", chunk.UserID)
		assert.Equal(t, "profile.txt", chunk.Source)
		assert.NotEmpty(t, chunk.Text)
		assert.NotEmpty(t, chunk.Vector)
	}

	// The scope became searchable after ingest.
	assert.Equal(t, count, index.ScopeSize("t1", "u1"))
}

func TestPipelineIngestEmptyText(t *testing.T) {
	repo := newMemRepository()
	index := vault.NewIndex(repo, nil)

	pipeline, err := NewPipeline(repo, index, mock.NewMockEmbedder())
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.Ingest(context.Background(), "t1", "u1", "empty.txt", "   \n ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestPipelineIngestEmbedderFailure(t *testing.T) {
	repo := newMemRepository()
	index := vault.NewIndex(repo, nil)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, errors.New("embedding host down")
	}

	pipeline, err := NewPipeline(repo, index, embedder)
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.Ingest(context.Background(), "t1", "u1", "doc.txt", "some text to ingest")
	require.Error(t, err)

	// Nothing was persisted.
	chunks, err := repo.ScopeChunks(context.Background(), "t1", "u1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
