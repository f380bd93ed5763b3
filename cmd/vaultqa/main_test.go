package main

import (
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/vaultqa/ai/mock"
	"github.com/poiesic/vaultqa/core"
	"github.com/poiesic/vaultqa/ingest"
	"github.com/poiesic/vaultqa/vault"
)

func contextWithLogLevel(t *testing.T, level string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", "", "")
	require.NoError(t, set.Set("log-level", level))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSetupLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
		t.Run(level, func(t *testing.T) {
			assert.NoError(t, setupLogger(contextWithLogLevel(t, level)))
		})
	}

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(contextWithLogLevel(t, "verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

// chunkStore is an in-memory ingest.ChunkRepository doubling as the
// index's ChunkStore.
type chunkStore struct {
	chunks map[vault.Scope][]*core.VaultChunk
}

func newChunkStore() *chunkStore {
	return &chunkStore{chunks: map[vault.Scope][]*core.VaultChunk{}}
}

func (s *chunkStore) PutChunks(_ context.Context, chunks ...*core.VaultChunk) error {
	for _, chunk := range chunks {
		scope := vault.Scope{TenantID: chunk.TenantID, UserID: chunk.UserID}
		s.chunks[scope] = append(s.chunks[scope], chunk)
	}
	return nil
}

func (s *chunkStore) Scopes(_ context.Context) ([]vault.Scope, error) {
	scopes := make([]vault.Scope, 0, len(s.chunks))
	for scope := range s.chunks {
		scopes = append(scopes, scope)
	}
	return scopes, nil
}

func (s *chunkStore) ScopeChunks(_ context.Context, tenantID, userID string) ([]*core.VaultChunk, error) {
	return s.chunks[vault.Scope{TenantID: tenantID, UserID: userID}], nil
}

func contextWithChunking(t *testing.T, size, overlap string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("ingest", flag.ContinueOnError)
	set.Int("chunk-size", 0, "")
	set.Int("chunk-overlap", 0, "")
	require.NoError(t, set.Set("chunk-size", size))
	require.NoError(t, set.Set("chunk-overlap", overlap))
	return cli.NewContext(cli.NewApp(), set, nil)
}

// Flag values must reach the ingest pipeline; a smaller chunk size has to
// produce more chunks from the same document.
func TestIngestOptionsChunking(t *testing.T) {
	ctx := context.Background()
	text := strings.Repeat("User is vegetarian and prefers paneer for protein. ", 10)

	ingestWith := func(t *testing.T, size, overlap string) int {
		t.Helper()
		store := newChunkStore()
		index := vault.NewIndex(store, nil)
		pipeline, err := ingest.NewPipeline(store, index, mock.NewMockEmbedder(),
			ingestOptions(contextWithChunking(t, size, overlap))...)
		require.NoError(t, err)
		defer pipeline.Release()

		count, err := pipeline.Ingest(ctx, "t1", "u1", "doc.txt", text)
		require.NoError(t, err)
		return count
	}

	small := ingestWith(t, "60", "10")
	large := ingestWith(t, "400", "80")
	assert.Greater(t, small, large)
	assert.Greater(t, small, 1)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "one", firstLine("one\ntwo"))
	assert.Equal(t, "short", firstLine("short"))

	long := strings.Repeat("x", 200)
	got := firstLine(long)
	assert.Len(t, got, 123)
	assert.True(t, strings.HasSuffix(got, "..."))
}
