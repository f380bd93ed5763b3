// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vault

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/poiesic/vaultqa/core"
)

// Scope identifies one isolated partition of the index.
type Scope struct {
	TenantID string
	UserID   string
}

// ChunkStore supplies persisted chunks for index builds. Implemented by
// the badger-backed repository.
type ChunkStore interface {
	// Scopes lists every (tenant, user) partition with persisted chunks.
	Scopes(ctx context.Context) ([]Scope, error)

	// ScopeChunks returns all chunks persisted for one scope.
	ScopeChunks(ctx context.Context, tenantID, userID string) ([]*core.VaultChunk, error)
}

// Candidate is a chunk paired with its raw cosine similarity to the query.
type Candidate struct {
	Chunk *core.VaultChunk
	Score float32
}

// snapshot is an immutable view of the index. Readers load it atomically
// and never see a partially rebuilt state.
type snapshot struct {
	scopes map[Scope][]*core.VaultChunk
}

// Index is an in-memory vector index partitioned by tenant and user.
// Searches run lock-free against the current snapshot; Rebuild swaps in
// a fresh snapshot atomically.
type Index struct {
	store     ChunkStore
	current   atomic.Pointer[snapshot]
	rebuildMu sync.Mutex
	logger    *slog.Logger
}

// NewIndex creates an empty index backed by the given store.
func NewIndex(store ChunkStore, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	idx := &Index{
		store:  store,
		logger: logger.With("component", "vault-index"),
	}
	idx.current.Store(&snapshot{scopes: map[Scope][]*core.VaultChunk{}})
	return idx
}

// Rebuild reloads every scope from the store and swaps the snapshot.
// Concurrent rebuilds are serialized; searches are never blocked.
func (idx *Index) Rebuild(ctx context.Context) error {
	idx.rebuildMu.Lock()
	defer idx.rebuildMu.Unlock()

	scopes, err := idx.store.Scopes(ctx)
	if err != nil {
		return err
	}

	next := &snapshot{scopes: make(map[Scope][]*core.VaultChunk, len(scopes))}
	total := 0
	for _, scope := range scopes {
		chunks, err := idx.store.ScopeChunks(ctx, scope.TenantID, scope.UserID)
		if err != nil {
			return err
		}
		next.scopes[scope] = chunks
		total += len(chunks)
	}

	idx.current.Store(next)
	idx.logger.Info("index rebuilt", "scopes", len(next.scopes), "chunks", total)
	return nil
}

// RebuildScope reloads a single scope from the store, leaving all other
// partitions untouched.
func (idx *Index) RebuildScope(ctx context.Context, tenantID, userID string) error {
	idx.rebuildMu.Lock()
	defer idx.rebuildMu.Unlock()

	scope := Scope{TenantID: tenantID, UserID: userID}
	chunks, err := idx.store.ScopeChunks(ctx, tenantID, userID)
	if err != nil {
		return err
	}

	prev := idx.current.Load()
	next := &snapshot{scopes: make(map[Scope][]*core.VaultChunk, len(prev.scopes)+1)}
	for s, c := range prev.scopes {
		next.scopes[s] = c
	}
	if len(chunks) == 0 {
		delete(next.scopes, scope)
	} else {
		next.scopes[scope] = chunks
	}

	idx.current.Store(next)
	idx.logger.Info("scope rebuilt", "tenantID", tenantID, "userID", userID, "chunks", len(chunks))
	return nil
}

// ScopeSize returns the number of chunks indexed for a scope.
func (idx *Index) ScopeSize(tenantID, userID string) int {
	snap := idx.current.Load()
	return len(snap.scopes[Scope{TenantID: tenantID, UserID: userID}])
}

// Search returns up to fetchK candidates from the requested scope, ranked
// by cosine similarity to the query vector. Only the scope's own partition
// is consulted; chunks from other tenants or users are never candidates.
// Returns ErrScopeNotFound when the scope has no indexed chunks.
func (idx *Index) Search(_ context.Context, tenantID, userID string, queryVec []float32, fetchK int) ([]Candidate, error) {
	snap := idx.current.Load()
	chunks, ok := snap.scopes[Scope{TenantID: tenantID, UserID: userID}]
	if !ok || len(chunks) == 0 {
		return nil, ErrScopeNotFound
	}

	candidates := make([]Candidate, 0, len(chunks))
	for _, chunk := range chunks {
		candidates = append(candidates, Candidate{
			Chunk: chunk,
			Score: cosineSimilarity(queryVec, chunk.Vector),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if fetchK > 0 && len(candidates) > fetchK {
		candidates = candidates[:fetchK]
	}
	return candidates, nil
}
