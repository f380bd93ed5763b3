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

package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/vaultqa/core"
	"github.com/poiesic/vaultqa/vault"
)

// ChunkRepository persists vault chunks in BadgerDB, keyed by scope.
// Implements vault.ChunkStore.
type ChunkRepository struct {
	backend *Backend
}

var _ vault.ChunkStore = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) *ChunkRepository {
	return &ChunkRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *ChunkRepository) Close() error {
	return nil
}

// PutChunks stores chunks under their scope. Existing chunks with the
// same (tenant, user, chunkID) are overwritten.
func (r *ChunkRepository) PutChunks(ctx context.Context, chunks ...*core.VaultChunk) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := core.ValidateChunk(chunk); err != nil {
				return err
			}
			key := makeChunkKey(chunk.TenantID, chunk.UserID, chunk.ChunkID)
			if err := tx.Set(key, vault.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ScopeChunks returns all chunks for one (tenant, user) scope.
func (r *ChunkRepository) ScopeChunks(ctx context.Context, tenantID, userID string) ([]*core.VaultChunk, error) {
	var chunks []*core.VaultChunk

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeScopePrefix(tenantID, userID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				chunk, err := vault.UnmarshalChunk(val)
				if err != nil {
					return err
				}
				chunks = append(chunks, chunk)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// Scopes lists every (tenant, user) scope with at least one stored chunk.
func (r *ChunkRepository) Scopes(ctx context.Context) ([]vault.Scope, error) {
	seen := make(map[vault.Scope]bool)
	var scopes []vault.Scope

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = append([]byte(chunkPrefix), keySeparator)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			tenantID, userID, _, ok := parseChunkKey(iter.Item().Key())
			if !ok {
				continue
			}
			scope := vault.Scope{TenantID: tenantID, UserID: userID}
			if !seen[scope] {
				seen[scope] = true
				scopes = append(scopes, scope)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return scopes, nil
}

// DeleteScope removes every chunk stored for one scope.
// Returns the number of chunks deleted.
func (r *ChunkRepository) DeleteScope(ctx context.Context, tenantID, userID string) (int, error) {
	var keys [][]byte

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeScopePrefix(tenantID, userID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}
