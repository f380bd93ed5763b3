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

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/poiesic/vaultqa/ai"
	"github.com/poiesic/vaultqa/core"
	"github.com/poiesic/vaultqa/vault"
)

const (
	defaultChunkSize    = 400
	defaultChunkOverlap = 80
)

// ChunkRepository persists chunks produced by ingestion.
// Implemented by the badger-backed repository.
type ChunkRepository interface {
	PutChunks(ctx context.Context, chunks ...*core.VaultChunk) error
}

// Pipeline splits, embeds, and persists documents into a single scope.
type Pipeline struct {
	repository ChunkRepository
	index      *vault.Index
	embedder   ai.Embedder
	pool       *ants.Pool
	splitter   textsplitter.TextSplitter
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithChunking sets the splitter chunk size and overlap in characters.
// Defaults are 400 and 80.
func WithChunking(size, overlap int) Option {
	return func(p *Pipeline) error {
		p.splitter = textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingest")
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository ChunkRepository, index *vault.Index, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		index:      index,
		embedder:   embedder,
		pool:       pool,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(defaultChunkSize),
			textsplitter.WithChunkOverlap(defaultChunkOverlap),
		),
		logger: slog.Default().With("component", "ingest"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	return p, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Ingest splits the text, embeds every chunk, persists the chunks under
// the (tenant, user) scope, and rebuilds that scope's index partition.
// Returns the number of chunks ingested.
func (p *Pipeline) Ingest(ctx context.Context, tenantID, userID, source, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrEmptyText
	}

	parts, err := p.splitter.SplitText(text)
	if err != nil {
		return 0, err
	}
	if len(parts) == 0 {
		return 0, ErrEmptyText
	}

	p.logger.Info("ingesting document",
		"tenantID", tenantID, "userID", userID, "source", source, "chunks", len(parts))

	// Embed chunks concurrently through the bounded pool.
	vectors := make([][]float32, len(parts))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	record := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	for i, part := range parts {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			vector, embedErr := p.embedder.EmbedText(ctx, part)
			if embedErr != nil {
				record(embedErr)
				return
			}
			vectors[i] = vault.NormalizeVector(vector)
		})
		if submitErr != nil {
			wg.Done()
			record(submitErr)
		}
	}
	wg.Wait()
	if firstErr != nil {
		return 0, firstErr
	}

	chunks := make([]*core.VaultChunk, len(parts))
	for i, part := range parts {
		chunkID := fmt.Sprintf("%s-%d", source, i)
		chunks[i] = &core.VaultChunk{
			Id:       core.IDFromContent(tenantID + "/" + userID + "/" + chunkID),
			TenantID: tenantID,
			UserID:   userID,
			ChunkID:  chunkID,
			Text:     part,
			Vector:   vectors[i],
			Source:   source,
		}
	}

	if err := p.repository.PutChunks(ctx, chunks...); err != nil {
		return 0, err
	}

	if err := p.index.RebuildScope(ctx, tenantID, userID); err != nil {
		return 0, err
	}

	return len(chunks), nil
}
