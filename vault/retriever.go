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
	"fmt"
	"log/slog"
	"sort"

	"github.com/poiesic/vaultqa/ai"
	"github.com/poiesic/vaultqa/core"
)

// Retriever runs the staged retrieval pipeline over the scoped index.
type Retriever struct {
	index    *Index
	embedder ai.Embedder
	scorer   ai.RelevanceScorer
	config   Config
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithConfig sets the retrieval configuration.
// Default is DefaultConfig().
func WithConfig(config Config) Option {
	return func(r *Retriever) error {
		if err := config.Validate(); err != nil {
			return err
		}
		r.config = config
		return nil
	}
}

// WithScorer sets the relevance scorer used by the re-ranking pass.
func WithScorer(scorer ai.RelevanceScorer) Option {
	return func(r *Retriever) error {
		r.scorer = scorer
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "vault-retriever")
		return nil
	}
}

// NewRetriever creates a new retriever over the given index.
func NewRetriever(index *Index, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		index:    index,
		embedder: embedder,
		config:   DefaultConfig(),
		logger:   slog.Default().With("component", "vault-retriever"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.config.RerankEnabled && r.scorer == nil {
		return nil, ErrScorerRequired
	}

	return r, nil
}

// Config returns the active retrieval configuration.
func (r *Retriever) Config() Config {
	return r.config
}

// Retrieve returns up to topK chunks relevant to the query, drawn only
// from the (tenant, user) scope. topK <= 0 uses the configured default.
func (r *Retriever) Retrieve(ctx context.Context, tenantID, userID, query string, topK int) (*core.RetrievalResult, error) {
	return r.RetrieveWithMonitor(ctx, tenantID, userID, query, topK, nil)
}

// RetrieveWithMonitor runs the retrieval pipeline with stage callbacks.
// An unknown scope yields an empty result plus a wrapped not_found error so
// callers can degrade instead of failing the whole request.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, tenantID, userID, query string, topK int, monitor RetrievalMonitor) (*core.RetrievalResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if topK <= 0 {
		topK = r.config.TopK
	}

	monitor.Start(tenantID, userID, query)

	// 1. Embed the query
	queryVec, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "tenantID", tenantID, "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrRetrieval, err)
	}
	queryVec = NormalizeVector(queryVec)
	monitor.AfterEmbedding(len(queryVec))

	// 2. Scoped candidate fetch. Only the scope's own partition is searched.
	candidates, err := r.index.Search(ctx, tenantID, userID, queryVec, r.config.FetchK)
	if err != nil {
		r.logger.Warn("scoped search failed", "tenantID", tenantID, "userID", userID, "err", err)
		return &core.RetrievalResult{}, fmt.Errorf("%w: %w", core.ErrRetrieval, err)
	}
	monitor.AfterScopedSearch(candidates)

	// 3. Selection: MMR when diversity is enabled, plain truncation otherwise.
	method := core.MethodSimilarity
	var selected []Candidate
	if r.config.DiversityEnabled && len(candidates) > 1 {
		selected = maxMarginalRelevance(candidates, r.config.DiversityLambda, topK)
		method = core.MethodMMR
	} else {
		selected = candidates
		if len(selected) > topK {
			selected = selected[:topK]
		}
	}
	monitor.AfterDiversitySelection(selected)

	// 4. Optional re-rank of the top N. The rerank score replaces the
	// similarity score for the reranked head; a scorer failure falls back
	// to the pre-rerank order and scores.
	if r.config.RerankEnabled && r.scorer != nil && len(selected) > 1 {
		n := r.config.RerankTopN
		if n > len(selected) {
			n = len(selected)
		}
		passages := make([]string, n)
		for i := 0; i < n; i++ {
			passages[i] = selected[i].Chunk.Text
		}
		scores, err := r.scorer.ScoreRelevance(ctx, query, passages)
		if err != nil || len(scores) != n {
			r.logger.Warn("rerank failed, keeping original order", "tenantID", tenantID, "err", err)
		} else {
			head := make([]Candidate, n)
			copy(head, selected[:n])
			order := make([]int, n)
			for i := range order {
				order[i] = i
			}
			sort.SliceStable(order, func(a, b int) bool {
				return scores[order[a]] > scores[order[b]]
			})
			for i, idx := range order {
				selected[i] = Candidate{Chunk: head[idx].Chunk, Score: scores[idx]}
			}
			method = core.MethodReranked
			monitor.AfterRerank(scores)
		}
	}

	// 5. Normalize confidence, filter, and re-verify scope ownership.
	// Candidates already came from the scoped partition, so a scope
	// mismatch here is an invariant violation: the chunk is dropped,
	// never returned.
	chunks := make([]core.ScoredChunk, 0, len(selected))
	var sum float32
	for _, cand := range selected {
		confidence := clampConfidence(cand.Score)
		if r.config.MinConfidence > 0 && confidence < r.config.MinConfidence {
			monitor.ChunkDropped(cand.Chunk, "below_min_confidence")
			continue
		}
		if cand.Chunk.TenantID != tenantID || cand.Chunk.UserID != userID {
			r.logger.Error("isolation violation: dropping foreign chunk",
				"error", core.ErrInternal,
				"tenantID", tenantID, "userID", userID,
				"chunkTenantID", cand.Chunk.TenantID, "chunkUserID", cand.Chunk.UserID,
				"chunkID", cand.Chunk.ChunkID)
			monitor.ChunkDropped(cand.Chunk, "scope_mismatch")
			continue
		}
		chunks = append(chunks, core.ScoredChunk{
			Chunk:      cand.Chunk,
			Confidence: confidence,
			Method:     method,
		})
		sum += confidence
	}

	result := &core.RetrievalResult{Chunks: chunks}
	if len(chunks) > 0 {
		result.AvgConfidence = sum / float32(len(chunks))
	}
	monitor.Finish(result)

	return result, nil
}
