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


package vaultqa

import (
	"context"
	"log/slog"

	"github.com/poiesic/vaultqa/ai"
	"github.com/poiesic/vaultqa/ai/openai"
	"github.com/poiesic/vaultqa/core"
	"github.com/poiesic/vaultqa/flow"
	"github.com/poiesic/vaultqa/ingest"
	"github.com/poiesic/vaultqa/policy"
	"github.com/poiesic/vaultqa/vault"
	"github.com/poiesic/vaultqa/vault/badger"
)

// Assistant wires the storage, retrieval, policy, and pipeline layers into
// one conversational endpoint.
type Assistant struct {
	backend    *badger.Backend
	repository *badger.ChunkRepository
	index      *vault.Index
	retriever  *vault.Retriever
	gatekeeper *policy.Gatekeeper
	engine     *flow.Engine
	provider   ai.Provider
	logger     *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig    *ai.Config
	vaultConfig vault.Config
	provider    ai.Provider
	engineOpts  []flow.Option
	inMemory    bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		o.aiConfig = config
	}
}

// WithVaultConfig sets the retrieval configuration.
func WithVaultConfig(config vault.Config) AssistantOption {
	return func(o *assistantOptions) {
		o.vaultConfig = config
	}
}

// WithProvider injects a pre-built AI provider instead of the OpenAI one.
// Used by tests to run the full pipeline against mocks.
func WithProvider(provider ai.Provider) AssistantOption {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// WithEngineOptions forwards options to the pipeline engine.
func WithEngineOptions(opts ...flow.Option) AssistantOption {
	return func(o *assistantOptions) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// WithInMemoryStorage keeps all chunks in memory, without a database
// directory.
func WithInMemoryStorage() AssistantOption {
	return func(o *assistantOptions) {
		o.inMemory = true
	}
}

// NewAssistant opens the chunk database at filePath, loads tenant policies
// from policyPath, and builds the request pipeline.
func NewAssistant(filePath, policyPath string, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig:    ai.DefaultConfig(),
		vaultConfig: vault.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	registry, err := policy.LoadRegistry(policyPath)
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	repository := badger.NewChunkRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repository.Close()
			backend.Close()
			return nil, err
		}
	}

	index := vault.NewIndex(repository, nil)
	if err := index.Rebuild(context.Background()); err != nil {
		provider.Close()
		repository.Close()
		backend.Close()
		return nil, err
	}

	retrieverOpts := []vault.Option{vault.WithConfig(options.vaultConfig)}
	if options.vaultConfig.RerankEnabled {
		retrieverOpts = append(retrieverOpts, vault.WithScorer(provider.RelevanceScorer()))
	}
	retriever, err := vault.NewRetriever(index, provider.Embedder(), retrieverOpts...)
	if err != nil {
		provider.Close()
		repository.Close()
		backend.Close()
		return nil, err
	}

	gatekeeper, err := policy.NewGatekeeper(registry)
	if err != nil {
		provider.Close()
		repository.Close()
		backend.Close()
		return nil, err
	}

	engine, err := flow.NewEngine(gatekeeper, retriever, provider, options.engineOpts...)
	if err != nil {
		provider.Close()
		repository.Close()
		backend.Close()
		return nil, err
	}

	return &Assistant{
		backend:    backend,
		repository: repository,
		index:      index,
		retriever:  retriever,
		gatekeeper: gatekeeper,
		engine:     engine,
		provider:   provider,
		logger:     slog.Default(),
	}, nil
}

// Ask runs one request through the full pipeline.
func (a *Assistant) Ask(ctx context.Context, req *core.Request) (*core.Response, error) {
	return a.engine.Run(ctx, req)
}

// Ingest loads a document into the given scope's vault.
// Returns the number of chunks ingested.
func (a *Assistant) Ingest(ctx context.Context, tenantID, userID, source, text string, opts ...ingest.Option) (int, error) {
	pipeline, err := ingest.NewPipeline(a.repository, a.index, a.provider.Embedder(), opts...)
	if err != nil {
		return 0, err
	}
	defer pipeline.Release()
	return pipeline.Ingest(ctx, tenantID, userID, source, text)
}

// Retrieve runs the retrieval stage alone, without policy checks or
// generation. Intended for debugging what the vault would surface.
func (a *Assistant) Retrieve(ctx context.Context, tenantID, userID, query string, topK int) (*core.RetrievalResult, error) {
	return a.retriever.Retrieve(ctx, tenantID, userID, query, topK)
}

// Gatekeeper exposes the policy gatekeeper, for operational tooling.
func (a *Assistant) Gatekeeper() *policy.Gatekeeper {
	return a.gatekeeper
}

// Close releases the AI provider and storage.
func (a *Assistant) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}

	if err := a.repository.Close(); err != nil {
		a.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}
