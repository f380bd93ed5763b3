package vault

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrIndexRequired is returned when an index is not provided.
	ErrIndexRequired = errors.New("index required")

	// ErrScopeNotFound indicates no chunks are indexed for the requested
	// tenant/user scope.
	ErrScopeNotFound = errors.New("not_found")

	// ErrScorerRequired is returned when re-ranking is enabled without a
	// relevance scorer.
	ErrScorerRequired = errors.New("relevance scorer required when reranking is enabled")
)
