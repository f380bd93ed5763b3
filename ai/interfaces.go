package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// IntentClassifier maps a free-text query to one of a fixed set of route
// labels. Implementations must be thread-safe for concurrent use.
//
// A low-confidence or failed classification is not fatal: callers fall back
// to deterministic keyword matching.
type IntentClassifier interface {
	// ClassifyIntent classifies the query against the candidate labels
	// configured at construction time. The returned label is always one of
	// the candidates.
	ClassifyIntent(ctx context.Context, query, locale string) (IntentPrediction, error)
}

// Generator produces the final answer text from assembled context.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Complete generates an answer for the given input and reports token
	// usage. Returns an error if the external completion call fails; callers
	// degrade to a fallback answer rather than aborting the request.
	Complete(ctx context.Context, input GenerationInput) (GenerationResult, error)
}

// RelevanceScorer scores query/passage pairs for the retrieval re-ranking
// pass. Implementations must be thread-safe for concurrent use.
type RelevanceScorer interface {
	// ScoreRelevance returns one score in [0,1] per passage, in input order.
	// Scorer failure is non-fatal: the retriever keeps the pre-rerank order.
	ScoreRelevance(ctx context.Context, query string, passages []string) ([]float32, error)
}

// Provider aggregates the AI services for convenient initialization and
// lifecycle management. All returned services are safe for concurrent use.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// IntentClassifier returns the route classification service.
	IntentClassifier() IntentClassifier

	// Generator returns the answer generation service.
	Generator() Generator

	// RelevanceScorer returns the re-ranking score service.
	RelevanceScorer() RelevanceScorer

	// Close releases resources held by the provider and its services.
	Close() error
}
