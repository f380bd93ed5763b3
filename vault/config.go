package vault

import "errors"

// Config is the retrieval tuning surface.
type Config struct {
	// TopK is the final number of chunks returned.
	TopK int

	// FetchK is the candidate pool size fetched before selection.
	// Must be >= TopK.
	FetchK int

	// DiversityEnabled turns maximal-marginal-relevance selection on.
	DiversityEnabled bool

	// DiversityLambda is the relevance/diversity trade-off in [0,1]:
	// 0 = maximum diversity, 1 = maximum relevance.
	DiversityLambda float32

	// RerankEnabled turns the external re-ranking pass on.
	RerankEnabled bool

	// RerankTopN is the number of selected candidates passed to the scorer.
	RerankTopN int

	// MinConfidence drops chunks scoring below it. 0 disables filtering.
	MinConfidence float32
}

// DefaultConfig returns retrieval defaults: MMR on with a balanced lambda,
// re-ranking off, no confidence floor.
func DefaultConfig() Config {
	return Config{
		TopK:             4,
		FetchK:           20,
		DiversityEnabled: true,
		DiversityLambda:  0.5,
		RerankEnabled:    false,
		RerankTopN:       4,
		MinConfidence:    0,
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	if c.TopK < 1 {
		return errors.New("vault config: TopK must be positive")
	}
	if c.FetchK < c.TopK {
		return errors.New("vault config: FetchK must be >= TopK")
	}
	if c.DiversityLambda < 0 || c.DiversityLambda > 1 {
		return errors.New("vault config: DiversityLambda must be between 0 and 1")
	}
	if c.RerankEnabled && c.RerankTopN < 1 {
		return errors.New("vault config: RerankTopN must be positive when reranking is enabled")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return errors.New("vault config: MinConfidence must be between 0 and 1")
	}
	return nil
}
