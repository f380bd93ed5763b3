package mock

import "context"

// MockRelevanceScorer is a test double for ai.RelevanceScorer.
type MockRelevanceScorer struct {
	// ScoreFunc is called by ScoreRelevance if set.
	// If nil, every passage scores 0.5.
	ScoreFunc func(ctx context.Context, query string, passages []string) ([]float32, error)

	callCount int
}

// NewMockRelevanceScorer creates a mock scorer with a flat default score.
func NewMockRelevanceScorer() *MockRelevanceScorer {
	return &MockRelevanceScorer{}
}

// ScoreRelevance returns injected scores or 0.5 per passage.
func (m *MockRelevanceScorer) ScoreRelevance(ctx context.Context, query string, passages []string) ([]float32, error) {
	m.callCount++

	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, query, passages)
	}

	scores := make([]float32, len(passages))
	for i := range scores {
		scores[i] = 0.5
	}
	return scores, nil
}

// CallCount returns the number of times ScoreRelevance was called.
func (m *MockRelevanceScorer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockRelevanceScorer) Reset() {
	m.callCount = 0
	m.ScoreFunc = nil
}
