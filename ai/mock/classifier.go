package mock

import (
	"context"

	"github.com/poiesic/vaultqa/ai"
)

// MockIntentClassifier is a test double for ai.IntentClassifier.
type MockIntentClassifier struct {
	// ClassifyFunc is called by ClassifyIntent if set.
	// If nil, returns Prediction.
	ClassifyFunc func(ctx context.Context, query, locale string) (ai.IntentPrediction, error)

	// Prediction is the canned result returned when ClassifyFunc is nil.
	Prediction ai.IntentPrediction

	callCount int
}

// NewMockIntentClassifier creates a mock classifier that predicts
// KNOWLEDGE_QA with high confidence by default.
func NewMockIntentClassifier() *MockIntentClassifier {
	return &MockIntentClassifier{
		Prediction: ai.IntentPrediction{Label: "KNOWLEDGE_QA", Confidence: 0.9},
	}
}

// ClassifyIntent returns the injected or canned prediction.
func (m *MockIntentClassifier) ClassifyIntent(ctx context.Context, query, locale string) (ai.IntentPrediction, error) {
	m.callCount++

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, query, locale)
	}
	return m.Prediction, nil
}

// CallCount returns the number of times ClassifyIntent was called.
func (m *MockIntentClassifier) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockIntentClassifier) Reset() {
	m.callCount = 0
	m.ClassifyFunc = nil
}
