package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/vaultqa/ai"
)

// MockGenerator is a test double for ai.Generator.
type MockGenerator struct {
	// CompleteFunc is called by Complete if set.
	// If nil, echoes the query with a fixed prefix.
	CompleteFunc func(ctx context.Context, input ai.GenerationInput) (ai.GenerationResult, error)

	callCount int
	lastInput ai.GenerationInput
}

// NewMockGenerator creates a mock generator with default echo behavior.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Complete returns the injected result or a deterministic echo answer.
func (m *MockGenerator) Complete(ctx context.Context, input ai.GenerationInput) (ai.GenerationResult, error) {
	m.callCount++
	m.lastInput = input

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, input)
	}

	return ai.GenerationResult{
		Text:  fmt.Sprintf("answer to: %s", input.Query),
		Usage: ai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastInput returns the input of the most recent Complete call.
func (m *MockGenerator) LastInput() ai.GenerationInput {
	return m.lastInput
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
	m.lastInput = ai.GenerationInput{}
}
