package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/poiesic/vaultqa/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// RelevanceScorer implements ai.RelevanceScorer using OpenAI-compatible chat
// APIs. It plays the role a cross-encoder would in a heavier stack: one cheap
// call scores every candidate passage against the query.
type RelevanceScorer struct {
	client llms.Model
	logger *slog.Logger
}

// scoreResponse matches the JSON structure the model is instructed to return.
type scoreResponse struct {
	Scores []float32 `json:"scores"`
}

// newRelevanceScorer is an internal constructor that returns the concrete
// type. Used by Provider to manage the instance.
func newRelevanceScorer(config *ai.Config) (*RelevanceScorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &RelevanceScorer{
		client: client,
		logger: slog.Default().With("component", "openai-scorer"),
	}, nil
}

// NewRelevanceScorer creates a new relevance scorer using the provided
// configuration.
//
// Returns ai.RelevanceScorer interface to enforce abstraction.
func NewRelevanceScorer(config *ai.Config) (ai.RelevanceScorer, error) {
	return newRelevanceScorer(config)
}

// ScoreRelevance returns one score in [0,1] per passage, in input order.
func (r *RelevanceScorer) ScoreRelevance(ctx context.Context, query string, passages []string) ([]float32, error) {
	if len(passages) == 0 {
		return []float32{}, nil
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(rerankSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildRerankUserPrompt(query, passages))},
		},
	}

	response, err := r.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		r.logger.Error("relevance scoring failed", "passages", len(passages), "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		return nil, fmt.Errorf("scorer returned no choices")
	}

	responseText := stripCodeFences(response.Choices[0].Content)
	responseText = repairJSON(responseText)

	var parsed scoreResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		r.logger.Warn("error parsing scorer response", "response", responseText, "err", err)
		return nil, err
	}

	if len(parsed.Scores) != len(passages) {
		return nil, fmt.Errorf("scorer returned %d scores for %d passages", len(parsed.Scores), len(passages))
	}

	for i, s := range parsed.Scores {
		if s < 0 {
			parsed.Scores[i] = 0
		}
		if s > 1 {
			parsed.Scores[i] = 1
		}
	}
	return parsed.Scores, nil
}
