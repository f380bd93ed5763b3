package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/vaultqa/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client    llms.Model
	maxTokens int
	logger    *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:    client,
		maxTokens: config.MaxAnswerTokens,
		logger:    slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new answer generator using the provided
// configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Complete generates an answer from the assembled context.
func (g *Generator) Complete(ctx context.Context, input ai.GenerationInput) (ai.GenerationResult, error) {
	content := make([]llms.MessageContent, 0, len(input.History)+2)
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{llms.TextPart(input.SystemPrompt)},
	})

	for _, turn := range input.History {
		role := llms.ChatMessageTypeHuman
		if turn.Role == ai.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(turn.Text)},
		})
	}

	userText := input.Query
	if input.Evidence != "" {
		userText = fmt.Sprintf("User query: %s\n\nContext:\n%s", input.Query, input.Evidence)
	}
	content = append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(userText)},
	})

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.2),
		llms.WithMaxTokens(g.maxTokens))
	if err != nil {
		g.logger.Error("completion failed", "err", err)
		return ai.GenerationResult{}, err
	}

	if len(response.Choices) < 1 {
		return ai.GenerationResult{}, fmt.Errorf("generator returned no choices")
	}

	choice := response.Choices[0]
	result := ai.GenerationResult{
		Text:  choice.Content,
		Usage: usageFromGenerationInfo(choice.GenerationInfo),
	}

	g.logger.Debug("completion finished",
		"answerLength", len(result.Text),
		"totalTokens", result.Usage.TotalTokens)
	return result, nil
}

// usageFromGenerationInfo extracts token accounting from langchaingo's
// per-choice generation info, tolerating absent keys.
func usageFromGenerationInfo(info map[string]any) ai.Usage {
	var usage ai.Usage
	if info == nil {
		return usage
	}
	if v, ok := info["PromptTokens"].(int); ok {
		usage.PromptTokens = v
	}
	if v, ok := info["CompletionTokens"].(int); ok {
		usage.CompletionTokens = v
	}
	if v, ok := info["TotalTokens"].(int); ok {
		usage.TotalTokens = v
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}
	return usage
}
