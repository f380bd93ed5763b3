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


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/vaultqa/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// IntentClassifier implements ai.IntentClassifier using OpenAI-compatible
// chat APIs in JSON mode.
type IntentClassifier struct {
	client llms.Model
	labels []string
	logger *slog.Logger
}

// prediction matches the JSON structure the model is instructed to return.
type prediction struct {
	Route      string  `json:"route"`
	Confidence float32 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// newIntentClassifier is an internal constructor that returns the concrete
// type. Used by Provider to manage the instance.
func newIntentClassifier(config *ai.Config) (*IntentClassifier, error) {
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

	return &IntentClassifier{
		client: client,
		labels: ai.RouteLabels,
		logger: slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewIntentClassifier creates a new intent classifier using the provided
// configuration.
//
// Returns ai.IntentClassifier interface to enforce abstraction.
func NewIntentClassifier(config *ai.Config) (ai.IntentClassifier, error) {
	return newIntentClassifier(config)
}

// ClassifyIntent classifies the query against the fixed candidate labels.
// The returned label is always a member of ai.RouteLabels; a model response
// outside the label set is reported as an error so the caller can fall back.
func (c *IntentClassifier) ClassifyIntent(ctx context.Context, query, locale string) (ai.IntentPrediction, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildIntentSystemPrompt(c.labels))},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildIntentUserPrompt(query, locale))},
		},
	}

	// Try up to 3 times in case of malformed JSON.
	var result prediction
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			c.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return ai.IntentPrediction{}, err
		}

		if len(response.Choices) < 1 {
			return ai.IntentPrediction{}, fmt.Errorf("classifier returned no choices")
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			c.logger.Warn("error parsing classifier response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		c.logger.Error("failed to parse classifier response after retries", "err", lastErr)
		return ai.IntentPrediction{}, lastErr
	}

	label := strings.ToUpper(strings.TrimSpace(result.Route))
	if !slices.Contains(c.labels, label) {
		return ai.IntentPrediction{}, fmt.Errorf("classifier returned unknown label %q", result.Route)
	}

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	return ai.IntentPrediction{
		Label:      label,
		Confidence: result.Confidence,
		Reason:     result.Reason,
	}, nil
}
