package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid JSON unchanged",
			input: `{"route": "GENERAL", "confidence": 0.8}`,
			want:  `{"route": "GENERAL", "confidence": 0.8}`,
		},
		{
			name:  "missing opening quote on first key",
			input: `{route": "GENERAL"}`,
			want:  `{"route": "GENERAL"}`,
		},
		{
			name:  "missing opening quote after comma",
			input: `{"route": "GENERAL", confidence": 0.8}`,
			want:  `{"route": "GENERAL", "confidence": 0.8}`,
		},
		{
			name:  "underscore key",
			input: `{token_usage": 12}`,
			want:  `{"token_usage": 12}`,
		},
		{
			name:  "whitespace before key preserved",
			input: "{\n  route\": \"GENERAL\"\n}",
			want:  "{\n  \"route\": \"GENERAL\"\n}",
		},
		{
			name:  "bare word that is not a key left alone",
			input: `{broken`,
			want:  `{broken`,
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.input))
		})
	}
}

func TestRepairJSONParsable(t *testing.T) {
	repaired := repairJSON(`{route": "KNOWLEDGE_QA", confidence": 0.7, reason": "records"}`)

	var parsed struct {
		Route      string  `json:"route"`
		Confidence float32 `json:"confidence"`
		Reason     string  `json:"reason"`
	}
	require.NoError(t, json.Unmarshal([]byte(repaired), &parsed))
	assert.Equal(t, "KNOWLEDGE_QA", parsed.Route)
	assert.InDelta(t, 0.7, parsed.Confidence, 1e-6)
	assert.Equal(t, "records", parsed.Reason)
}
