package flow

import (
	"github.com/poiesic/vaultqa/ai"
	"github.com/poiesic/vaultqa/core"
	"github.com/poiesic/vaultqa/tools"
)

// state carries one request through the pipeline. It is created per
// request and never shared; nodes mutate it in sequence.
type state struct {
	request *core.Request

	intent ai.IntentPrediction
	route  core.Route

	retrieval  *core.RetrievalResult
	toolResult *tools.ToolResult
	citations  []core.Citation
	toolCalls  []core.ToolCall

	retrievalError  string
	toolError       string
	generationError string

	answer     string
	refusal    string
	tokenUsage core.TokenUsage

	nodeTimings map[string]int64
	chunkIDs    []string
}

func newState(req *core.Request) *state {
	return &state{
		request:     req,
		route:       core.RouteGeneral,
		nodeTimings: make(map[string]int64),
	}
}

// response assembles the public result from the final state.
func (s *state) response(latencyMs int64) *core.Response {
	return &core.Response{
		Route:     s.route,
		Answer:    s.answer,
		Citations: s.citations,
		ToolCalls: s.toolCalls,
		Refusal:   s.refusal,
		Meta: core.ResponseMeta{
			LatencyMs:       latencyMs,
			TokenUsage:      s.tokenUsage,
			RetrievalError:  s.retrievalError,
			GenerationError: s.generationError,
		},
	}
}
