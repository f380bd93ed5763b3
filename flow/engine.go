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

package flow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/vaultqa/ai"
	"github.com/poiesic/vaultqa/ai/openai"
	"github.com/poiesic/vaultqa/core"
	"github.com/poiesic/vaultqa/policy"
	"github.com/poiesic/vaultqa/tools"
	"github.com/poiesic/vaultqa/trace"
	"github.com/poiesic/vaultqa/vault"
)

const (
	defaultIntentThreshold = 0.55
	defaultToolAttempts    = 3
	defaultToolBaseDelay   = 500 * time.Millisecond
)

// Engine drives a request through the node pipeline.
type Engine struct {
	gatekeeper *policy.Gatekeeper
	retriever  *vault.Retriever
	classifier ai.IntentClassifier
	generator  ai.Generator
	adapters   map[string]tools.Adapter
	emitter    trace.Emitter
	logger     *slog.Logger

	intentThreshold float32
	topK            int
	toolAttempts    int
	toolBaseDelay   time.Duration
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "flow")
		return nil
	}
}

// WithEmitter sets the trace emitter.
// Default is a log emitter.
func WithEmitter(emitter trace.Emitter) Option {
	return func(e *Engine) error {
		if emitter == nil {
			emitter = &trace.NopEmitter{}
		}
		e.emitter = emitter
		return nil
	}
}

// WithAdapter registers a tool adapter under its own name, replacing the
// default not-implemented stub.
func WithAdapter(adapter tools.Adapter) Option {
	return func(e *Engine) error {
		e.adapters[adapter.Name()] = adapter
		return nil
	}
}

// WithIntentThreshold sets the classifier confidence below which the
// deterministic keyword fallback is used.
func WithIntentThreshold(threshold float32) Option {
	return func(e *Engine) error {
		e.intentThreshold = threshold
		return nil
	}
}

// WithTopK sets the number of chunks requested from the retriever.
// Zero uses the retriever's configured default.
func WithTopK(topK int) Option {
	return func(e *Engine) error {
		e.topK = topK
		return nil
	}
}

// WithToolRetry sets the retry policy for adapter calls.
func WithToolRetry(attempts int, baseDelay time.Duration) Option {
	return func(e *Engine) error {
		e.toolAttempts = attempts
		e.toolBaseDelay = baseDelay
		return nil
	}
}

// NewEngine creates a new request pipeline engine.
func NewEngine(gatekeeper *policy.Gatekeeper, retriever *vault.Retriever, provider ai.Provider, opts ...Option) (*Engine, error) {
	if gatekeeper == nil {
		return nil, ErrGatekeeperRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}

	e := &Engine{
		gatekeeper: gatekeeper,
		retriever:  retriever,
		classifier: provider.IntentClassifier(),
		generator:  provider.Generator(),
		adapters: map[string]tools.Adapter{
			"price_compare": tools.NotImplemented("price_compare"),
			"finance_info":  tools.NotImplemented("finance_info"),
		},
		emitter:         trace.NewLogEmitter(nil),
		logger:          slog.Default().With("component", "flow"),
		intentThreshold: defaultIntentThreshold,
		toolAttempts:    defaultToolAttempts,
		toolBaseDelay:   defaultToolBaseDelay,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Run executes the pipeline for one request. A validation failure is the
// only error return; every other failure mode degrades into the response.
func (e *Engine) Run(ctx context.Context, req *core.Request) (*core.Response, error) {
	start := time.Now()
	st := newState(req)

	// INTAKE
	if err := e.timed(st, "intake", func() error {
		return core.ValidateRequest(req)
	}); err != nil {
		return nil, err
	}

	// CLASSIFY
	e.timed(st, "classify", func() error {
		e.classify(ctx, st)
		return nil
	})

	// GUARD: a denial skips evidence and generation but still traces.
	admitted := false
	e.timed(st, "guard", func() error {
		admitted = e.guard(st)
		return nil
	})

	if admitted {
		// EVIDENCE
		e.timed(st, "evidence", func() error {
			e.evidence(ctx, st)
			return nil
		})

		// GENERATE
		e.timed(st, "generate", func() error {
			e.generate(ctx, st)
			return nil
		})
	} else if st.answer == "" {
		st.answer = refusalAnswer(st.refusal)
	}

	latency := time.Since(start).Milliseconds()

	// TRACE
	e.timed(st, "trace", func() error {
		e.trace(ctx, st, latency)
		return nil
	})

	return st.response(latency), nil
}

// timed runs one node and records its duration.
func (e *Engine) timed(st *state, name string, fn func() error) error {
	nodeStart := time.Now()
	err := fn()
	st.nodeTimings[name] = time.Since(nodeStart).Milliseconds()
	return err
}

// classify resolves the route via the external classifier, falling back
// to the keyword table on failure or low confidence. A classifier-level
// REFUSED is honored regardless of confidence.
func (e *Engine) classify(ctx context.Context, st *state) {
	pred, err := e.classifier.ClassifyIntent(ctx, st.request.Query, st.request.Locale)
	if err != nil {
		e.logger.Warn("intent classification failed, using fallback", "err", err)
		pred = fallbackIntent(st.request.Query)
	} else if pred.Label != core.RouteRefused.String() && pred.Confidence < e.intentThreshold {
		e.logger.Debug("low classifier confidence, using fallback",
			"label", pred.Label, "confidence", pred.Confidence)
		pred = fallbackIntent(st.request.Query)
	}

	st.intent = pred
	st.route = core.ParseRoute(pred.Label)
	st.toolCalls = append(st.toolCalls, core.ToolCall{Tool: "intent_classifier", Status: "ok"})
}

// guard applies the policy checks. Returns false when the request is
// refused, with st.refusal set.
func (e *Engine) guard(st *state) bool {
	if st.route == core.RouteRefused {
		st.refusal = st.intent.Reason
		if st.refusal == "" {
			st.refusal = "refused_by_classifier"
		}
		return false
	}

	if decision := e.gatekeeper.Admit(st.request); !decision.Allowed {
		st.refusal = decision.Reason
		return false
	}
	if decision := e.gatekeeper.CheckRoute(st.request.TenantID, st.route); !decision.Allowed {
		st.refusal = decision.Reason
		return false
	}
	return true
}

// evidence gathers route-specific evidence. The switch is closed over the
// route enumeration; GENERAL and REFUSED gather none.
func (e *Engine) evidence(ctx context.Context, st *state) {
	switch st.route {
	case core.RouteKnowledgeQA:
		e.retrieveEvidence(ctx, st)
	case core.RoutePriceCompare, core.RouteFinanceInfo:
		e.toolEvidence(ctx, st)
	case core.RouteGeneral, core.RouteRefused:
		// No evidence node for these routes.
	}
}

func (e *Engine) retrieveEvidence(ctx context.Context, st *state) {
	result, err := e.retriever.Retrieve(ctx, st.request.TenantID, st.request.UserID, st.request.Query, e.topK)
	if err != nil {
		if errors.Is(err, vault.ErrScopeNotFound) {
			st.retrievalError = vault.ErrScopeNotFound.Error()
		} else {
			st.retrievalError = err.Error()
		}
		e.logger.Warn("retrieval failed, continuing without evidence",
			"tenantID", st.request.TenantID, "err", err)
	}
	if result == nil {
		return
	}

	st.retrieval = result
	for _, scored := range result.Chunks {
		st.chunkIDs = append(st.chunkIDs, scored.Chunk.ChunkID)
		st.citations = append(st.citations, core.Citation{
			Type:       core.CitationVault,
			Ref:        scored.Chunk.Source + "#" + scored.Chunk.ChunkID,
			Confidence: scored.Confidence,
			Method:     scored.Method.String(),
		})
	}
}

func (e *Engine) toolEvidence(ctx context.Context, st *state) {
	name := policy.ToolForRoute(st.route)
	adapter, ok := e.adapters[name]
	if !ok {
		adapter = tools.NotImplemented(name)
	}

	var result *tools.ToolResult
	err := tools.RetryWithBackoff(ctx, func() error {
		r, callErr := adapter.Call(ctx, tools.ToolQuery{
			Route:  st.route,
			Query:  st.request.Query,
			Locale: st.request.Locale,
		})
		if callErr != nil {
			return callErr
		}
		result = r
		return nil
	}, e.toolAttempts, e.toolBaseDelay)

	if err != nil {
		kind := tools.KindOf(err)
		st.toolError = string(kind)
		st.toolCalls = append(st.toolCalls, core.ToolCall{Tool: name, Status: "error", Error: string(kind)})
		e.logger.Warn("tool call failed", "tool", name, "kind", kind, "err", err)
		return
	}

	st.toolResult = result
	st.toolCalls = append(st.toolCalls, core.ToolCall{Tool: name, Status: "ok"})
	for _, item := range result.Items {
		st.citations = append(st.citations, core.Citation{
			Type:       core.CitationTool,
			Ref:        item.Ref,
			Confidence: item.Confidence,
		})
	}
}

// generate produces the answer. Tool failures become an explicit
// unavailability answer; generator failures degrade to a fallback answer
// with generationError set.
func (e *Engine) generate(ctx context.Context, st *state) {
	if st.toolError != "" {
		st.answer = toolUnavailableAnswer(st.route, st.toolError)
		return
	}

	input := ai.GenerationInput{
		SystemPrompt: openai.AnswerSystemPrompt(st.route.String()),
		Evidence:     e.evidenceText(st),
		Query:        st.request.Query,
		History:      historyMessages(st.request.History),
	}

	result, err := e.generator.Complete(ctx, input)
	if err != nil {
		st.generationError = err.Error()
		st.answer = "I couldn't generate a response right now. Please try again."
		e.logger.Error("generation failed", "tenantID", st.request.TenantID, "err", err)
		return
	}

	st.answer = result.Text
	st.tokenUsage = core.TokenUsage{
		Prompt:     result.Usage.PromptTokens,
		Completion: result.Usage.CompletionTokens,
		Total:      result.Usage.TotalTokens,
	}
}

// evidenceText renders gathered evidence for the generator input.
func (e *Engine) evidenceText(st *state) string {
	if st.retrieval != nil && len(st.retrieval.Chunks) > 0 {
		texts := make([]string, len(st.retrieval.Chunks))
		for i, scored := range st.retrieval.Chunks {
			texts[i] = scored.Chunk.Text
		}
		return strings.Join(texts, "\n---\n")
	}
	if st.toolResult != nil {
		var b strings.Builder
		for _, item := range st.toolResult.Items {
			b.WriteString(item.Title)
			b.WriteString(" (")
			b.WriteString(item.Ref)
			b.WriteString(")\n")
		}
		b.WriteString("Summary: ")
		b.WriteString(st.toolResult.Summary)
		return b.String()
	}
	return ""
}

// trace emits the audit record. Emission failures are logged and never
// fail the request.
func (e *Engine) trace(ctx context.Context, st *state, latencyMs int64) {
	record := trace.NewRecord(st.request.TenantID, st.request.UserID, st.request.SessionID)
	record.Route = st.route
	record.LatencyMs = latencyMs
	record.NodeTimings = st.nodeTimings
	record.ChunkIDs = st.chunkIDs
	record.Citations = st.citations
	record.ToolCalls = st.toolCalls
	record.Refusal = st.refusal
	record.TokenUsage = st.tokenUsage

	if err := e.emitter.Emit(ctx, record); err != nil {
		e.logger.Warn("trace emission failed", "traceID", record.TraceID, "err", err)
	}
}

func historyMessages(turns []core.Turn) []ai.Message {
	if len(turns) == 0 {
		return nil
	}
	messages := make([]ai.Message, 0, len(turns))
	for _, turn := range turns {
		role := ai.RoleUser
		if turn.Speaker == core.SpeakerTypeAI {
			role = ai.RoleAssistant
		}
		messages = append(messages, ai.Message{Role: role, Text: turn.Text})
	}
	return messages
}

// refusalAnswer maps a denial reason to user-facing text.
func refusalAnswer(reason string) string {
	switch reason {
	case policy.ReasonUnknownTenant:
		return "Your organization isn't registered with this assistant."
	case policy.ReasonRateLimited:
		return "You've reached the request limit for now. Please try again shortly."
	case policy.ReasonRouteNotAllowed:
		return "This kind of question isn't enabled for your organization."
	default:
		return "I can't help with that request."
	}
}

// toolUnavailableAnswer explains a failed agentic route instead of
// fabricating an answer from nothing.
func toolUnavailableAnswer(route core.Route, kind string) string {
	topic := "this request"
	switch route {
	case core.RoutePriceCompare:
		topic = "price comparison"
	case core.RouteFinanceInfo:
		topic = "financial information lookup"
	}
	if kind == string(tools.KindNotImplemented) {
		return "The " + topic + " capability isn't available in this environment yet."
	}
	return "The " + topic + " service is currently unavailable. Please try again later."
}
