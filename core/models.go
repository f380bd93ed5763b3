package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Route is the classified domain intent for a query.
// It is a closed enumeration; the classifier never produces values outside it.
type Route int

const (
	// RouteGeneral is the default route when no specific domain is identified.
	RouteGeneral Route = iota + 1
	// RouteKnowledgeQA answers from the user's ingested vault.
	RouteKnowledgeQA
	// RoutePriceCompare delegates to the price comparison tool.
	RoutePriceCompare
	// RouteFinanceInfo delegates to the finance lookup tool.
	RouteFinanceInfo
	// RouteRefused marks content the classifier itself refuses to handle.
	RouteRefused
)

// String returns the wire name of the route.
func (r Route) String() string {
	switch r {
	case RouteGeneral:
		return "GENERAL"
	case RouteKnowledgeQA:
		return "KNOWLEDGE_QA"
	case RoutePriceCompare:
		return "PRICE_COMPARE"
	case RouteFinanceInfo:
		return "FINANCE_INFO"
	case RouteRefused:
		return "REFUSED"
	default:
		return "UNKNOWN"
	}
}

// ParseRoute maps a wire name to a Route.
// Unknown names map to RouteGeneral rather than an error, so a misbehaving
// classifier can never introduce a route outside the enumeration.
func ParseRoute(name string) Route {
	switch name {
	case "GENERAL":
		return RouteGeneral
	case "KNOWLEDGE_QA":
		return RouteKnowledgeQA
	case "PRICE_COMPARE":
		return RoutePriceCompare
	case "FINANCE_INFO":
		return RouteFinanceInfo
	case "REFUSED":
		return RouteRefused
	default:
		return RouteGeneral
	}
}

// ValidRoute reports whether r is a member of the closed enumeration.
func ValidRoute(r Route) bool {
	return r >= RouteGeneral && r <= RouteRefused
}

// SpeakerType identifies the source of a conversation turn.
type SpeakerType int

const (
	// SpeakerTypeHuman represents a human user.
	SpeakerTypeHuman SpeakerType = iota + 1
	// SpeakerTypeAI represents an AI assistant.
	SpeakerTypeAI
)

// Turn is a single prior exchange in the conversation history.
type Turn struct {
	Speaker SpeakerType
	Text    string
}

// Request is an inbound conversational query.
// It is immutable once received; the pipeline never mutates it.
type Request struct {
	TenantID  string
	UserID    string
	SessionID string
	Query     string
	Locale    string
	History   []Turn
}

// VaultChunk is a unit of previously ingested text plus its embedding,
// scoped to a tenant/user. Chunks are created at ingest time, never mutated,
// and deleted only by an index rebuild.
type VaultChunk struct {
	Id       ID
	TenantID string
	UserID   string
	ChunkID  string
	Text     string
	Vector   []float32
	Source   string
}

// RetrievalMethod identifies how a chunk was selected.
type RetrievalMethod int

const (
	// MethodSimilarity is plain nearest-neighbor similarity search.
	MethodSimilarity RetrievalMethod = iota + 1
	// MethodMMR is maximal-marginal-relevance diversity selection.
	MethodMMR
	// MethodReranked means the external re-ranking pass reordered the result.
	MethodReranked
)

// String returns the wire name of the retrieval method.
func (m RetrievalMethod) String() string {
	switch m {
	case MethodSimilarity:
		return "similarity"
	case MethodMMR:
		return "mmr"
	case MethodReranked:
		return "reranked"
	default:
		return "unknown"
	}
}

// ScoredChunk is a retrieved chunk with its normalized confidence and the
// method that selected it.
type ScoredChunk struct {
	Chunk      *VaultChunk
	Confidence float32
	Method     RetrievalMethod
}

// RetrievalResult is the ordered output of the retrieval engine.
// AvgConfidence is the arithmetic mean across returned chunks, 0 when empty.
type RetrievalResult struct {
	Chunks        []ScoredChunk
	AvgConfidence float32
}

// CitationType distinguishes vault evidence from tool evidence.
type CitationType int

const (
	// CitationVault references an ingested vault chunk.
	CitationVault CitationType = iota + 1
	// CitationTool references a tool result source.
	CitationTool
)

// String returns the wire name of the citation type.
func (t CitationType) String() string {
	switch t {
	case CitationVault:
		return "vault"
	case CitationTool:
		return "tool"
	default:
		return "unknown"
	}
}

// Citation points at a piece of evidence backing the answer.
type Citation struct {
	Type       CitationType
	Ref        string
	Confidence float32
	Method     string
}

// ToolCall records one adapter invocation for the response metadata.
type ToolCall struct {
	Tool   string
	Status string
	Error  string
}

// TokenUsage accounts for tokens consumed by the generation call.
type TokenUsage struct {
	Prompt     int
	Completion int
	Total      int
}

// ResponseMeta carries per-request diagnostics surfaced to the caller.
// RetrievalError and GenerationError are degradation markers, not faults:
// the request still produced a well-formed answer.
type ResponseMeta struct {
	LatencyMs       int64
	TokenUsage      TokenUsage
	RetrievalError  string
	GenerationError string
}

// Response is the public result of one request through the pipeline.
// Refusal is set for policy denials and classifier-level refusals; Answer is
// always populated otherwise, possibly with a degraded fallback.
type Response struct {
	Route     Route
	Answer    string
	Citations []Citation
	ToolCalls []ToolCall
	Refusal   string
	Meta      ResponseMeta
}
