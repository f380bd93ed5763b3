package ai

// RouteLabels are the candidate labels presented to the intent classifier.
// They mirror core.Route wire names; the orchestration layer owns the mapping
// back to the closed enumeration.
var RouteLabels = []string{
	"PRICE_COMPARE",
	"FINANCE_INFO",
	"KNOWLEDGE_QA",
	"GENERAL",
	"REFUSED",
}

// IntentPrediction is the classifier's judgment for one query.
type IntentPrediction struct {
	// Label is the predicted route label, always one of RouteLabels.
	Label string

	// Confidence is the classifier's self-reported certainty in [0,1].
	Confidence float32

	// Reason is set when Label is REFUSED and explains the classifier-level
	// refusal. It is distinguishable from policy-level refusal reasons.
	Reason string
}

// MessageRole identifies the author of a conversation message.
type MessageRole string

const (
	// RoleUser marks a message authored by the human user.
	RoleUser MessageRole = "user"
	// RoleAssistant marks a message authored by the assistant.
	RoleAssistant MessageRole = "assistant"
)

// Message is one turn of conversation history passed to the generator.
type Message struct {
	Role MessageRole
	Text string
}

// GenerationInput is the assembled context for one completion call.
type GenerationInput struct {
	// SystemPrompt frames the assistant's behavior for the resolved route.
	SystemPrompt string

	// Evidence is the concatenated retrieval or tool context, empty when the
	// route gathered none.
	Evidence string

	// Query is the user's original question.
	Query string

	// History holds prior turns, oldest first.
	History []Message
}

// Usage accounts for tokens consumed by a completion call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerationResult is the output of a completion call.
type GenerationResult struct {
	Text  string
	Usage Usage
}
