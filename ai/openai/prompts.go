package openai

import (
	"fmt"
	"strings"
)

const intentSystemTemplate = `You are an intent classifier for a multi-domain assistant.
Decide the best route among: %s.
Return ONLY JSON matching this shape, no prose:
{"route": "<one of the labels>", "confidence": <0.0-1.0>, "reason": "<only for REFUSED>"}

Guidelines:
- PRICE_COMPARE: ecommerce pricing comparisons, budgets, shopping.
- FINANCE_INFO: tickers, stocks, markets, quotes, indicators. Info only.
- KNOWLEDGE_QA: questions answerable from the user's own ingested records
  (foods, meals, health constraints, personal notes).
- GENERAL: anything else that is safe to answer generically.
- REFUSED: content you must not handle; set a short reason.

The confidence field reflects how certain you are of the route.`

const intentUserTemplate = `Query: %s
Locale: %s`

// buildIntentSystemPrompt renders the classifier system prompt for the given
// candidate labels.
func buildIntentSystemPrompt(labels []string) string {
	return fmt.Sprintf(intentSystemTemplate, strings.Join(labels, ", "))
}

// buildIntentUserPrompt renders the classifier user prompt.
func buildIntentUserPrompt(query, locale string) string {
	if locale == "" {
		locale = "en"
	}
	return fmt.Sprintf(intentUserTemplate, query, locale)
}

const rerankSystemPrompt = `You score how relevant a passage is to a query.
Return ONLY JSON, no prose: {"scores": [<0.0-1.0 per passage, in order>]}
Score 1.0 for a passage that directly answers the query, 0.0 for an unrelated one.`

// buildRerankUserPrompt renders the scoring prompt for a query and its
// candidate passages. Long passages are truncated to keep the call cheap.
func buildRerankUserPrompt(query string, passages []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %s\n\nPassages:\n", query)
	for i, p := range passages {
		if len(p) > 500 {
			p = p[:500]
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return b.String()
}

const groundedAnswerSystem = `You are a careful assistant answering from the user's own records.
- Always use the provided context to respect the user's constraints.
- Do NOT diagnose, prescribe, or give financial advice.
- If the context does not cover the question, say so plainly.
- Keep answers concise and practical.`

const generalAnswerSystem = `You are a helpful assistant. Answer the user's question concisely and
accurately. Do not give financial, medical, or purchasing advice.`

const toolAnswerSystem = `You summarize structured tool results for the user.
- Present the result faithfully; do not invent data points.
- Keep the answer short and cite the listed sources by name.`

// AnswerSystemPrompt returns the generation system prompt for a route label.
func AnswerSystemPrompt(route string) string {
	switch route {
	case "KNOWLEDGE_QA":
		return groundedAnswerSystem
	case "PRICE_COMPARE", "FINANCE_INFO":
		return toolAnswerSystem
	default:
		return generalAnswerSystem
	}
}
