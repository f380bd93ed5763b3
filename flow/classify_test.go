package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/vaultqa/core"
)

func TestFallbackIntent(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  core.Route
	}{
		{"price keyword", "What is the price of basmati rice?", core.RoutePriceCompare},
		{"budget keyword", "best laptop within my budget", core.RoutePriceCompare},
		{"finance keyword", "How is the stock doing today?", core.RouteFinanceInfo},
		{"market keyword", "tell me about the market", core.RouteFinanceInfo},
		{"knowledge keyword", "Is paneer okay for dinner?", core.RouteKnowledgeQA},
		{"diet keyword", "does my diet need more protein", core.RouteKnowledgeQA},
		{"price beats finance", "compare stock broker fees", core.RoutePriceCompare},
		{"no match", "tell me a joke", core.RouteGeneral},
		{"empty query", "", core.RouteGeneral},
		{"garbage", "xzqw jklmnop vvvv", core.RouteGeneral},
		{"case insensitive", "PANEER curry tonight?", core.RouteKnowledgeQA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := fallbackIntent(tt.query)
			assert.Equal(t, tt.want.String(), pred.Label)
			assert.Equal(t, float32(fallbackConfidence), pred.Confidence)

			// The fallback can never leave the enumeration.
			assert.True(t, core.ValidRoute(core.ParseRoute(pred.Label)))
		})
	}
}
