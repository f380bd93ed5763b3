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
	"strings"

	"github.com/poiesic/vaultqa/ai"
	"github.com/poiesic/vaultqa/core"
)

// fallbackConfidence is reported for keyword-matched routes so callers can
// distinguish heuristic classifications from model ones.
const fallbackConfidence = 0.4

// routeSignature is one entry of the deterministic fallback table.
type routeSignature struct {
	route    core.Route
	keywords []string
}

// fallbackSignatures is priority ordered: the first signature with any
// keyword present in the lowercased query wins.
var fallbackSignatures = []routeSignature{
	{core.RoutePriceCompare, []string{"price", "buy", "compare", "cost", "rs", "budget"}},
	{core.RouteFinanceInfo, []string{"stock", "ticker", "market", "share", "finance"}},
	{core.RouteKnowledgeQA, []string{"diet", "eat", "food", "calorie", "protein", "good for me", "paneer", "my records"}},
}

// fallbackIntent classifies a query by keyword matching. No match resolves
// to GENERAL; the fallback can never produce a route outside the enumeration.
func fallbackIntent(query string) ai.IntentPrediction {
	lower := strings.ToLower(query)
	for _, sig := range fallbackSignatures {
		for _, keyword := range sig.keywords {
			if strings.Contains(lower, keyword) {
				return ai.IntentPrediction{
					Label:      sig.route.String(),
					Confidence: fallbackConfidence,
				}
			}
		}
	}
	return ai.IntentPrediction{
		Label:      core.RouteGeneral.String(),
		Confidence: fallbackConfidence,
	}
}
