// Package router classifies a raw query into one of a small fixed set of
// intents by ordered keyword matching. This is a coarse heuristic, not a
// learned classifier; the first matching check wins and unmatched input
// falls through to the general intent.
package router

import (
	"strings"

	"github.com/voyago/tripgraph/travel"
)

// intentChecks are evaluated in order; the first keyword hit decides.
var intentChecks = []struct {
	intent   travel.Intent
	keywords []string
}{
	{travel.IntentItinerary, []string{"itinerary", "day plan", "trip plan", "days in", "day trip", "plan a"}},
	{travel.IntentRecommendation, []string{"recommend", "best", "top", "suggest", "should i visit"}},
	{travel.IntentFactual, []string{"what is", "tell me about", "where is", "how do", "when is"}},
}

// Classify returns exactly one intent for the query. Matching is
// case-insensitive substring containment.
func Classify(query string) travel.Intent {
	q := strings.ToLower(query)
	for _, check := range intentChecks {
		for _, kw := range check.keywords {
			if strings.Contains(q, kw) {
				return check.intent
			}
		}
	}
	return travel.IntentGeneral
}
