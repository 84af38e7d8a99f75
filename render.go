package askagent

import (
	"fmt"
	"strings"

	"github.com/soundprediction/go-askagent/pkg/types"
)

// Display substitutes for fields the backend left out.
const (
	FallbackAnswer   = "I don't have this answer now. Please check with one of the leads."
	NoContextMessage = "No matching context."
	ScoreUnavailable = "N/A"
)

// nullSentinels are context values that mean "no context" when a backend
// stringifies its null.
var nullSentinels = []string{"none", "null", "nil", "undefined"}

// Render maps an outcome to a view. It has no side effects.
func Render(outcome types.Outcome) types.RenderedView {
	if !outcome.Succeeded() {
		reason := outcome.Reason
		if reason == "" {
			reason = "request failed"
		}
		return types.RenderedView{Kind: types.ViewError, Error: reason}
	}

	answer := outcome.Answer
	view := types.RenderedView{
		Kind:    types.ViewAnswer,
		Answer:  answer.Answer,
		Context: NoContextMessage,
		Score:   ScoreUnavailable,
	}
	if strings.TrimSpace(view.Answer) == "" {
		view.Answer = FallbackAnswer
	}
	if answer.Context != nil && !isNullSentinel(*answer.Context) {
		view.Context = *answer.Context
	}
	if answer.MatchScore != nil {
		view.Score = FormatScore(*answer.MatchScore)
	}
	return view
}

// FormatScore renders a 0..1 similarity as a percentage with two decimals.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f%%", score*100)
}

func isNullSentinel(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return true
	}
	for _, sentinel := range nullSentinels {
		if s == sentinel {
			return true
		}
	}
	return false
}
