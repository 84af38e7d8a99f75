package types

import "strings"

// Query is a single question submitted by an end user.
type Query struct {
	QuestionText string `json:"question"`
}

// NewQuery trims the question and rejects it when nothing is left.
func NewQuery(question string) (Query, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return Query{}, ValidationError{Field: "question", Message: "please enter a question first"}
	}
	return Query{QuestionText: q}, nil
}

// AnswerResult is the decoded answer to a Query. Context and MatchScore are
// nil when the backend did not send them.
type AnswerResult struct {
	Answer     string   `json:"ai_answer,omitempty"`
	Context    *string  `json:"context_used,omitempty"`
	MatchScore *float64 `json:"context_match_score,omitempty"`
}

// UnansweredQuestion is a question the backend could not answer and that
// waits for an operator.
type UnansweredQuestion struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// AnsweredQuestion is the payload an operator saves for a question.
type AnsweredQuestion struct {
	Text   string `json:"text"`
	Answer string `json:"answer"`
}
