package dto

import "github.com/soundprediction/go-askagent/pkg/types"

// UnansweredList is the pending question list
type UnansweredList struct {
	Questions []types.UnansweredQuestion `json:"questions"`
	Total     int                        `json:"total"`
}

// AnswerRequest saves an answer for the question in the URL. Text is
// optional; when sent it must match the listed question.
type AnswerRequest struct {
	Text   string `json:"text,omitempty"`
	Answer string `json:"answer"`
}

// QuestionRef identifies the question an admin call acted on
type QuestionRef struct {
	ID   int    `json:"id"`
	Text string `json:"text,omitempty"`
}
