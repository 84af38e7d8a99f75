package dto

// AskRequest is the widget's question submission
type AskRequest struct {
	Question string `json:"question"`
}
