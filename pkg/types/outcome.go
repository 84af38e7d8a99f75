package types

// OutcomeKind tags an Outcome.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	}
	return "unknown"
}

// Outcome is the terminal result of one exchange. Exactly one of Answer
// (success) or Reason/Err (failure) is meaningful, selected by Kind.
type Outcome struct {
	Kind   OutcomeKind
	Answer AnswerResult
	Reason string
	Err    error
}

// Success wraps a decoded answer.
func Success(answer AnswerResult) Outcome {
	return Outcome{Kind: OutcomeSuccess, Answer: answer}
}

// Failure wraps a classified transport or decode error.
func Failure(err error) Outcome {
	reason := "request failed"
	if err != nil {
		reason = err.Error()
	}
	return Outcome{Kind: OutcomeFailure, Reason: reason, Err: err}
}

// Succeeded reports whether the outcome carries an answer.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}
