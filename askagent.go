// Package askagent is a client for a question-answering assistant backend.
// A QueryClient drives one question/answer exchange at a time and turns the
// backend reply into a render-ready view.
package askagent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/soundprediction/go-askagent/pkg/transport"
	"github.com/soundprediction/go-askagent/pkg/types"
)

// AskPath is the backend endpoint for questions.
const AskPath = "/ask"

// ErrInFlight is returned by Submit while a previous exchange is still open.
var ErrInFlight = errors.New("a question is already being processed")

// Doer performs a single backend exchange. *transport.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, r transport.Request) (*transport.Response, error)
}

// QueryClient owns the lifecycle of one outstanding question. Use one
// instance per session; it holds the in-flight flag for that session.
type QueryClient struct {
	doer     Doer
	logger   *slog.Logger
	inFlight atomic.Bool
}

// Option configures a QueryClient.
type Option func(*QueryClient)

// WithLogger sets the logger used for exchange events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *QueryClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewQueryClient returns a client that talks to the backend through doer.
func NewQueryClient(doer Doer, opts ...Option) *QueryClient {
	c := &QueryClient{
		doer:   doer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InFlight reports whether an exchange is waiting for the backend.
func (c *QueryClient) InFlight() bool {
	return c.inFlight.Load()
}

// Submit sends question to the backend and returns its outcome.
//
// The returned error is non-nil only when the submission is rejected
// without contacting the network: a types.ValidationError for an empty
// question, or ErrInFlight while another exchange is open. Every accepted
// submission yields exactly one Outcome, and transport or decode problems
// are reported through it.
func (c *QueryClient) Submit(ctx context.Context, question string) (types.Outcome, error) {
	query, err := types.NewQuery(question)
	if err != nil {
		return types.Outcome{}, err
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.DebugContext(ctx, "Submission ignored, exchange in flight")
		return types.Outcome{}, ErrInFlight
	}
	defer c.inFlight.Store(false)

	c.logger.DebugContext(ctx, "Submitting question", "question_length", len(query.QuestionText))

	resp, err := c.doer.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   AskPath,
		Query:  url.Values{"user_question": {query.QuestionText}},
		Header: http.Header{
			"Content-Type":  {"application/json"},
			"Cache-Control": {"no-cache"},
		},
	})
	if err != nil {
		c.logger.WarnContext(ctx, "Question failed", "error", err)
		return types.Failure(err), nil
	}

	answer, err := DecodeAnswer(resp.Body)
	if err != nil {
		c.logger.WarnContext(ctx, "Answer could not be decoded", "error", err)
		return types.Failure(err), nil
	}

	c.logger.InfoContext(ctx, "Question answered successfully",
		"has_answer", answer.Answer != "",
		"has_context", answer.Context != nil,
	)
	return types.Success(answer), nil
}

// Render is shorthand for the package-level Render.
func (c *QueryClient) Render(outcome types.Outcome) types.RenderedView {
	return Render(outcome)
}

// DecodeAnswer parses an ask response. Any valid JSON is accepted; fields
// of the wrong type or missing entirely are left absent. Only bodies that
// are not JSON at all are errors.
func DecodeAnswer(body []byte) (types.AnswerResult, error) {
	var raw any
	if err := transport.DecodeJSON(&transport.Response{Body: body}, &raw); err != nil {
		return types.AnswerResult{}, err
	}

	var result types.AnswerResult
	fields, ok := raw.(map[string]any)
	if !ok {
		return result, nil
	}

	if s, ok := fields["ai_answer"].(string); ok && s != "" {
		result.Answer = s
	}
	if s, ok := fields["context_used"].(string); ok && s != "" {
		result.Context = &s
	}
	if f, ok := fields["context_match_score"].(float64); ok {
		result.MatchScore = &f
	}
	return result, nil
}
