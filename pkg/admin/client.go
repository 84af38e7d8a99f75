// Package admin implements the operator console calls: listing unanswered
// questions, answering them and deleting them.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/soundprediction/go-askagent/pkg/transport"
	"github.com/soundprediction/go-askagent/pkg/types"
)

// DefaultKeyHeader is the header every admin call carries the key under.
const DefaultKeyHeader = "admin_key"

const (
	unansweredPath = "/admin/unanswered/"
	questionsPath  = "/admin/questions/"
)

// Doer performs a single backend exchange. *transport.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, r transport.Request) (*transport.Response, error)
}

// Client talks to the privileged endpoints with a static admin key.
type Client struct {
	doer      Doer
	key       string
	keyHeader string
	logger    *slog.Logger
}

// Config holds optional Client settings.
type Config struct {
	// KeyHeader overrides DefaultKeyHeader.
	KeyHeader string
	Logger    *slog.Logger
}

// NewClient builds an admin client. The key is forwarded verbatim.
func NewClient(doer Doer, key string, cfg Config) *Client {
	if cfg.KeyHeader == "" {
		cfg.KeyHeader = DefaultKeyHeader
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Client{
		doer:      doer,
		key:       strings.TrimSpace(key),
		keyHeader: cfg.KeyHeader,
		logger:    cfg.Logger,
	}
}

// WithKey returns a copy of c that sends key instead.
func (c *Client) WithKey(key string) *Client {
	clone := *c
	clone.key = strings.TrimSpace(key)
	return &clone
}

// ListUnanswered fetches the questions waiting for an operator.
func (c *Client) ListUnanswered(ctx context.Context) ([]types.UnansweredQuestion, error) {
	if err := c.checkKey(); err != nil {
		return nil, err
	}

	resp, err := c.doer.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   unansweredPath,
		Header: c.header(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list unanswered questions: %w", err)
	}

	var questions []types.UnansweredQuestion
	if err := transport.DecodeJSON(resp, &questions); err != nil {
		return nil, fmt.Errorf("failed to list unanswered questions: %w", err)
	}
	if questions == nil {
		questions = []types.UnansweredQuestion{}
	}

	c.logger.DebugContext(ctx, "Fetched unanswered questions", "count", len(questions))
	return questions, nil
}

// SaveAnswer stores answer for q and then clears q from the pending list.
// The saved text is q.Text, so the answer is tied to this question.
// A failed cleanup is logged and does not fail the save.
func (c *Client) SaveAnswer(ctx context.Context, q types.UnansweredQuestion, answer string) error {
	if err := c.checkKey(); err != nil {
		return err
	}
	if err := ValidateAnswer(answer); err != nil {
		return err
	}
	answer = strings.TrimSpace(answer)
	if strings.TrimSpace(q.Text) == "" {
		return types.ValidationError{Field: "question", Message: "question text is empty"}
	}

	_, err := c.doer.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   questionsPath,
		Header: c.header(true),
		Body:   types.AnsweredQuestion{Text: q.Text, Answer: answer},
	})
	if err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}

	if err := c.deleteUnanswered(ctx, q.ID); err != nil {
		c.logger.WarnContext(ctx, "Answer saved but pending question was not cleared", "question_id", q.ID, "error", err)
	}

	c.logger.InfoContext(ctx, "Answer saved successfully", "question_id", q.ID)
	return nil
}

// ValidateAnswer rejects answers that are blank after trimming.
func ValidateAnswer(answer string) error {
	if strings.TrimSpace(answer) == "" {
		return types.ValidationError{Field: "answer", Message: "enter an answer before saving"}
	}
	return nil
}

// DeleteQuestion removes a pending question without answering it.
func (c *Client) DeleteQuestion(ctx context.Context, id int) error {
	if err := c.checkKey(); err != nil {
		return err
	}
	if err := c.deleteUnanswered(ctx, id); err != nil {
		return fmt.Errorf("failed to delete question %d: %w", id, err)
	}
	c.logger.InfoContext(ctx, "Question deleted successfully", "question_id", id)
	return nil
}

func (c *Client) deleteUnanswered(ctx context.Context, id int) error {
	_, err := c.doer.Do(ctx, transport.Request{
		Method: http.MethodDelete,
		Path:   unansweredPath + strconv.Itoa(id),
		Header: c.header(false),
	})
	return err
}

func (c *Client) checkKey() error {
	if c.key == "" {
		return types.ValidationError{Field: "admin key", Message: "enter your admin key"}
	}
	return nil
}

func (c *Client) header(withJSON bool) http.Header {
	h := http.Header{}
	h[c.keyHeader] = []string{c.key}
	if withJSON {
		h.Set("Content-Type", "application/json")
	}
	return h
}
