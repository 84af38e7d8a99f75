package admin

import (
	"context"
	"fmt"
	"sync"

	"github.com/soundprediction/go-askagent/pkg/types"
)

// Board is the locally rendered list of pending questions. Entries leave
// the board only after the server confirms the answer or delete.
type Board struct {
	client *Client

	mu        sync.Mutex
	questions []types.UnansweredQuestion
}

// NewBoard returns an empty board backed by client.
func NewBoard(client *Client) *Board {
	return &Board{client: client}
}

// Load replaces the board with the server's current list.
func (b *Board) Load(ctx context.Context) ([]types.UnansweredQuestion, error) {
	questions, err := b.client.ListUnanswered(ctx)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.questions = questions
	b.mu.Unlock()

	return b.Questions(), nil
}

// Questions returns a copy of the current list.
func (b *Board) Questions() []types.UnansweredQuestion {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]types.UnansweredQuestion, len(b.questions))
	copy(out, b.questions)
	return out
}

// Find looks up a listed question by id.
func (b *Board) Find(id int) (types.UnansweredQuestion, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, q := range b.questions {
		if q.ID == id {
			return q, true
		}
	}
	return types.UnansweredQuestion{}, false
}

// Answer saves answer for the listed question id and drops it from the board.
func (b *Board) Answer(ctx context.Context, id int, answer string) error {
	q, ok := b.Find(id)
	if !ok {
		return unknownQuestion(id)
	}
	if err := b.client.SaveAnswer(ctx, q, answer); err != nil {
		return err
	}
	b.remove(id)
	return nil
}

// Delete removes the listed question id on the server and from the board.
func (b *Board) Delete(ctx context.Context, id int) error {
	if _, ok := b.Find(id); !ok {
		return unknownQuestion(id)
	}
	if err := b.client.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	b.remove(id)
	return nil
}

func (b *Board) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, q := range b.questions {
		if q.ID == id {
			b.questions = append(b.questions[:i], b.questions[i+1:]...)
			return
		}
	}
}

func unknownQuestion(id int) error {
	return types.ValidationError{Field: "question id", Message: fmt.Sprintf("question %d is not listed", id)}
}
