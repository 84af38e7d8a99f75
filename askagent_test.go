package askagent_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soundprediction/go-askagent"
	"github.com/soundprediction/go-askagent/pkg/transport"
	"github.com/soundprediction/go-askagent/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend is a fake ask endpoint that counts the calls it receives.
type backend struct {
	*httptest.Server
	hits atomic.Int32
	last atomic.Pointer[http.Request]
}

func newBackend(t *testing.T, handler http.HandlerFunc) *backend {
	t.Helper()
	b := &backend{}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.hits.Add(1)
		b.last.Store(r.Clone(context.Background()))
		handler(w, r)
	}))
	t.Cleanup(b.Close)
	return b
}

func jsonBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func newQueryClient(t *testing.T, baseURL string) *askagent.QueryClient {
	t.Helper()
	tc, err := transport.NewClient(transport.Config{BaseURL: baseURL})
	require.NoError(t, err)
	return askagent.NewQueryClient(tc)
}

func TestSubmitIssuesOneRequest(t *testing.T) {
	b := newBackend(t, jsonBody(`{"ai_answer":"Paris"}`))
	client := newQueryClient(t, b.URL)

	outcome, err := client.Submit(context.Background(), "  What is the capital of France?  ")
	require.NoError(t, err)
	assert.True(t, outcome.Succeeded())
	assert.Equal(t, int32(1), b.hits.Load())

	req := b.last.Load()
	require.NotNil(t, req)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/ask", req.URL.Path)
	assert.Equal(t, "What is the capital of France?", req.URL.Query().Get("user_question"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", req.Header.Get("Cache-Control"))
	assert.Equal(t, int64(0), req.ContentLength)
	assert.False(t, client.InFlight())
}

func TestSubmitRejectsEmptyQuestion(t *testing.T) {
	b := newBackend(t, jsonBody(`{}`))
	client := newQueryClient(t, b.URL)

	for _, question := range []string{"", "   ", "\n\t"} {
		_, err := client.Submit(context.Background(), question)
		require.Error(t, err)

		var verr types.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "question", verr.Field)
		assert.False(t, client.InFlight())
	}
	assert.Equal(t, int32(0), b.hits.Load())
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"ai_answer":"done"}`))
	})
	client := newQueryClient(t, b.URL)

	done := make(chan types.Outcome, 1)
	go func() {
		outcome, err := client.Submit(context.Background(), "first")
		assert.NoError(t, err)
		done <- outcome
	}()

	require.Eventually(t, func() bool { return b.hits.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.True(t, client.InFlight())

	_, err := client.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, askagent.ErrInFlight)
	assert.Equal(t, int32(1), b.hits.Load())

	close(release)
	select {
	case outcome := <-done:
		assert.True(t, outcome.Succeeded())
	case <-time.After(5 * time.Second):
		t.Fatal("first submission did not complete")
	}
	assert.False(t, client.InFlight())

	_, err = client.Submit(context.Background(), "third")
	require.NoError(t, err)
	assert.Equal(t, int32(2), b.hits.Load())
}

func TestSubmitReleasesFlagOnNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := newQueryClient(t, url)
	outcome, err := client.Submit(context.Background(), "anyone there?")
	require.NoError(t, err)
	assert.False(t, outcome.Succeeded())
	assert.ErrorIs(t, outcome.Err, transport.ErrTransport)
	assert.NotEmpty(t, outcome.Reason)
	assert.False(t, client.InFlight())
}

func TestSubmitRendersFullAnswer(t *testing.T) {
	b := newBackend(t, jsonBody(`{"ai_answer":"Paris","context_used":"France facts","context_match_score":0.87}`))
	client := newQueryClient(t, b.URL)

	outcome, err := client.Submit(context.Background(), "capital of France")
	require.NoError(t, err)

	view := client.Render(outcome)
	assert.Equal(t, types.ViewAnswer, view.Kind)
	assert.Equal(t, "Paris", view.Answer)
	assert.Equal(t, "France facts", view.Context)
	assert.Equal(t, "87.00%", view.Score)
}

func TestSubmitRendersFallbacks(t *testing.T) {
	b := newBackend(t, jsonBody(`{}`))
	client := newQueryClient(t, b.URL)

	outcome, err := client.Submit(context.Background(), "unknown topic")
	require.NoError(t, err)
	require.True(t, outcome.Succeeded())

	view := askagent.Render(outcome)
	assert.Equal(t, askagent.FallbackAnswer, view.Answer)
	assert.Equal(t, askagent.NoContextMessage, view.Context)
	assert.Equal(t, "N/A", view.Score)
}

func TestSubmitServerError(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := newQueryClient(t, b.URL)

	outcome, err := client.Submit(context.Background(), "will this fail?")
	require.NoError(t, err)
	assert.False(t, outcome.Succeeded())
	assert.Contains(t, outcome.Reason, "500")

	view := askagent.Render(outcome)
	assert.True(t, view.IsError())
	assert.Contains(t, view.Error, "500")
	assert.Empty(t, view.Answer)
}

func TestSubmitMalformedBody(t *testing.T) {
	b := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Internal error <html>"))
	})
	client := newQueryClient(t, b.URL)

	outcome, err := client.Submit(context.Background(), "garbled?")
	require.NoError(t, err)
	assert.False(t, outcome.Succeeded())
	assert.ErrorIs(t, outcome.Err, transport.ErrDecode)
	assert.Contains(t, outcome.Reason, "failed to decode response")
	assert.False(t, client.InFlight())
}

func TestDecodeAnswer(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantAnswer  string
		wantContext *string
		wantScore   *float64
		shouldError bool
	}{
		{name: "null body", body: `null`},
		{name: "array body", body: `[1,2,3]`},
		{name: "empty answer string", body: `{"ai_answer":""}`},
		{name: "wrong field types", body: `{"ai_answer":42,"context_match_score":"0.9"}`},
		{
			name:        "all fields",
			body:        `{"ai_answer":"yes","context_used":"ctx","context_match_score":0}`,
			wantAnswer:  "yes",
			wantContext: ptr("ctx"),
			wantScore:   ptr(0.0),
		},
		{name: "not json", body: `{"ai_answer":`, shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := askagent.DecodeAnswer([]byte(tt.body))
			if tt.shouldError {
				require.Error(t, err)
				assert.ErrorIs(t, err, transport.ErrDecode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAnswer, got.Answer)
			assert.Equal(t, tt.wantContext, got.Context)
			assert.Equal(t, tt.wantScore, got.MatchScore)
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
