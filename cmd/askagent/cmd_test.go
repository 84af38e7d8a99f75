package askagent

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	deleteYes = false

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := Execute(context.Background())
	return out.String(), errOut.String(), err
}

func askBackend(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestAskOneShot(t *testing.T) {
	srv, hits := askBackend(t, http.StatusOK, `{"ai_answer":"Paris","context_used":"France facts","context_match_score":0.87}`)

	out, _, err := execute(t, "", "ask", "--base-url", srv.URL, "--no-color", "What", "is", "the", "capital?")
	require.NoError(t, err)

	assert.Contains(t, out, "Paris")
	assert.Contains(t, out, "Context used: France facts")
	assert.Contains(t, out, "Similarity: 87.00%")
	assert.Equal(t, int32(1), hits.Load())
}

func TestAskOneShotFailure(t *testing.T) {
	srv, _ := askBackend(t, http.StatusInternalServerError, `oops`)

	out, stderr, err := execute(t, "", "ask", "--base-url", srv.URL, "--no-color", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, out, "Error: 500: request failed")
	assert.NotContains(t, stderr, "Error:")
}

func TestAskInteractive(t *testing.T) {
	srv, hits := askBackend(t, http.StatusOK, `{}`)

	out, _, err := execute(t, "   \nWhere?\nexit\nnever asked\n", "ask", "--base-url", srv.URL, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, emptyQuestionPrompt)
	assert.Contains(t, out, "Similarity: N/A")
	assert.Equal(t, int32(1), hits.Load())
}

type adminBackend struct {
	saved   []map[string]string
	deleted []string
	keys    []string
}

func newAdminBackend(t *testing.T) (*httptest.Server, *adminBackend) {
	t.Helper()
	b := &adminBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/unanswered/", func(w http.ResponseWriter, r *http.Request) {
		b.keys = append(b.keys, r.Header.Get("admin_key"))
		_, _ = w.Write([]byte(`[{"id":3,"text":"Who runs payroll?"},{"id":4,"text":"Where is the VPN guide?"}]`))
	})
	mux.HandleFunc("POST /admin/questions/", func(w http.ResponseWriter, r *http.Request) {
		b.keys = append(b.keys, r.Header.Get("admin_key"))
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.saved = append(b.saved, body)
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("DELETE /admin/unanswered/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.keys = append(b.keys, r.Header.Get("admin_key"))
		b.deleted = append(b.deleted, r.PathValue("id"))
		_, _ = w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, b
}

func TestAdminList(t *testing.T) {
	srv, b := newAdminBackend(t)

	out, _, err := execute(t, "", "admin", "list", "--base-url", srv.URL, "--no-color", "--admin-key", "secret")
	require.NoError(t, err)

	assert.Equal(t, "[3] Who runs payroll?\n[4] Where is the VPN guide?\n", out)
	assert.Equal(t, []string{"secret"}, b.keys)
}

func TestAdminAnswer(t *testing.T) {
	srv, b := newAdminBackend(t)

	out, _, err := execute(t, "", "admin", "answer", "4", "See", "the", "wiki",
		"--base-url", srv.URL, "--no-color", "--admin-key", "secret")
	require.NoError(t, err)

	assert.Contains(t, out, "Answer saved successfully!")
	require.Len(t, b.saved, 1)
	assert.Equal(t, map[string]string{"text": "Where is the VPN guide?", "answer": "See the wiki"}, b.saved[0])
	assert.Equal(t, []string{"4"}, b.deleted)
}

func TestAdminAnswerUnknownID(t *testing.T) {
	srv, b := newAdminBackend(t)

	_, _, err := execute(t, "", "admin", "answer", "9", "nope",
		"--base-url", srv.URL, "--no-color", "--admin-key", "secret")
	require.Error(t, err)
	assert.Empty(t, b.saved)
}

func TestAdminDelete(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		srv, b := newAdminBackend(t)

		out, _, err := execute(t, "n\n", "admin", "delete", "3",
			"--base-url", srv.URL, "--no-color", "--admin-key", "secret")
		require.NoError(t, err)
		assert.Contains(t, out, "Cancelled.")
		assert.Empty(t, b.deleted)
	})

	t.Run("confirmed", func(t *testing.T) {
		srv, b := newAdminBackend(t)

		out, _, err := execute(t, "y\n", "admin", "delete", "3",
			"--base-url", srv.URL, "--no-color", "--admin-key", "secret")
		require.NoError(t, err)
		assert.Contains(t, out, "Question deleted!")
		assert.Equal(t, []string{"3"}, b.deleted)
	})

	t.Run("yes flag", func(t *testing.T) {
		srv, b := newAdminBackend(t)

		_, _, err := execute(t, "", "admin", "delete", "3", "--yes",
			"--base-url", srv.URL, "--no-color", "--admin-key", "secret")
		require.NoError(t, err)
		assert.Equal(t, []string{"3"}, b.deleted)
	})

	t.Run("bad id", func(t *testing.T) {
		_, stderr, err := execute(t, "", "admin", "delete", "abc", "--yes", "--base-url", "http://127.0.0.1:1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid question id")
		assert.Contains(t, stderr, `Error: invalid question id "abc"`)
	})
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    dev")
}
