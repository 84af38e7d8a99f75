package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/go-askagent/pkg/admin"
	"github.com/soundprediction/go-askagent/pkg/server/dto"
	"github.com/soundprediction/go-askagent/pkg/types"
)

// AdminHandler proxies the operator console calls
type AdminHandler struct {
	client    *admin.Client
	keyHeader string
	trusted   func(origin string) bool
}

// NewAdminHandler creates a new admin handler. A key sent by the browser
// under keyHeader replaces the configured one for that request. The
// configured key is only used for requests whose Origin passes trusted.
func NewAdminHandler(client *admin.Client, keyHeader string, trusted func(origin string) bool) *AdminHandler {
	if keyHeader == "" {
		keyHeader = admin.DefaultKeyHeader
	}
	if trusted == nil {
		trusted = func(origin string) bool { return origin == "" }
	}
	return &AdminHandler{client: client, keyHeader: keyHeader, trusted: trusted}
}

// ListUnanswered handles GET /api/admin/unanswered
func (h *AdminHandler) ListUnanswered(c *gin.Context) {
	questions, err := h.clientFor(c).ListUnanswered(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UnansweredList{
		Questions: questions,
		Total:     len(questions),
	})
}

// Answer handles POST /api/admin/unanswered/:id/answer
//
// The saved text always comes from the backend list, so an answer cannot
// be filed under a different question than the id it clears.
func (h *AdminHandler) Answer(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}

	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   dto.ErrInvalidRequest,
			Message: err.Error(),
		})
		return
	}
	if err := admin.ValidateAnswer(req.Answer); err != nil {
		writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	board := admin.NewBoard(h.clientFor(c))
	if _, err := board.Load(ctx); err != nil {
		writeError(c, err)
		return
	}

	q, listed := board.Find(id)
	if text := strings.TrimSpace(req.Text); listed && text != "" && text != strings.TrimSpace(q.Text) {
		writeError(c, types.ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("question %d is listed as %q", id, q.Text),
		})
		return
	}

	if err := board.Answer(ctx, id, req.Answer); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{
		Success: true,
		Message: "answer saved",
		Data:    dto.QuestionRef{ID: q.ID, Text: q.Text},
	})
}

// Delete handles DELETE /api/admin/unanswered/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := questionID(c)
	if !ok {
		return
	}

	if err := h.clientFor(c).DeleteQuestion(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Result{
		Success: true,
		Message: "question deleted",
		Data:    dto.QuestionRef{ID: id},
	})
}

// clientFor picks the key for this request. Untrusted origins get an
// empty key unless they send their own, which fails before any I/O.
func (h *AdminHandler) clientFor(c *gin.Context) *admin.Client {
	if key := strings.TrimSpace(c.GetHeader(h.keyHeader)); key != "" {
		return h.client.WithKey(key)
	}
	if h.trusted(c.GetHeader("Origin")) {
		return h.client
	}
	return h.client.WithKey("")
}

func questionID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   dto.ErrInvalidRequest,
			Message: "question id must be a non-negative integer",
		})
		return 0, false
	}
	return id, true
}
