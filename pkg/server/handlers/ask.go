package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/go-askagent"
	"github.com/soundprediction/go-askagent/pkg/server/dto"
)

// AskHandler forwards widget questions to the backend
type AskHandler struct {
	queries *askagent.QueryClient
}

// NewAskHandler creates a new ask handler
func NewAskHandler(queries *askagent.QueryClient) *AskHandler {
	return &AskHandler{queries: queries}
}

// Ask handles POST /api/ask. Failed exchanges are still rendered views and
// answer 200; only rejected submissions are HTTP errors.
func (h *AskHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   dto.ErrInvalidRequest,
			Message: err.Error(),
		})
		return
	}

	outcome, err := h.queries.Submit(c.Request.Context(), req.Question)
	if errors.Is(err, askagent.ErrInFlight) {
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   dto.ErrInFlight,
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, askagent.Render(outcome))
}
