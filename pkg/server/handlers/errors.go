package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/go-askagent/pkg/server/dto"
	"github.com/soundprediction/go-askagent/pkg/transport"
	"github.com/soundprediction/go-askagent/pkg/types"
)

// writeError maps client errors to gateway responses. Backend 4xx answers
// keep their status so the widget can tell a bad key from an outage.
func writeError(c *gin.Context, err error) {
	var verr types.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   dto.ErrValidation,
			Message: verr.Message,
		})
		return
	}

	status := http.StatusBadGateway
	if code := transport.StatusCode(err); code >= 400 && code < 500 {
		status = code
	}
	c.JSON(status, dto.ErrorResponse{
		Error:   dto.ErrUpstream,
		Message: err.Error(),
		Code:    transport.StatusCode(err),
	})
}
