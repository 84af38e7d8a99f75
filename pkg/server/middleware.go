package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soundprediction/go-askagent/pkg/transport"
	"github.com/soundprediction/go-askagent/pkg/types"
)

// requestID tags each request with an id, reusing the caller's when sent.
// The id and the gateway source travel in the request context to the
// backend call.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(transport.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := types.WithRequestID(c.Request.Context(), id)
		ctx = types.WithRequestSource(ctx, types.SourceGateway)
		c.Request = c.Request.WithContext(ctx)
		c.Header(transport.RequestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelDebug
		if c.Writer.Status() >= 500 {
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "Gateway request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
