// Package server exposes the ask and admin flows to a browser widget over
// a local HTTP gateway.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/soundprediction/go-askagent"
	"github.com/soundprediction/go-askagent/pkg/admin"
	"github.com/soundprediction/go-askagent/pkg/config"
	"github.com/soundprediction/go-askagent/pkg/server/handlers"
	"github.com/soundprediction/go-askagent/pkg/transport"
)

// Server is the gateway HTTP server
type Server struct {
	config     *config.Config
	queries    *askagent.QueryClient
	admin      *admin.Client
	logger     *slog.Logger
	router     *gin.Engine
	httpServer *http.Server
}

// New creates a gateway around the given clients
func New(cfg *config.Config, queries *askagent.QueryClient, adminClient *admin.Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:  cfg,
		queries: queries,
		admin:   adminClient,
		logger:  logger,
	}
}

// Setup builds the router and registers routes
func (s *Server) Setup() {
	gin.SetMode(s.config.Server.Mode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(accessLog(s.logger))
	if mw := s.corsMiddleware(); mw != nil {
		router.Use(mw)
	}

	health := handlers.NewHealthHandler(s.config.API.ResolveBaseURL())
	ask := handlers.NewAskHandler(s.queries)
	adm := handlers.NewAdminHandler(s.admin, s.config.Admin.KeyHeader, s.lendsConfiguredKey)

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)

	api := router.Group("/api")
	{
		api.POST("/ask", ask.Ask)

		adminGroup := api.Group("/admin")
		adminGroup.GET("/unanswered", adm.ListUnanswered)
		adminGroup.POST("/unanswered/:id/answer", adm.Answer)
		adminGroup.DELETE("/unanswered/:id", adm.Delete)
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Handler returns the router, calling Setup first if needed
func (s *Server) Handler() http.Handler {
	if s.router == nil {
		s.Setup()
	}
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

// Start listens until Stop is called
func (s *Server) Start() error {
	if s.httpServer == nil {
		s.Setup()
	}
	s.logger.Info("Gateway listening", "addr", s.httpServer.Addr, "backend", s.config.API.ResolveBaseURL())
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// lendsConfiguredKey reports whether a request from origin may use the
// configured admin key. Requests without an Origin (CLI, curl) and the
// allowed origins may; every other browser page has to send its own key.
func (s *Server) lendsConfiguredKey(origin string) bool {
	if origin == "" {
		return true
	}
	for _, o := range s.config.Server.AllowOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	origins := s.config.Server.AllowOrigins
	if len(origins) == 0 {
		return nil
	}

	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", transport.RequestIDHeader, s.config.Admin.KeyHeader}
	cfg.ExposeHeaders = []string{transport.RequestIDHeader}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
