package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"sealgate/config"
	"sealgate/logging"
	"sealgate/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server exposes the router over HTTP. The internal channel is meant for
// loopback UI surfaces; the external channel is origin-gated for the
// production web app and local development only.
type Server struct {
	engine     *gin.Engine
	router     *Router
	httpServer *http.Server
	cfg        *config.Config
	logger     *logging.Logger
}

func NewServer(cfg *config.Config, router *Router, rateLimiter *middleware.RateLimiter) *Server {
	s := &Server{
		engine: gin.Default(),
		router: router,
		cfg:    cfg,
		logger: logging.GetLogger(),
	}

	s.setupRoutes(rateLimiter)
	return s
}

func (s *Server) setupRoutes(rateLimiter *middleware.RateLimiter) {
	s.engine.GET("/health", s.healthCheck)

	internal := s.engine.Group("/v1")
	{
		internal.POST("/actions", s.handleAction)
	}

	// CORS must run before the origin gate so preflight requests from
	// allow-listed origins succeed.
	external := s.engine.Group("/v1/external")
	external.Use(cors.New(cors.Config{
		AllowOrigins:  s.cfg.Security.AllowedOrigins,
		AllowMethods:  []string{"POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))
	external.Use(middleware.OriginGate(s.cfg.Security.AllowedOrigins))
	if rateLimiter != nil {
		external.Use(rateLimiter.Handler())
	}
	{
		external.POST("", s.handleExternal)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": s.cfg.Service.Name,
		"version": s.cfg.Service.Version,
	})
}

// handleAction dispatches an internal action request. The HTTP status is
// 200 even for handler failures; the error travels in the response body,
// matching the dispatch contract.
func (s *Server) handleAction(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	resp := s.router.DispatchRaw(c.Request.Context(), raw)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleExternal(c *gin.Context) {
	var msg ExternalMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed message"})
		return
	}

	resp := s.router.HandleExternal(c.Request.Context(), msg)
	if resp.Error != "" {
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Engine exposes the gin engine for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	s.logger.Startup("Starting gateway server on %s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
