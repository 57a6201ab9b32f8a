// Package api exposes the projection engine over HTTP for browser front ends.
//
// Every request carries the full market and contract set; nothing is cached
// between requests.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"roi-simulator/internal/config"
	"roi-simulator/internal/logging"
	"roi-simulator/internal/scenario"
)

const requestIDHeader = "X-Request-ID"

// Server is the HTTP API server.
type Server struct {
	cfg       config.ServerConfig
	projector *scenario.Projector
	logger    zerolog.Logger
	engine    *gin.Engine
}

// NewServer creates a server with all routes and middleware registered.
func NewServer(cfg config.ServerConfig, projector *scenario.Projector, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:       cfg,
		projector: projector,
		logger:    logging.WithOperation(logger, "api"),
		engine:    gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())
	if len(cfg.AllowedOrigins) > 0 {
		s.engine.Use(cors.New(cors.Config{
			AllowOrigins: cfg.AllowedOrigins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", requestIDHeader},
			MaxAge:       12 * time.Hour,
		}))
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/policy", s.policy)
		v1.POST("/projections", s.project)
		v1.POST("/price", s.price)
	}
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info().Msg("API server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		logger := logging.WithRequestID(s.logger, requestID)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), logger))

		c.Next()

		var err error
		if last := c.Errors.Last(); last != nil {
			err = last
		}
		logging.LogAPICall(logger, c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start), err)
	}
}
