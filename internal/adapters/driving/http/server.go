package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/overlap/internal/core/domain"
	"github.com/custodia-labs/overlap/internal/logger"
)

const fallbackNGram = 3

// Server is the HTTP API server.
type Server struct {
	ports    *Ports
	settings domain.ServerSettings
	engine   *gin.Engine

	monitorInterval time.Duration
}

// NewServer creates the server and registers its routes.
func NewServer(ports *Ports, settings domain.ServerSettings) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if ports.DefaultNGram == 0 {
		ports.DefaultNGram = fallbackNGram
	}

	if !logger.IsVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger())
	engine.Use(corsMiddleware(settings.AllowedOrigins))

	s := &Server{
		ports:    ports,
		settings: settings,
		engine:   engine,
	}
	s.setupRoutes()
	return s, nil
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.handleHealth)
	if s.ports.Gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.ports.Gatherer, promhttp.HandlerOpts{})))
	}

	api := s.engine.Group("/api")
	api.Use(rateLimitMiddleware(s.settings.RateLimit))

	plagiarism := api.Group("/plagiarism")
	{
		plagiarism.POST("/score", s.handleScore)
		plagiarism.POST("/check", s.handleProgressiveCheck)
		plagiarism.POST("/quick", s.handleQuickCheck)
	}

	api.POST("/check/:id", s.handleCheckDocument)
	api.GET("/checks/history", s.handleHistory)
	api.GET("/analysis/recursive", s.handleRecursiveAnalysis)
	api.GET("/analysis/batches", s.handleBatchStats)
	api.GET("/cache/stats", s.handleCacheStats)
	api.POST("/cache/reset", s.handleCacheReset)
	api.GET("/stats", s.handleStats)

	if s.ports.Document != nil {
		documents := api.Group("/documents")
		{
			documents.POST("", s.handleUploadDocument)
			documents.GET("", s.handleListDocuments)
			documents.GET("/:id", s.handleGetDocument)
			documents.DELETE("/:id", s.handleDeleteDocument)
		}
	}

	if s.ports.Activity != nil {
		api.GET("/monitoring/events", s.handleMonitoringEvents)
		api.GET("/monitoring/stream", s.handleMonitoringStream)
	}
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.settings.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.New(logger.Writer(), "http: ", 0),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Listening on %s", s.settings.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", s.settings.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := s.settings.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		logger.Info("Shutting down HTTP server")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
