package mcp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/overlap/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

const defaultShutdownTimeout = 5 * time.Second

// Server exposes plagiarism checks and corpus analysis as MCP tools, and
// stored documents as resources when a document service is available.
type Server struct {
	ports  *Ports
	server *mcp.Server

	shutdownTimeout time.Duration
}

// NewServer creates an MCP server over the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:           ports,
		server:          mcp.NewServer(&mcp.Implementation{Name: "overlap", Version: Version}, nil),
		shutdownTimeout: defaultShutdownTimeout,
	}
	s.registerTools()
	if ports.Document != nil {
		s.registerResources()
	}
	return s, nil
}

// Run serves a single client over stdio until ctx is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("MCP: serving over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves on addr until ctx is cancelled, then shuts down within the
// shutdown timeout. A listen failure is returned immediately.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          log.New(logger.Writer(), "mcp: ", 0),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("MCP: listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		logger.Info("MCP: shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
