package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"azure-devops-mcp-server/internal/domain"
)

// ServerName is the implementation name announced during initialization.
const ServerName = "azure-devops-mcp-server"

const shutdownTimeout = 5 * time.Second

// Server is the main MCP server implementation.
// It owns the protocol server, registers the enabled tools once and serves
// them over the configured transport.
type Server struct {
	mcp        *server.MCPServer
	config     *domain.Config
	logger     *StructuredLogger
	registered []string
}

// NewServer creates the protocol server and registers every tool of router
// that is not in disabled.
func NewServer(config *domain.Config, router *ToolRouter, disabled domain.ToolSet, version string, logger *StructuredLogger) *Server {
	if logger == nil {
		logger = NewDiscardLogger()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	return &Server{
		mcp:        mcpServer,
		config:     config,
		logger:     logger,
		registered: router.Configure(mcpServer, disabled),
	}
}

// MCPServer exposes the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Registered returns the registered tool names in registration order.
func (s *Server) Registered() []string {
	return s.registered
}

// Run serves until ctx is cancelled or the transport ends.
func (s *Server) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	transport := s.config.Transport.Type
	s.logger.LogInfo("server started", map[string]interface{}{
		"transport_type": transport,
		"tools":          len(s.registered),
	})

	var err error
	switch transport {
	case "http":
		err = s.serveHTTP(ctx)
	default:
		err = s.serveStdio(ctx, stdin, stdout)
	}

	if err != nil {
		s.logger.LogError("server stopped", err, map[string]interface{}{
			"transport_type": transport,
		})
		return err
	}
	s.logger.LogInfo("server shutting down", nil)
	return nil
}

func (s *Server) serveStdio(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Slog().Handler(), slog.LevelError))

	err := stdio.Listen(ctx, stdin, stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport failed: %w", err)
	}
	return nil
}

// serveHTTP serves the SSE transport on the configured host and port.
func (s *Server) serveHTTP(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Transport.HTTP.Host, s.config.Transport.HTTP.Port)

	sse := server.NewSSEServer(
		s.mcp,
		server.WithBaseURL("http://"+addr),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()

	s.logger.LogInfo("listening", map[string]interface{}{"address": addr})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http transport failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http transport: %w", err)
		}
		return nil
	}
}
