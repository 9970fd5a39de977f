package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	platformgrpc "github.com/louisbranch/spellduel/internal/platform/grpc"
	"github.com/louisbranch/spellduel/internal/platform/timeouts"
	"github.com/louisbranch/spellduel/internal/services/duel/api/grpc/duel"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const healthMonitorInterval = 30 * time.Second

// ServeHTTP listens on addr and serves MCP over streamable HTTP until ctx ends.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.serveHTTP(ctx, listener)
}

func (s *Server) serveHTTP(ctx context.Context, listener net.Listener) error {
	if s == nil || s.mcpServer == nil {
		_ = listener.Close()
		return fmt.Errorf("MCP server is not configured")
	}
	httpServer := &http.Server{
		Handler:           s.httpHandler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	log.Printf("MCP HTTP server listening on %s", listener.Addr())

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

// httpHandler routes /mcp to the streamable transport and exposes a health probe.
func (s *Server) httpHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil))
	mux.HandleFunc("/mcp/health", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.checkDuelHealth(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// checkDuelHealth probes DuelService. A server without a connection is backed
// by an in-process API and is always healthy.
func (s *Server) checkDuelHealth(ctx context.Context) error {
	if s.conn == nil {
		return nil
	}
	callCtx, cancel := context.WithTimeout(ctx, timeouts.HealthCheck)
	defer cancel()
	if err := platformgrpc.CheckHealth(callCtx, s.conn, duel.ServiceName); err != nil {
		return fmt.Errorf("duel health check failed: %w", err)
	}
	return nil
}

// monitorHealth logs DuelService health failures while HTTP keeps serving.
// Individual tool calls surface their own errors.
func (s *Server) monitorHealth(ctx context.Context) {
	ticker := time.NewTicker(healthMonitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.checkDuelHealth(ctx); err != nil {
				log.Printf("%v", err)
			}
		}
	}
}
