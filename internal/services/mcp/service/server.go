package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/louisbranch/spellduel/internal/platform/discovery"
	platformgrpc "github.com/louisbranch/spellduel/internal/platform/grpc"
	"github.com/louisbranch/spellduel/internal/platform/timeouts"
	"github.com/louisbranch/spellduel/internal/services/duel/api/grpc/duel"
	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "spellduel MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
	// duelAddrEnv overrides the default DuelService address.
	duelAddrEnv = "SPELLDUEL_DUEL_ADDR"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	GRPCAddr  string
	Transport TransportKind
	// HTTPAddr is the listen address for the HTTP transport. Defaults to localhost:8091.
	HTTPAddr string
	// Locale selects the language of DuelService error messages.
	Locale string
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn
}

// New dials DuelService at grpcAddr and builds an MCP server over it.
func New(ctx context.Context, grpcAddr, locale string) (*Server, error) {
	addr := grpcAddress(grpcAddr)
	conn, err := dialDuelGRPC(ctx, addr)
	if err != nil {
		return nil, err
	}
	server := newServer(duel.NewClient(conn, locale))
	server.conn = conn
	return server, nil
}

// NewWithAPI builds an MCP server over an existing duel API, such as an
// in-process service.
func NewWithAPI(api app.API) (*Server, error) {
	if api == nil {
		return nil, errors.New("duel API is required")
	}
	return newServer(api), nil
}

func newServer(api app.API) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		Instructions: "Spell duels against an AI opponent. Start with duel_start, then cast, punch or skip until the duel status is PlayerWon or EnemyWon.",
	})
	registerDuelTools(mcpServer, api)
	registerCatalogTools(mcpServer, api)
	return &Server{mcpServer: mcpServer}
}

// Run is the service entrypoint for MCP and blocks until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithTransport creates a server and serves it over the provided transport.
func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport) error {
	server, err := New(ctx, cfg.GRPCAddr, cfg.Locale)
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

// runWithHTTPTransport creates a server and serves it over streamable HTTP.
func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg.GRPCAddr, cfg.Locale)
	if err != nil {
		return err
	}
	defer server.Close()

	healthCtx, healthCancel := context.WithCancel(ctx)
	defer healthCancel()
	go server.monitorHealth(healthCtx)

	return server.ServeHTTP(ctx, discovery.OrDefaultHTTPAddr(cfg.HTTPAddr, discovery.ServiceMCP))
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// Close releases the gRPC connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return err
	}
	s.conn = nil
	return nil
}

// serveWithTransport runs the MCP server until the transport ends. Context
// cancellation is a clean stop.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func dialDuelGRPC(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	conn, err := platformgrpc.Dial(ctx, platformgrpc.DialConfig{
		Addr:    addr,
		Service: duel.ServiceName,
		Timeout: timeouts.GRPCDial,
		Logf: func(format string, args ...any) {
			log.Printf("duel %s", fmt.Sprintf(format, args...))
		},
	})
	if err != nil {
		var dialErr *platformgrpc.DialError
		if errors.As(err, &dialErr) && dialErr.Stage == platformgrpc.DialStageHealth {
			return nil, fmt.Errorf("duel server at %s is not healthy: %w", addr, dialErr.Err)
		}
		return nil, fmt.Errorf("connect to duel server at %s: %w", addr, err)
	}
	return conn, nil
}

// grpcAddress resolves the DuelService address from the argument, then the
// environment, then the local default.
func grpcAddress(addr string) string {
	if addr = strings.TrimSpace(addr); addr != "" {
		return addr
	}
	return discovery.OrDefaultGRPCAddr(os.Getenv(duelAddrEnv), discovery.ServiceDuel)
}
