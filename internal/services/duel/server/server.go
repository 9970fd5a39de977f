// Package server wires the duel runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	duelv1 "github.com/louisbranch/spellduel/api/gen/go/duel/v1"
	duelservice "github.com/louisbranch/spellduel/internal/services/duel/api/grpc/duel"
	"github.com/louisbranch/spellduel/internal/services/duel/api/grpc/metadata"
	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/engine"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/rules"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
	duelsqlite "github.com/louisbranch/spellduel/internal/services/duel/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config describes one duel server.
type Config struct {
	Addr            string
	DBPath          string
	OpponentDelay   time.Duration
	AllowClientSeed bool
	// FinishedRetention and IdleTimeout bound how long sessions stay in memory.
	FinishedRetention time.Duration
	IdleTimeout       time.Duration
	Rules             rules.Rules
	// Catalog defaults to the embedded spell catalog.
	Catalog *spell.Catalog
}

// Server hosts the DuelService gRPC API and storage lifecycle.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *duelsqlite.Store
}

// New creates a configured duel server.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "duel.db")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = spell.DefaultCatalog()
	}
	eng, err := engine.New(cfg.Catalog, cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("create duel engine: %w", err)
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	store, err := openDuelStore(cfg.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}
	svc, err := app.New(app.Config{
		Engine:            eng,
		Store:             store,
		OpponentDelay:     cfg.OpponentDelay,
		AllowClientSeed:   cfg.AllowClientSeed,
		FinishedRetention: cfg.FinishedRetention,
		IdleTimeout:       cfg.IdleTimeout,
		Logger:            log.Default(),
	})
	if err != nil {
		_ = store.Close()
		_ = listener.Close()
		return nil, fmt.Errorf("create duel service: %w", err)
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(metadata.UnaryServerInterceptor(nil)),
	)
	healthServer := health.NewServer()
	duelv1.RegisterDuelServiceServer(grpcServer, duelservice.NewService(svc))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(duelservice.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a duel server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("duel server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

// Close releases duel server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close duel store: %v", err)
		}
	}
}

func openDuelStore(path string) (*duelsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := duelsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open duel sqlite store: %w", err)
	}
	return store, nil
}
