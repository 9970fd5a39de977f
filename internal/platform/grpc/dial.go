package grpc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// NewClientFunc creates a client connection without blocking on the network.
type NewClientFunc func(target string, opts ...gogrpc.DialOption) (*gogrpc.ClientConn, error)

// DialConfig describes a health-gated client connection.
type DialConfig struct {
	Addr string
	// Service is the health service to wait for. Empty checks the whole server.
	Service string
	// Timeout bounds connection setup and the health wait. Zero leaves it to ctx.
	Timeout time.Duration
	Logf    func(string, ...any)
	Options []gogrpc.DialOption
	// NewClient defaults to grpc.NewClient.
	NewClient NewClientFunc
}

// DialStage describes where a dial attempt failed.
type DialStage string

const (
	// DialStageConnect means the client could not be created.
	DialStageConnect DialStage = "connect"
	// DialStageHealth means the server never reported SERVING.
	DialStageHealth DialStage = "health"
)

// DialError reports a failed dial together with its stage.
type DialError struct {
	Addr  string
	Stage DialStage
	Err   error
}

func (e *DialError) Error() string {
	if e == nil {
		return "gRPC dial error"
	}
	if e.Addr == "" {
		return fmt.Sprintf("gRPC %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("gRPC %s %s: %v", e.Stage, e.Addr, e.Err)
}

func (e *DialError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DefaultClientDialOptions returns plaintext options with OTel client
// instrumentation, so outbound calls carry trace context once a provider is
// registered.
func DefaultClientDialOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// Dial creates a client for cfg.Addr and returns it once the health service
// reports SERVING. The connection is closed on failure.
func Dial(ctx context.Context, cfg DialConfig) (*gogrpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, &DialError{Stage: DialStageConnect, Err: fmt.Errorf("address is required")}
	}
	newClient := cfg.NewClient
	if newClient == nil {
		newClient = gogrpc.NewClient
	}
	opts := cfg.Options
	if len(opts) == 0 {
		opts = DefaultClientDialOptions()
	}

	conn, err := newClient(addr, opts...)
	if err != nil {
		return nil, &DialError{Addr: addr, Stage: DialStageConnect, Err: err}
	}

	waitCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if err := WaitForHealth(waitCtx, conn, cfg.Service, cfg.Logf); err != nil {
		_ = conn.Close()
		return nil, &DialError{Addr: addr, Stage: DialStageHealth, Err: err}
	}
	return conn, nil
}
