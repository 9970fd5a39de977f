package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	healthPollInitial = 100 * time.Millisecond
	healthPollMax     = time.Second
	healthCallTimeout = time.Second
)

// ErrNotServing reports a health check that answered with a status other
// than SERVING.
var ErrNotServing = errors.New("service is not serving")

// CheckHealth runs one health probe against service.
func CheckHealth(ctx context.Context, conn gogrpc.ClientConnInterface, service string) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	callCtx, cancel := context.WithTimeout(ctx, healthCallTimeout)
	defer cancel()
	response, err := grpc_health_v1.NewHealthClient(conn).Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return err
	}
	if status := response.GetStatus(); status != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrNotServing, status)
	}
	return nil
}

// WaitForHealth polls service with doubling delays until it reports SERVING
// or ctx ends. logf sees each distinct failure once.
func WaitForHealth(ctx context.Context, conn gogrpc.ClientConnInterface, service string, logf func(string, ...any)) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	delay := healthPollInitial
	lastFailure := ""
	for {
		err := CheckHealth(ctx, conn, service)
		if err == nil {
			if logf != nil {
				logf("gRPC health %s is SERVING", healthTarget(service))
			}
			return nil
		}
		if logf != nil && err.Error() != lastFailure {
			logf("waiting for gRPC health %s: %v", healthTarget(service), err)
		}
		lastFailure = err.Error()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("wait for gRPC health: %w (last check: %v)", ctx.Err(), err)
		case <-timer.C:
		}
		delay = min(delay*2, healthPollMax)
	}
}

func healthTarget(service string) string {
	if service == "" {
		return "(server)"
	}
	return service
}
