// Package cmd holds startup helpers shared by spellduel commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/louisbranch/spellduel/internal/platform/config"
	"github.com/louisbranch/spellduel/internal/platform/otel"
	"github.com/louisbranch/spellduel/internal/platform/timeouts"
)

// Command names, also used as OTel service names.
const (
	ServiceDuel     = "duel"
	ServiceMCP      = "mcp"
	ServiceScenario = "scenario"
)

var knownServices = []string{ServiceDuel, ServiceMCP, ServiceScenario}

// RunOptions tunes RunWithTelemetryAndOptions.
type RunOptions struct {
	// ShutdownTimeout bounds the final span flush. Defaults to timeouts.Shutdown.
	ShutdownTimeout time.Duration
	// Logger receives start and stop lines. Defaults to the standard logger.
	Logger *log.Logger
}

// ParseConfig fills cfg from its env tags. Flags registered afterwards use
// the result as their defaults, so flags win over the environment.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags. A nil args slice parses nothing.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	return fs.Parse(append([]string{}, args...))
}

// RunWithTelemetry runs a command with tracing configured for service.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{}, run)
}

// RunWithTelemetryAndOptions is RunWithTelemetry with explicit options.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if !slices.Contains(knownServices, service) {
		return fmt.Errorf("unknown service %q", service)
	}
	if run == nil {
		return errors.New("run function is required")
	}
	logger := options.Logger
	if logger == nil {
		logger = log.Default()
	}
	shutdownTimeout := options.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = timeouts.Shutdown
	}

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return fmt.Errorf("%s telemetry: %w", service, err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Printf("%s otel shutdown: %v", service, err)
		}
	}()

	started := time.Now()
	logger.Printf("%s starting", service)
	err = run(ctx)
	logger.Printf("%s stopped after %s", service, time.Since(started).Round(time.Millisecond))
	return err
}
