package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/louisbranch/spellduel/internal/platform/discovery"
	platformgrpc "github.com/louisbranch/spellduel/internal/platform/grpc"
	"github.com/louisbranch/spellduel/internal/platform/timeouts"
	"github.com/louisbranch/spellduel/internal/services/duel/api/grpc/duel"
	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"google.golang.org/grpc"
)

const defaultStepTimeout = 10 * time.Second

// Config controls scenario execution.
type Config struct {
	GRPCAddr   string
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
	// Locale selects the language of DuelService error messages.
	Locale string
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		GRPCAddr:   discovery.DefaultGRPCAddr(discovery.ServiceDuel),
		Timeout:    defaultStepTimeout,
		Assertions: AssertionStrict,
	}
}

// Runner executes Lua scenarios against a duel API.
type Runner struct {
	api        app.API
	conn       *grpc.ClientConn
	assertions *Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
}

// NewRunner connects to DuelService and prepares a scenario runner.
func NewRunner(ctx context.Context, cfg Config) (*Runner, error) {
	if cfg.GRPCAddr == "" {
		return nil, errors.New("grpc address is required")
	}

	conn, err := platformgrpc.Dial(ctx, platformgrpc.DialConfig{
		Addr:    cfg.GRPCAddr,
		Service: duel.ServiceName,
		Timeout: timeouts.GRPCDial,
	})
	if err != nil {
		return nil, fmt.Errorf("dial gRPC: %w", err)
	}

	r, err := NewRunnerWithAPI(duel.NewClient(conn, cfg.Locale), cfg)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	r.conn = conn
	return r, nil
}

// NewRunnerWithAPI builds a Runner over an existing duel API, such as an
// in-process service.
func NewRunnerWithAPI(api app.API, cfg Config) (*Runner, error) {
	if api == nil {
		return nil, errors.New("duel API is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultStepTimeout
	}

	return &Runner{
		api:        api,
		assertions: &Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
	}, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// Failures reports how many expectations failed in log-only mode.
func (r *Runner) Failures() int {
	return r.assertions.Failures
}

// RunFile loads and executes a scenario file against DuelService.
func RunFile(ctx context.Context, cfg Config, path string) error {
	runner, err := NewRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()
	return runner.RunFile(ctx, path)
}

// RunFile loads and executes a scenario file.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return r.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps in order.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	state := &scenarioState{}

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
