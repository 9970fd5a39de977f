// Package scenario parses scenario command flags and runs Lua duel scripts.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	entrypoint "github.com/louisbranch/spellduel/internal/platform/cmd"
	"github.com/louisbranch/spellduel/internal/services/duel/app"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/engine"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/rules"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/spell"
	"github.com/louisbranch/spellduel/internal/services/duel/storage/sqlite"
	"github.com/louisbranch/spellduel/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	GRPCAddr   string        `env:"SPELLDUEL_DUEL_ADDR"            envDefault:"localhost:8090"`
	Scenario   string        `env:"SPELLDUEL_SCENARIO_FILE"`
	Assertions bool          `env:"SPELLDUEL_SCENARIO_ASSERT"      envDefault:"true"`
	Verbose    bool          `env:"SPELLDUEL_SCENARIO_VERBOSE"`
	Timeout    time.Duration `env:"SPELLDUEL_SCENARIO_TIMEOUT"     envDefault:"10s"`
	InProcess  bool          `env:"SPELLDUEL_SCENARIO_IN_PROCESS"`
	// DBPath stores battle records for in-process runs. Empty keeps them in memory.
	DBPath string `env:"SPELLDUEL_SCENARIO_DB_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "duel server address")
	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	fs.BoolVar(&cfg.InProcess, "inprocess", cfg.InProcess, "run against an in-process duel service instead of gRPC")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "battle record database for -inprocess runs")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}
	runnerCfg := scenario.Config{
		GRPCAddr:   cfg.GRPCAddr,
		Timeout:    cfg.Timeout,
		Assertions: mode,
		Verbose:    cfg.Verbose,
		Logger:     log.New(errOut, "", 0),
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScenario, func(ctx context.Context) error {
		runner, closeRunner, err := newRunner(ctx, cfg, runnerCfg)
		if err != nil {
			return err
		}
		defer closeRunner()

		if err := runner.RunFile(ctx, cfg.Scenario); err != nil {
			return err
		}
		if failures := runner.Failures(); failures > 0 {
			fmt.Fprintf(out, "scenario finished with %d failed expectations\n", failures)
			return nil
		}
		fmt.Fprintln(out, "scenario passed")
		return nil
	})
}

func newRunner(ctx context.Context, cfg Config, runnerCfg scenario.Config) (*scenario.Runner, func(), error) {
	if !cfg.InProcess {
		runner, err := scenario.NewRunner(ctx, runnerCfg)
		if err != nil {
			return nil, nil, err
		}
		return runner, func() { _ = runner.Close() }, nil
	}

	svc, closeStore, err := newInProcessService(cfg.DBPath, runnerCfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	runner, err := scenario.NewRunnerWithAPI(svc, runnerCfg)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return runner, closeStore, nil
}

func newInProcessService(dbPath string, logger *log.Logger) (*app.Service, func(), error) {
	duelRules, err := rules.FromEnv()
	if err != nil {
		return nil, nil, err
	}
	eng, err := engine.New(spell.DefaultCatalog(), duelRules)
	if err != nil {
		return nil, nil, fmt.Errorf("create duel engine: %w", err)
	}
	cfg := app.Config{
		Engine:          eng,
		AllowClientSeed: true,
		Logger:          logger,
	}
	closeStore := func() {}
	if dbPath != "" {
		store, err := sqlite.Open(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open duel store: %w", err)
		}
		cfg.Store = store
		closeStore = func() { _ = store.Close() }
	}
	svc, err := app.New(cfg)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("create duel service: %w", err)
	}
	return svc, closeStore, nil
}
