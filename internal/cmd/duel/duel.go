// Package duel parses duel command flags and starts the DuelService runtime.
package duel

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/spellduel/internal/platform/cmd"
	"github.com/louisbranch/spellduel/internal/services/duel/domain/rules"
	"github.com/louisbranch/spellduel/internal/services/duel/server"
)

// Config holds duel command configuration.
type Config struct {
	Port              int           `env:"SPELLDUEL_DUEL_PORT"               envDefault:"8090"`
	Addr              string        `env:"SPELLDUEL_DUEL_LISTEN_ADDR"`
	DBPath            string        `env:"SPELLDUEL_DUEL_DB_PATH"            envDefault:"data/duel.db"`
	OpponentDelay     time.Duration `env:"SPELLDUEL_OPPONENT_DELAY"          envDefault:"0s"`
	AllowClientSeed   bool          `env:"SPELLDUEL_ALLOW_CLIENT_SEED"       envDefault:"true"`
	FinishedRetention time.Duration `env:"SPELLDUEL_DUEL_FINISHED_RETENTION" envDefault:"10m"`
	IdleTimeout       time.Duration `env:"SPELLDUEL_DUEL_IDLE_TIMEOUT"       envDefault:"1h"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The duel server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The duel server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the battle record database")
	fs.DurationVar(&cfg.OpponentDelay, "opponent-delay", cfg.OpponentDelay, "Delay before the opponent takes its turn")
	fs.BoolVar(&cfg.AllowClientSeed, "allow-client-seed", cfg.AllowClientSeed, "Honor seeds supplied by clients")
	fs.DurationVar(&cfg.FinishedRetention, "finished-retention", cfg.FinishedRetention, "How long a settled duel stays readable")
	fs.DurationVar(&cfg.IdleTimeout, "idle-timeout", cfg.IdleTimeout, "Evict duels untouched for this long")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.OpponentDelay < 0 {
		return Config{}, fmt.Errorf("opponent delay must not be negative")
	}
	if cfg.FinishedRetention < 0 || cfg.IdleTimeout < 0 {
		return Config{}, fmt.Errorf("session retention must not be negative")
	}
	return cfg, nil
}

// listenAddr returns the configured listen address.
func (cfg Config) listenAddr() string {
	if cfg.Addr != "" {
		return cfg.Addr
	}
	return fmt.Sprintf(":%d", cfg.Port)
}

// Run starts the duel API service.
func Run(ctx context.Context, cfg Config) error {
	duelRules, err := rules.FromEnv()
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDuel, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			Addr:              cfg.listenAddr(),
			DBPath:            cfg.DBPath,
			OpponentDelay:     cfg.OpponentDelay,
			AllowClientSeed:   cfg.AllowClientSeed,
			FinishedRetention: cfg.FinishedRetention,
			IdleTimeout:       cfg.IdleTimeout,
			Rules:             duelRules,
		})
	})
}
