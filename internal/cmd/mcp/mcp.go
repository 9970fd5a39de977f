// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/spellduel/internal/platform/cmd"
	"github.com/louisbranch/spellduel/internal/platform/discovery"
	mcpservice "github.com/louisbranch/spellduel/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	Addr      string `env:"SPELLDUEL_DUEL_ADDR"      envDefault:"localhost:8090"`
	HTTPAddr  string `env:"SPELLDUEL_MCP_HTTP_ADDR"  envDefault:"localhost:8091"`
	Transport string `env:"SPELLDUEL_MCP_TRANSPORT"  envDefault:"stdio"`
	Locale    string `env:"SPELLDUEL_MCP_LOCALE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "duel server address")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Language for duel error messages, e.g. pt-BR")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		return mcpservice.Run(ctx, mcpservice.Config{
			GRPCAddr:  discovery.OrDefaultGRPCAddr(cfg.Addr, discovery.ServiceDuel),
			Transport: mcpservice.TransportKind(cfg.Transport),
			HTTPAddr:  cfg.HTTPAddr,
			Locale:    cfg.Locale,
		})
	})
}
