package scenario

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.GRPCAddr != "localhost:8090" {
		t.Fatalf("expected default grpc addr, got %q", cfg.GRPCAddr)
	}
	if !cfg.Assertions {
		t.Fatal("expected assertions to default to true")
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.Timeout)
	}
	if cfg.InProcess {
		t.Fatal("expected gRPC mode by default")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("SPELLDUEL_SCENARIO_FILE", "env.lua")
	t.Setenv("SPELLDUEL_SCENARIO_ASSERT", "false")

	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-scenario", "flag.lua", "-inprocess", "-timeout", "2s"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "flag.lua" {
		t.Fatalf("expected flag scenario, got %q", cfg.Scenario)
	}
	if cfg.Assertions {
		t.Fatal("expected env to disable assertions")
	}
	if !cfg.InProcess || cfg.Timeout != 2*time.Second {
		t.Fatalf("expected flag overrides, got %+v", cfg)
	}
}

func TestRunRequiresScenario(t *testing.T) {
	if err := Run(context.Background(), Config{}, nil, nil); err == nil {
		t.Fatal("expected error for missing scenario path")
	}
}

func TestRunInProcess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lethal.lua")
	script := `
local scn = Scenario.new("lethal")
scn:duel({seed=7, player={deck={"ember_bolt"}}, enemy={health=10, spells={"spark"}}})
scn:cast("ember_bolt")
scn:expect({status="PlayerWon", record=true})
scn:records({filter="outcome = \"victory\"", count=1})
return scn
`
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	var out, errOut bytes.Buffer
	err := Run(context.Background(), Config{
		Scenario:   path,
		Assertions: true,
		Timeout:    5 * time.Second,
		InProcess:  true,
		DBPath:     filepath.Join(dir, "duel.db"),
	}, &out, &errOut)
	if err != nil {
		t.Fatalf("run: %v (stderr %q)", err, errOut.String())
	}
	if !strings.Contains(out.String(), "scenario passed") {
		t.Fatalf("stdout = %q, want a pass line", out.String())
	}
}
