package main

import (
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func TestExitCode(t *testing.T) {
	if got := exitCode(nil); got != 0 {
		t.Fatalf("exitCode(nil) = %d, want 0", got)
	}
	if got := exitCode(errors.New("boom")); got != 1 {
		t.Fatalf("exitCode(boom) = %d, want 1", got)
	}
	err := exec.Command("sh", "-c", "exit 3").Run()
	if got := exitCode(err); got != 3 {
		t.Fatalf("exitCode(exit 3) = %d, want 3", got)
	}
}

func TestGetenvDefault(t *testing.T) {
	t.Setenv("SPELLDUEL_TEST_ADDR", "")
	if got := getenvDefault("SPELLDUEL_TEST_ADDR", "fallback"); got != "fallback" {
		t.Fatalf("getenvDefault = %q, want fallback", got)
	}
	t.Setenv("SPELLDUEL_TEST_ADDR", "set")
	if got := getenvDefault("SPELLDUEL_TEST_ADDR", "fallback"); got != "set" {
		t.Fatalf("getenvDefault = %q, want set", got)
	}
}

func TestSupervisedChildExit(t *testing.T) {
	child, err := startChild("true", exec.Command("sh", "-c", "exit 0"))
	if err != nil {
		t.Fatalf("startChild: %v", err)
	}
	exitCh := make(chan processExit, 1)
	go waitChild(child, exitCh)

	select {
	case exit := <-exitCh:
		if exit.name != "true" || exit.err != nil {
			t.Fatalf("exit = %+v, want clean exit", exit)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("child did not exit")
	}
}

func TestWaitForChildrenKillsOnTimeout(t *testing.T) {
	child, err := startChild("sleeper", exec.Command("sleep", "30"))
	if err != nil {
		t.Fatalf("startChild: %v", err)
	}
	waitForChildren(make(chan processExit), 1, 10*time.Millisecond, []*childProcess{child})

	if err := child.cmd.Wait(); err == nil {
		t.Fatal("expected killed child to report an error")
	}
}

func TestChildSpecsHonorEnv(t *testing.T) {
	t.Setenv("SPELLDUEL_DUEL_BIN", "/opt/duel")
	t.Setenv("SPELLDUEL_DUEL_ADDR", "duel:9000")
	t.Setenv("SPELLDUEL_MCP_HTTP_ADDR", "")

	specs := childSpecs()
	if len(specs) != 2 || specs[0].name != "duel" || specs[1].name != "mcp" {
		t.Fatalf("specs = %+v, want duel then mcp", specs)
	}
	if specs[0].path != "/opt/duel" {
		t.Fatalf("duel path = %q, want env override", specs[0].path)
	}
	args := strings.Join(specs[1].args, " ")
	if !strings.Contains(args, "-addr=duel:9000") || !strings.Contains(args, "-http-addr="+defaultMCPHTTPAddr) {
		t.Fatalf("mcp args = %q", args)
	}
}

func TestStartAllStopsStartedChildrenOnFailure(t *testing.T) {
	_, err := startAll([]childSpec{
		{name: "sleeper", path: "sleep", args: []string{"30"}},
		{name: "missing", path: "/nonexistent/spellduel-binary"},
	})
	if err == nil {
		t.Fatal("expected start failure")
	}
}
