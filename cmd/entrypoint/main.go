// Package main runs the duel server and the MCP bridge in one container.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"
)

const (
	// duelPort is the DuelService port inside the container.
	duelPort = "8090"
	// defaultDuelAddr is the DuelService address dialed by the MCP bridge.
	defaultDuelAddr = "127.0.0.1:" + duelPort
	// defaultMCPHTTPAddr is the MCP HTTP bind address for container use.
	defaultMCPHTTPAddr = "0.0.0.0:8091"
)

// shutdownTimeout is the grace period before forcing child exit.
const shutdownTimeout = 10 * time.Second

// childProcess describes a managed child command.
type childProcess struct {
	name string
	cmd  *exec.Cmd
}

// processExit reports a child process exit result.
type processExit struct {
	name string
	err  error
}

// childSpec names a binary to supervise and its arguments.
type childSpec struct {
	name string
	path string
	args []string
}

// childSpecs returns the duel server followed by the MCP bridge that dials it.
func childSpecs() []childSpec {
	return []childSpec{
		{
			name: "duel",
			path: getenvDefault("SPELLDUEL_DUEL_BIN", "/app/duel"),
			args: []string{"-port=" + duelPort},
		},
		{
			name: "mcp",
			path: getenvDefault("SPELLDUEL_MCP_BIN", "/app/mcp"),
			args: []string{
				"-transport=http",
				"-http-addr=" + getenvDefault("SPELLDUEL_MCP_HTTP_ADDR", defaultMCPHTTPAddr),
				"-addr=" + getenvDefault("SPELLDUEL_DUEL_ADDR", defaultDuelAddr),
			},
		},
	}
}

// main starts the duel server and MCP HTTP bridge, then supervises them.
func main() {
	log.SetPrefix("[ENTRYPOINT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	children, err := startAll(childSpecs())
	if err != nil {
		log.Fatalf("failed to start children: %v", err)
	}
	exitCh := make(chan processExit, len(children))
	for _, child := range children {
		go waitChild(child, exitCh)
	}

	select {
	case <-ctx.Done():
		log.Printf("shutdown signal received, stopping %d children", len(children))
		terminateChildren(children)
		waitForChildren(exitCh, len(children), shutdownTimeout, children)
	case exit := <-exitCh:
		log.Printf("%s exited: %v", exit.name, exit.err)
		terminateChildren(children)
		waitForChildren(exitCh, len(children)-1, shutdownTimeout, children)
		os.Exit(exitCode(exit.err))
	}
}

// startAll starts specs in order. A failure stops the children already running.
func startAll(specs []childSpec) ([]*childProcess, error) {
	children := make([]*childProcess, 0, len(specs))
	for _, spec := range specs {
		child, err := startChild(spec.name, exec.Command(spec.path, spec.args...))
		if err != nil {
			terminateChildren(children)
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// startChild starts a child process with inherited stdio streams.
func startChild(name string, cmd *exec.Cmd) (*childProcess, error) {
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	return &childProcess{name: name, cmd: cmd}, nil
}

// waitChild waits for a child process and reports its exit.
func waitChild(child *childProcess, exitCh chan<- processExit) {
	err := child.cmd.Wait()
	exitCh <- processExit{name: child.name, err: err}
}

// terminateChildren sends SIGTERM to all child processes.
func terminateChildren(children []*childProcess) {
	for _, child := range children {
		if child == nil || child.cmd == nil || child.cmd.Process == nil {
			continue
		}
		_ = child.cmd.Process.Signal(syscall.SIGTERM)
	}
}

// waitForChildren waits for the remaining exits or forces shutdown.
func waitForChildren(exitCh <-chan processExit, remaining int, timeout time.Duration, children []*childProcess) {
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for remaining > 0 {
		select {
		case <-exitCh:
			remaining--
		case <-timer.C:
			forceKill(children)
			return
		}
	}
}

// forceKill sends SIGKILL to any child still running.
func forceKill(children []*childProcess) {
	for _, child := range children {
		if child == nil || child.cmd == nil || child.cmd.Process == nil {
			continue
		}
		if child.cmd.ProcessState != nil {
			continue
		}
		_ = child.cmd.Process.Kill()
	}
}

// exitCode derives a process exit code from a wait error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return 1
}

// getenvDefault returns the env value or a fallback when unset.
func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
