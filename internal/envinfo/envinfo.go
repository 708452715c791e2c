// Package envinfo captures a one-shot snapshot of the host environment:
// OS, shell, runtime, and the versions of tools the assistant shells out to.
package envinfo

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/fakeyudi/recap/internal/trace"
)

// probeTimeout bounds each version-probe subprocess.
const probeTimeout = 5 * time.Second

// Runner executes a probe command and returns its trimmed stdout.
// This abstraction allows mocking in tests.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// defaultRunner runs the probe as a real subprocess.
func defaultRunner(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	return strings.TrimSpace(string(out)), err
}

// Prober captures the environment context. A nil Runner uses the real
// subprocess runner.
type Prober struct {
	Runner Runner
}

// Capture probes the host once and returns the snapshot. Every probe is
// independently optional: a failed command leaves its field nil, never an
// error — absence, not failure, is the signal.
func (p *Prober) Capture(ctx context.Context) *trace.EnvironmentContext {
	runner := p.Runner
	if runner == nil {
		runner = defaultRunner
	}

	probe := func(name string, args ...string) *string {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		out, err := runner(probeCtx, name, args...)
		if err != nil || out == "" {
			return nil
		}
		// Multi-line version banners (gh --version): keep the first line.
		if idx := strings.IndexByte(out, '\n'); idx >= 0 {
			out = strings.TrimSpace(out[:idx])
		}
		return &out
	}

	env := &trace.EnvironmentContext{
		OSName:         runtime.GOOS,
		Shell:          envOr("SHELL", "unknown"),
		GoVersion:      runtime.Version(),
		GitVersion:     probe("git", "--version"),
		GHCLIVersion:   probe("gh", "--version"),
		NodeVersion:    probe("node", "--version"),
		CopilotVersion: probe("copilot", "--version"),
	}

	if v := probe("uname", "-r"); v != nil {
		env.OSVersion = *v
	}

	term := envOr("TERM_PROGRAM", envOr("TERM", "unknown"))
	env.Terminal = &term

	return env
}

// envOr reads an environment variable with a fallback for the empty case.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Capture probes the host with the default runner.
func Capture(ctx context.Context) *trace.EnvironmentContext {
	p := &Prober{}
	return p.Capture(ctx)
}
