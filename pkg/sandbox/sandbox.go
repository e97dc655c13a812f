// Package sandbox implements the simulation sandbox (C13): a bounded-
// concurrency subprocess runner that materializes generated workflow
// source into a temp directory, links a cached dependency tree, spawns
// the external simulator CLI with capped stdout/stderr and a per-phase
// timeout, and parses its output into a typed trace.
//
// State machine: ADMISSION -> MATERIALIZE -> DEP_READY -> SIMULATE ->
// PARSE -> RETURN, where every failure after ADMISSION returns a
// trace.Result{Success:false} rather than an error — except a missing CLI
// binary, surfaced as ErrCLINotFound. An admission failure (ctx done
// before a slot frees) is also returned as an error.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/codeready-toolchain/workflow-fabric/pkg/semaphore"
	"github.com/codeready-toolchain/workflow-fabric/pkg/trace"
)

// ErrCLINotFound is surfaced to the caller rather than folded into a
// Result{Success:false}.
var ErrCLINotFound = errors.New("sandbox: simulator CLI binary not found")

// projectManifest names the two runtime dependencies every simulated
// workflow is linked against.
const projectManifest = `{
  "name": "simulated-workflow",
  "private": true,
  "dependencies": {
    "@chainlink/cre-sdk": "*",
    "zod": "*"
  }
}
`

// Input is one simulation request.
type Input struct {
	Code       string
	ConfigJSON string
}

// Runner is the narrow process-spawning interface the sandbox depends on,
// letting tests substitute a fake instead of a real subprocess.
type Runner interface {
	// LinkDeps links (or copies) the pre-populated dependency cache into
	// dir. A non-nil error means the fast path failed; Install is then
	// attempted as a fallback.
	LinkDeps(dir string) error
	// Install runs the dependency install command in dir, bounded by
	// ctx's deadline. stderrHead is at most 500 bytes on non-zero exit.
	Install(ctx context.Context, dir string) (exitCode int, stderrHead string, err error)
	// Simulate spawns the simulator CLI in dir with env appended to the
	// process environment, bounded by ctx's deadline, and returns raw
	// stdout/stderr and the process exit code. err distinguishes a launch
	// failure (binary missing) from a clean non-zero exit.
	Simulate(ctx context.Context, dir string, env []string) (stdout, stderr string, exitCode int, err error)
}

// Config bounds the sandbox's resource usage.
type Config struct {
	MaxConcurrent     int
	DepInstallTimeout time.Duration
	SimulatorTimeout  time.Duration
	StdoutCapBytes    int
	StderrCapBytes    int
	SecretEnv         []string
}

// Sandbox runs simulations under a bounded-concurrency semaphore.
type Sandbox struct {
	runner Runner
	cfg    Config
	sem    *semaphore.Semaphore
}

// New constructs a Sandbox bounding concurrent simulations at
// cfg.MaxConcurrent.
func New(runner Runner, cfg Config) *Sandbox {
	return &Sandbox{runner: runner, cfg: cfg, sem: semaphore.New(cfg.MaxConcurrent)}
}

// Run executes one simulation end to end. The temp directory is removed
// and the semaphore slot released on every exit path, including a panic
// unwind, via defer.
func (s *Sandbox) Run(ctx context.Context, in Input) (trace.Result, error) {
	if err := s.sem.Acquire(ctx); err != nil {
		return trace.Result{}, fmt.Errorf("sandbox: admission: %w", err)
	}
	defer s.sem.Release()

	dir, err := os.MkdirTemp("", "workflow-sim-*")
	if err != nil {
		return trace.Result{Success: false, Errors: []string{"failed to create sandbox directory: " + err.Error()}}, nil
	}
	defer cleanup(dir)

	if err := s.materialize(dir, in); err != nil {
		return trace.Result{Success: false, Errors: []string{err.Error()}}, nil
	}

	if err := s.ensureDeps(ctx, dir); err != nil {
		return trace.Result{Success: false, Errors: []string{err.Error()}}, nil
	}

	return s.simulate(ctx, dir)
}

func (s *Sandbox) materialize(dir string, in Input) error {
	if err := os.WriteFile(filepath.Join(dir, "workflow.ts"), []byte(in.Code), 0o644); err != nil {
		return fmt.Errorf("failed to write workflow source: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(in.ConfigJSON), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(projectManifest), 0o644); err != nil {
		return fmt.Errorf("failed to write project manifest: %w", err)
	}
	return nil
}

// ensureDeps attempts the fast-path cache link first, falling back to a
// bounded install on failure.
func (s *Sandbox) ensureDeps(ctx context.Context, dir string) error {
	if err := s.runner.LinkDeps(dir); err == nil {
		return nil
	}

	installCtx, cancel := context.WithTimeout(ctx, s.cfg.DepInstallTimeout)
	defer cancel()

	exitCode, stderrHead, err := s.runner.Install(installCtx, dir)
	if err != nil {
		return fmt.Errorf("dependency install failed to run: %w", err)
	}
	if exitCode != 0 {
		return fmt.Errorf("dependency install exited %d: %s", exitCode, stderrHead)
	}
	return nil
}

func (s *Sandbox) simulate(ctx context.Context, dir string) (trace.Result, error) {
	simCtx, cancel := context.WithTimeout(ctx, s.cfg.SimulatorTimeout)
	defer cancel()

	stdout, stderr, exitCode, err := s.runner.Simulate(simCtx, dir, s.cfg.SecretEnv)
	if err != nil {
		if errors.Is(err, ErrCLINotFound) {
			return trace.Result{}, ErrCLINotFound
		}
		return trace.Result{Success: false, Errors: []string{"simulator failed to launch: " + err.Error()}}, nil
	}

	stdout = capOutput(stdout, s.cfg.StdoutCapBytes)
	stderr = capOutput(stderr, s.cfg.StderrCapBytes)
	combined := stdout
	if stderr != "" {
		combined += "\n" + stderr
	}

	result := trace.Parse(combined)
	result.RawOutput = combined
	if exitCode != 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("simulator exited with code %d", exitCode))
	}
	result.Success = exitCode == 0 && len(result.Errors) == 0

	var total int64
	for _, step := range result.Steps {
		if step.DurationMS != nil {
			total += *step.DurationMS
		}
	}
	result.DurationMS = total

	return result, nil
}

const truncationMarker = "\n...[truncated]"

func capOutput(s string, capBytes int) string {
	if capBytes <= 0 || len(s) <= capBytes {
		return s
	}
	return s[:capBytes] + truncationMarker
}

func cleanup(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("sandbox: failed to remove temp directory", "dir", dir, "error", err)
	}
}
