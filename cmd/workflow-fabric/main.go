// Command workflow-fabric runs the workflow factory HTTP server: the
// generation pipeline, simulation sandbox, and pipeline orchestrator
// behind a single Echo API, wired to Postgres-backed storage.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/codeready-toolchain/workflow-fabric/pkg/api"
	"github.com/codeready-toolchain/workflow-fabric/pkg/codegen"
	"github.com/codeready-toolchain/workflow-fabric/pkg/config"
	"github.com/codeready-toolchain/workflow-fabric/pkg/events"
	"github.com/codeready-toolchain/workflow-fabric/pkg/generation"
	"github.com/codeready-toolchain/workflow-fabric/pkg/metrics"
	"github.com/codeready-toolchain/workflow-fabric/pkg/pipeline"
	"github.com/codeready-toolchain/workflow-fabric/pkg/sandbox"
	"github.com/codeready-toolchain/workflow-fabric/pkg/store"
	"github.com/codeready-toolchain/workflow-fabric/pkg/sweep"
	"github.com/codeready-toolchain/workflow-fabric/pkg/validator"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("could not load .env file, continuing with existing environment", "path", envPath, "error", err)
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg.Simulation.CRECLIPath = getEnv("CRE_CLI_PATH", cfg.Simulation.CRECLIPath)
	cfg.Simulation.DepCachePath = getEnv("CRE_DEP_CACHE_PATH", cfg.Simulation.DepCachePath)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(ctx, cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("connected to storage and applied migrations")

	sweep.Run(ctx, st, sweep.Config{
		WorkflowMaxAgeSeconds:  int(cfg.Pipeline.WorkflowSweepMaxAge.Seconds()),
		ExecutionMaxAgeSeconds: int(cfg.Pipeline.StartupSweepMaxAge.Seconds()),
		BatchCap:               cfg.Pipeline.SweepBatchCap,
	})

	bus := events.New(&events.StoreLog{Store: st})

	llmClient := codegen.NewAnthropicClient(cfg.LLM.AnthropicAPIKey, anthropic.Model(defaultAnthropicModel))
	typeChecker := validator.ExecTypeChecker{BinaryPath: getEnv("TSC_PATH", "tsc")}
	orchestrator := generation.New(llmClient, typeChecker, cfg.Generation, cfg.Simulation.TypeCheckTimeout)

	sb := sandbox.New(sandbox.ExecRunner{
		CLIPath:      cfg.Simulation.CRECLIPath,
		DepCachePath: cfg.Simulation.DepCachePath,
	}, sandbox.Config{
		MaxConcurrent:     cfg.Simulation.MaxConcurrent,
		DepInstallTimeout: cfg.Simulation.DepInstallTimeout,
		SimulatorTimeout:  cfg.Simulation.SimulatorTimeout,
		StdoutCapBytes:    cfg.Simulation.StdoutCapBytes,
		StderrCapBytes:    cfg.Simulation.StderrCapBytes,
		SecretEnv:         cfg.LLM.SecretEnv(),
	})

	executor := &pipeline.Executor{
		Store: &pipeline.StoreAdapter{Store: st},
		Bus:   bus,
		Sim:   sb,
		Cfg:   cfg.Pipeline,
	}

	reg := metrics.New(prometheus.DefaultRegisterer)

	server := api.NewServer(cfg, st, orchestrator, sb, executor, bus, reg)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.Port)
		if err := server.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		slog.Error("HTTP server failed", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
