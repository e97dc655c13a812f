// Package sweep implements the startup sweeper (C19): at process start,
// reconcile workflows stuck in "pending" deploy status and pipeline
// executions stuck in "running" status, both left behind by a prior
// crash. Sweeping never blocks boot and swallows its own errors into logs.
package sweep

import (
	"context"
	"log/slog"
)

// Store is the narrow slice of the storage collaborator the sweeper needs.
type Store interface {
	SweepStalePendingWorkflows(ctx context.Context, maxAgeSeconds, limit int) (int, error)
	SweepStaleRunningExecutions(ctx context.Context, maxAgeSeconds, limit int) (int, error)
}

// Config bundles the sweeper's thresholds, mirroring config.PipelineConfig
// without importing it (keeps this package's dependency surface narrow).
type Config struct {
	WorkflowMaxAgeSeconds  int
	ExecutionMaxAgeSeconds int
	BatchCap               int
}

// Run executes both sweeps at startup. Each sweep's own error is logged
// and swallowed; a failure in one sweep does not prevent the other from
// running. A sweep that hits the batch cap logs a warning and leaves the
// tail for the next restart.
func Run(ctx context.Context, store Store, cfg Config) {
	sweepWorkflows(ctx, store, cfg)
	sweepExecutions(ctx, store, cfg)
}

func sweepWorkflows(ctx context.Context, store Store, cfg Config) {
	n, err := store.SweepStalePendingWorkflows(ctx, cfg.WorkflowMaxAgeSeconds, cfg.BatchCap)
	if err != nil {
		slog.Warn("sweep: failed to reconcile stale pending workflows", "error", err)
		return
	}
	if n > 0 {
		slog.Info("sweep: transitioned stale pending workflows to failed", "count", n)
	}
	if n >= cfg.BatchCap {
		slog.Warn("sweep: workflow sweep hit batch cap, tail deferred to next restart", "cap", cfg.BatchCap)
	}
}

func sweepExecutions(ctx context.Context, store Store, cfg Config) {
	n, err := store.SweepStaleRunningExecutions(ctx, cfg.ExecutionMaxAgeSeconds, cfg.BatchCap)
	if err != nil {
		slog.Warn("sweep: failed to reconcile stale running pipeline executions", "error", err)
		return
	}
	if n > 0 {
		slog.Info("sweep: transitioned stale running pipeline executions to failed", "count", n)
	}
	if n >= cfg.BatchCap {
		slog.Warn("sweep: pipeline execution sweep hit batch cap, tail deferred to next restart", "cap", cfg.BatchCap)
	}
}
