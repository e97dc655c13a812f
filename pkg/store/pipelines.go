package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreatePipeline inserts a new pipeline row.
func (s *Store) CreatePipeline(ctx context.Context, p *Pipeline) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO pipelines (id, name, owner_address, steps, active, execution_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.OwnerAddress, p.Steps, p.Active, p.ExecutionCount, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert pipeline: %w", err)
	}
	return nil
}

// GetPipeline loads a pipeline by id, returning ErrPipelineNotFound if absent.
func (s *Store) GetPipeline(ctx context.Context, id string) (*Pipeline, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, name, owner_address, steps, active, execution_count, created_at, updated_at
		FROM pipelines WHERE id = $1`, id)
	var p Pipeline
	err := row.Scan(&p.ID, &p.Name, &p.OwnerAddress, &p.Steps, &p.Active, &p.ExecutionCount, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPipelineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get pipeline: %w", err)
	}
	return &p, nil
}

// ListPipelines returns every pipeline, most recently created first.
func (s *Store) ListPipelines(ctx context.Context) ([]Pipeline, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, owner_address, steps, active, execution_count, created_at, updated_at
		FROM pipelines ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list pipelines: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByPos[Pipeline])
}

// UpdatePipelineSteps replaces a pipeline's step configuration (PUT /pipelines/:id).
func (s *Store) UpdatePipelineSteps(ctx context.Context, id, steps string) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE pipelines SET steps = $2, updated_at = $3 WHERE id = $1`, id, steps, nowTruncated())
	if err != nil {
		return fmt.Errorf("store: update pipeline steps: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPipelineNotFound
	}
	return nil
}

// DeactivatePipeline marks a pipeline inactive (soft delete, DELETE /pipelines/:id).
func (s *Store) DeactivatePipeline(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `UPDATE pipelines SET active = FALSE, updated_at = $2 WHERE id = $1`, id, nowTruncated())
	if err != nil {
		return fmt.Errorf("store: deactivate pipeline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPipelineNotFound
	}
	return nil
}

// BumpPipelineExecutionCount is a best-effort, fire-and-forget advisory
// counter update — callers should not await its error the way they await
// the execution row transition.
func (s *Store) BumpPipelineExecutionCount(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `UPDATE pipelines SET execution_count = execution_count + 1, updated_at = $2 WHERE id = $1`, id, nowTruncated())
	if err != nil {
		return fmt.Errorf("store: bump pipeline execution count: %w", err)
	}
	return nil
}

// CreatePipelineExecution inserts a new execution row in "running" status.
func (s *Store) CreatePipelineExecution(ctx context.Context, e *PipelineExecution) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO pipeline_executions (id, pipeline_id, status, step_results, trigger_input, final_output, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.PipelineID, e.Status, e.StepResults, e.TriggerInput, e.FinalOutput, e.DurationMS, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: insert pipeline execution: %w", err)
	}
	return nil
}

// UpdatePipelineExecutionResult performs the durable, awaited terminal
// transition of an execution row: status, step results, final output, and
// duration together. This write must never be dropped.
func (s *Store) UpdatePipelineExecutionResult(ctx context.Context, id, status, stepResults string, finalOutput *string, durationMS int64) error {
	_, err := s.Pool.Exec(ctx, `
		UPDATE pipeline_executions SET status = $2, step_results = $3, final_output = $4, duration_ms = $5
		WHERE id = $1`, id, status, stepResults, finalOutput, durationMS)
	if err != nil {
		return fmt.Errorf("store: update pipeline execution result: %w", err)
	}
	return nil
}

// GetPipelineExecution loads a single execution row.
func (s *Store) GetPipelineExecution(ctx context.Context, id string) (*PipelineExecution, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, pipeline_id, status, step_results, trigger_input, final_output, duration_ms, created_at
		FROM pipeline_executions WHERE id = $1`, id)
	var e PipelineExecution
	err := row.Scan(&e.ID, &e.PipelineID, &e.Status, &e.StepResults, &e.TriggerInput, &e.FinalOutput, &e.DurationMS, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExecutionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get pipeline execution: %w", err)
	}
	return &e, nil
}

// ListPipelineExecutionHistory returns a pipeline's executions, most
// recent first, for GET /pipelines/:id/history.
func (s *Store) ListPipelineExecutionHistory(ctx context.Context, pipelineID string) ([]PipelineExecution, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, pipeline_id, status, step_results, trigger_input, final_output, duration_ms, created_at
		FROM pipeline_executions WHERE pipeline_id = $1 ORDER BY created_at DESC`, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("store: list pipeline execution history: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByPos[PipelineExecution])
}

// SweepStaleRunningExecutions transitions executions stuck in "running"
// past maxAgeSeconds to "failed", capped at limit rows.
func (s *Store) SweepStaleRunningExecutions(ctx context.Context, maxAgeSeconds int, limit int) (int, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE pipeline_executions SET status = 'failed'
		WHERE id IN (
			SELECT id FROM pipeline_executions
			WHERE status = 'running' AND created_at < now() - make_interval(secs => $1)
			ORDER BY created_at
			LIMIT $2
		)`, maxAgeSeconds, limit)
	if err != nil {
		return 0, fmt.Errorf("store: sweep stale executions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
