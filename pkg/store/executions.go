package store

import (
	"context"
	"fmt"
)

// CreateExecution persists one simulation run against a workflow.
func (s *Store) CreateExecution(ctx context.Context, e *Execution) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO executions (id, workflow_id, success, trace, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.WorkflowID, e.Success, e.Trace, e.DurationMS, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: insert execution: %w", err)
	}
	return nil
}
