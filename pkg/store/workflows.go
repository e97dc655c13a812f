package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateWorkflow inserts a new workflow row.
func (s *Store) CreateWorkflow(ctx context.Context, w *Workflow) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO workflows (id, code, config, input_schema, output_schema, owner_address, price, deploy_status, published, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		w.ID, w.Code, w.Config, w.InputSchema, w.OutputSchema, w.OwnerAddress, w.Price, w.DeployStatus, w.Published, w.Category, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert workflow: %w", err)
	}
	return nil
}

// GetWorkflow loads a workflow by id, returning ErrWorkflowNotFound if absent.
func (s *Store) GetWorkflow(ctx context.Context, id string) (*Workflow, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, code, config, input_schema, output_schema, owner_address, price, deploy_status, published, category, created_at, updated_at
		FROM workflows WHERE id = $1`, id)
	return scanWorkflow(row)
}

// GetWorkflowsByIDs batch-loads workflows for pipeline work-plan construction.
func (s *Store) GetWorkflowsByIDs(ctx context.Context, ids []string) (map[string]*Workflow, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, code, config, input_schema, output_schema, owner_address, price, deploy_status, published, category, created_at, updated_at
		FROM workflows WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("store: batch load workflows: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*Workflow, len(ids))
	for rows.Next() {
		w, err := scanWorkflowRows(rows)
		if err != nil {
			return nil, err
		}
		out[w.ID] = w
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: batch load workflows: %w", err)
	}
	return out, nil
}

// ListPublishedWorkflows returns every published workflow, most recently
// created first — the candidate pool GET /pipelines/suggest scans to
// propose compatible step chains.
func (s *Store) ListPublishedWorkflows(ctx context.Context) ([]*Workflow, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, code, config, input_schema, output_schema, owner_address, price, deploy_status, published, category, created_at, updated_at
		FROM workflows WHERE published = TRUE ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list published workflows: %w", err)
	}
	defer rows.Close()

	var out []*Workflow
	for rows.Next() {
		w, err := scanWorkflowRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list published workflows: %w", err)
	}
	return out, nil
}

// UpdateWorkflowDeployStatus transitions a workflow's deploy_status, used
// both by normal publish flows and by the startup sweeper.
func (s *Store) UpdateWorkflowDeployStatus(ctx context.Context, id, status string) error {
	_, err := s.Pool.Exec(ctx, `UPDATE workflows SET deploy_status = $2, updated_at = $3 WHERE id = $1`, id, status, nowTruncated())
	if err != nil {
		return fmt.Errorf("store: update workflow deploy status: %w", err)
	}
	return nil
}

// SweepStalePendingWorkflows transitions workflows stuck in "pending" past
// maxAgeSeconds to "failed", capped at limit rows. Returns the number of
// rows transitioned.
func (s *Store) SweepStalePendingWorkflows(ctx context.Context, maxAgeSeconds int, limit int) (int, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE workflows SET deploy_status = 'failed', updated_at = $1
		WHERE id IN (
			SELECT id FROM workflows
			WHERE deploy_status = 'pending' AND updated_at < $1 - make_interval(secs => $2)
			ORDER BY updated_at
			LIMIT $3
		)`, nowTruncated(), maxAgeSeconds, limit)
	if err != nil {
		return 0, fmt.Errorf("store: sweep stale workflows: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanWorkflow(row pgx.Row) (*Workflow, error) {
	var w Workflow
	err := row.Scan(&w.ID, &w.Code, &w.Config, &w.InputSchema, &w.OutputSchema, &w.OwnerAddress, &w.Price, &w.DeployStatus, &w.Published, &w.Category, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrWorkflowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan workflow: %w", err)
	}
	return &w, nil
}

func scanWorkflowRows(rows pgx.Rows) (*Workflow, error) {
	var w Workflow
	err := rows.Scan(&w.ID, &w.Code, &w.Config, &w.InputSchema, &w.OutputSchema, &w.OwnerAddress, &w.Price, &w.DeployStatus, &w.Published, &w.Category, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: scan workflow row: %w", err)
	}
	return &w, nil
}
