package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/codeready-toolchain/workflow-fabric/pkg/store"
)

// PipelineInfo is the narrow slice of store.Pipeline the executor needs.
type PipelineInfo struct {
	ID    string
	Steps string // JSON-encoded []StepConfig
	Active bool
}

// WorkflowInfo is the narrow slice of store.Workflow the executor needs.
type WorkflowInfo struct {
	ID           string
	Code         string
	Config       string
	InputSchema  *string
	OutputSchema *string
	Price        int64
}

// ErrPipelineNotFound is store's own sentinel re-exported, so a fake Store
// in tests can return it without importing pkg/store; ErrPipelineDeactivated
// has no store-level counterpart.
var (
	ErrPipelineNotFound    = store.ErrPipelineNotFound
	ErrPipelineDeactivated = errors.New("pipeline: deactivated")
)

// Store is the narrow storage interface the executor depends on.
type Store interface {
	GetPipeline(ctx context.Context, id string) (PipelineInfo, error)
	GetWorkflowsByIDs(ctx context.Context, ids []string) (map[string]WorkflowInfo, error)
	CreatePipelineExecution(ctx context.Context, executionID, pipelineID, triggerInputJSON string, createdAt time.Time) error
	UpdatePipelineExecutionResult(ctx context.Context, executionID string, status Status, stepResultsJSON string, finalOutputJSON *string, durationMS int64) error
	BumpPipelineExecutionCount(ctx context.Context, pipelineID string) error
}

// StoreAdapter adapts *store.Store to the executor's Store interface.
type StoreAdapter struct {
	Store *store.Store
}

func (a *StoreAdapter) GetPipeline(ctx context.Context, id string) (PipelineInfo, error) {
	p, err := a.Store.GetPipeline(ctx, id)
	if err != nil {
		return PipelineInfo{}, err
	}
	return PipelineInfo{ID: p.ID, Steps: p.Steps, Active: p.Active}, nil
}

func (a *StoreAdapter) GetWorkflowsByIDs(ctx context.Context, ids []string) (map[string]WorkflowInfo, error) {
	rows, err := a.Store.GetWorkflowsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]WorkflowInfo, len(rows))
	for id, w := range rows {
		out[id] = WorkflowInfo{
			ID:           w.ID,
			Code:         w.Code,
			Config:       w.Config,
			InputSchema:  w.InputSchema,
			OutputSchema: w.OutputSchema,
			Price:        w.Price,
		}
	}
	return out, nil
}

func (a *StoreAdapter) CreatePipelineExecution(ctx context.Context, executionID, pipelineID, triggerInputJSON string, createdAt time.Time) error {
	return a.Store.CreatePipelineExecution(ctx, &store.PipelineExecution{
		ID:           executionID,
		PipelineID:   pipelineID,
		Status:       string(StatusRunning),
		StepResults:  "[]",
		TriggerInput: triggerInputJSON,
		CreatedAt:    createdAt,
	})
}

func (a *StoreAdapter) UpdatePipelineExecutionResult(ctx context.Context, executionID string, status Status, stepResultsJSON string, finalOutputJSON *string, durationMS int64) error {
	return a.Store.UpdatePipelineExecutionResult(ctx, executionID, string(status), stepResultsJSON, finalOutputJSON, durationMS)
}

func (a *StoreAdapter) BumpPipelineExecutionCount(ctx context.Context, pipelineID string) error {
	return a.Store.BumpPipelineExecutionCount(ctx, pipelineID)
}
