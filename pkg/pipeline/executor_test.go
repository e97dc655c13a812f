package pipeline

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/workflow-fabric/pkg/config"
	"github.com/codeready-toolchain/workflow-fabric/pkg/sandbox"
	"github.com/codeready-toolchain/workflow-fabric/pkg/trace"
)

type fakeStore struct {
	pipeline  PipelineInfo
	workflows map[string]WorkflowInfo
	updates   []fakeUpdate
}

type fakeUpdate struct {
	status      Status
	stepResults string
	finalOutput *string
}

func (f *fakeStore) GetPipeline(ctx context.Context, id string) (PipelineInfo, error) {
	if f.pipeline.ID == "" {
		return PipelineInfo{}, ErrPipelineNotFound
	}
	return f.pipeline, nil
}

func (f *fakeStore) GetWorkflowsByIDs(ctx context.Context, ids []string) (map[string]WorkflowInfo, error) {
	return f.workflows, nil
}

func (f *fakeStore) CreatePipelineExecution(ctx context.Context, executionID, pipelineID, triggerInputJSON string, createdAt time.Time) error {
	return nil
}

func (f *fakeStore) UpdatePipelineExecutionResult(ctx context.Context, executionID string, status Status, stepResultsJSON string, finalOutputJSON *string, durationMS int64) error {
	f.updates = append(f.updates, fakeUpdate{status: status, stepResults: stepResultsJSON, finalOutput: finalOutputJSON})
	return nil
}

func (f *fakeStore) BumpPipelineExecutionCount(ctx context.Context, pipelineID string) error {
	return nil
}

type fakeSim struct {
	byCode map[string]trace.Result
}

func (f *fakeSim) Run(ctx context.Context, in sandbox.Input) (trace.Result, error) {
	return f.byCode[in.Code], nil
}

type noopBus struct{}

func (noopBus) Emit(ctx context.Context, eventType string, data any, silent bool) error { return nil }

func testPipelineCfg() *config.PipelineConfig {
	return &config.PipelineConfig{
		Timeout:         2 * time.Second,
		StepTimeout:      500 * time.Millisecond,
		StepRetryDelay:   10 * time.Millisecond,
		MinRetryBudget:   10 * time.Millisecond,
		MaxStepAttempts:  2,
	}
}

func stepsJSON(t *testing.T, steps []StepConfig) string {
	t.Helper()
	b, err := json.Marshal(steps)
	require.NoError(t, err)
	return string(b)
}

// TestExecute_TwoSequentialStepsBothSucceed covers spec scenario S5: a
// two-step pipeline where step 2 consumes step 1's published output.
func TestExecute_TwoSequentialStepsBothSucceed(t *testing.T) {
	steps := []StepConfig{
		{ID: "s1", WorkflowID: "wf1", Position: 0},
		{ID: "s2", WorkflowID: "wf2", Position: 1, InputMapping: map[string]FieldSource{
			"amount": {Source: "s1", Field: "price"},
		}},
	}
	store := &fakeStore{
		pipeline:  PipelineInfo{ID: "p1", Active: true, Steps: stepsJSON(t, steps)},
		workflows: map[string]WorkflowInfo{
			"wf1": {ID: "wf1", Code: "code-1", Config: "{}", OutputSchema: ptr(`{"type":"object","properties":{"price":{"type":"string"}}}`)},
			"wf2": {ID: "wf2", Code: "code-2", Config: "{}",
				InputSchema:  ptr(`{"type":"object","properties":{"amount":{"type":"string"}}}`),
				OutputSchema: ptr(`{"type":"object","properties":{"sent":{"type":"boolean"}}}`),
			},
		},
	}
	sim := &fakeSim{byCode: map[string]trace.Result{
		"code-1": {Success: true},
		"code-2": {Success: true},
	}}

	ex := &Executor{Store: store, Bus: noopBus{}, Sim: sim, Cfg: testPipelineCfg()}

	outcome, err := ex.Execute(context.Background(), "p1", map[string]any{"trigger": true})

	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, outcome.Status)
	require.Len(t, outcome.StepResults, 2)
	assert.True(t, outcome.StepResults[0].Success)
	assert.True(t, outcome.StepResults[1].Success)
	assert.Equal(t, "price_value", outcome.StepResults[1].Input["amount"])
	assert.NotNil(t, outcome.FinalOutput)
	require.Len(t, store.updates, 1)
	assert.Equal(t, StatusCompleted, store.updates[0].status)
}

// TestExecute_FirstStepFailsSecondSkipped covers spec scenario S6: the
// first position group fails, so the second group never runs.
func TestExecute_FirstStepFailsSecondSkipped(t *testing.T) {
	steps := []StepConfig{
		{ID: "s1", WorkflowID: "wf1", Position: 0},
		{ID: "s2", WorkflowID: "wf2", Position: 1},
	}
	store := &fakeStore{
		pipeline: PipelineInfo{ID: "p1", Active: true, Steps: stepsJSON(t, steps)},
		workflows: map[string]WorkflowInfo{
			"wf1": {ID: "wf1", Code: "code-1", Config: "{}"},
			"wf2": {ID: "wf2", Code: "code-2", Config: "{}"},
		},
	}
	sim := &fakeSim{byCode: map[string]trace.Result{
		"code-1": {Success: false, Errors: []string{"boom"}},
		"code-2": {Success: true},
	}}

	ex := &Executor{Store: store, Bus: noopBus{}, Sim: sim, Cfg: testPipelineCfg()}

	outcome, err := ex.Execute(context.Background(), "p1", map[string]any{})

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, outcome.Status)
	require.Len(t, outcome.StepResults, 1)
	assert.Equal(t, "s1", outcome.StepResults[0].StepID)
	assert.False(t, outcome.StepResults[0].Success)
	assert.Nil(t, outcome.FinalOutput)
}

func TestExecute_DeactivatedPipelineReturnsError(t *testing.T) {
	store := &fakeStore{pipeline: PipelineInfo{ID: "p1", Active: false, Steps: "[]"}}
	ex := &Executor{Store: store, Bus: noopBus{}, Sim: &fakeSim{}, Cfg: testPipelineCfg()}

	_, err := ex.Execute(context.Background(), "p1", map[string]any{})

	require.Error(t, err)
}

func TestExecute_UnknownPipelineReturnsNotFound(t *testing.T) {
	store := &fakeStore{}
	ex := &Executor{Store: store, Bus: noopBus{}, Sim: &fakeSim{}, Cfg: testPipelineCfg()}

	_, err := ex.Execute(context.Background(), "missing", map[string]any{})

	require.Error(t, err)
}

func ptr(s string) *string { return &s }
