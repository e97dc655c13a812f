package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/codeready-toolchain/workflow-fabric/pkg/store"
	util "github.com/codeready-toolchain/workflow-fabric/test/util"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowCRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Postgres-backed test in short mode")
	}
	s := util.SetupTestStore(t)
	ctx := context.Background()

	w := &store.Workflow{
		ID:           uuid.NewString(),
		Code:         "export const main = () => {}",
		Config:       "{}",
		OwnerAddress: "0xabc",
		Price:        1_000_000,
		DeployStatus: "pending",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.CreateWorkflow(ctx, w))

	got, err := s.GetWorkflow(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.Code, got.Code)
	assert.Equal(t, "pending", got.DeployStatus)

	_, err = s.GetWorkflow(ctx, uuid.NewString())
	assert.ErrorIs(t, err, store.ErrWorkflowNotFound)
}

func TestEventAppendAndReplay(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Postgres-backed test in short mode")
	}
	s := util.SetupTestStore(t)
	ctx := context.Background()

	var lastID int64
	for i := 0; i < 5; i++ {
		id, err := s.AppendEvent(ctx, "execution", `{"n":1}`)
		require.NoError(t, err)
		lastID = id
	}

	replay, err := s.EventsSince(ctx, lastID-2, 100)
	require.NoError(t, err)
	require.Len(t, replay, 2)
	assert.Less(t, replay[0].ID, replay[1].ID)
}

func TestSweepStaleRunningExecutions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Postgres-backed test in short mode")
	}
	s := util.SetupTestStore(t)
	ctx := context.Background()

	p := &store.Pipeline{ID: uuid.NewString(), Name: "p", OwnerAddress: "0xabc", Steps: "[]", Active: true, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	require.NoError(t, s.CreatePipeline(ctx, p))

	exec := &store.PipelineExecution{ID: uuid.NewString(), PipelineID: p.ID, Status: "running", StepResults: "[]", TriggerInput: "{}", CreatedAt: time.Now().UTC().Add(-20 * time.Minute)}
	require.NoError(t, s.CreatePipelineExecution(ctx, exec))

	n, err := s.SweepStaleRunningExecutions(ctx, 600, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.GetPipelineExecution(ctx, exec.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", got.Status)
}
