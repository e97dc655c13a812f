// Package store is the durable storage collaborator: a narrow, opaque
// row store over Postgres for workflows, simulation executions, the
// event log, pipelines, and pipeline executions. It deliberately does not
// expose a general SQL layer — every access is a named method shaped
// around one of the core's actual read/write patterns.
package store

import "time"

// Workflow is a generated or published workflow row.
type Workflow struct {
	ID            string
	Code          string
	Config        string // JSON-encoded keyed map
	InputSchema   *string
	OutputSchema  *string
	OwnerAddress  string
	Price         int64 // 6-decimal fixed-point integer
	DeployStatus  string // "pending" | "deployed" | "failed"
	Published     bool
	Category      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Execution is one simulation run recorded against a workflow.
type Execution struct {
	ID         string
	WorkflowID string
	Success    bool
	Trace      string // JSON-encoded []trace.Step
	DurationMS int64
	CreatedAt  time.Time
}

// Event is one row of the durable append-only event log.
type Event struct {
	ID        int64
	Type      string
	Data      string // raw JSON
	CreatedAt time.Time
}

// Pipeline is a user-defined composition of workflow steps.
type Pipeline struct {
	ID             string
	Name           string
	OwnerAddress   string
	Steps          string // JSON-encoded []PipelineStepConfig
	Active         bool
	ExecutionCount int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PipelineExecution is one run of a pipeline.
type PipelineExecution struct {
	ID           string
	PipelineID   string
	Status       string // "pending" | "running" | "completed" | "failed" | "partial"
	StepResults  string // JSON-encoded []pipeline.StepResult
	TriggerInput string // JSON-encoded map
	FinalOutput  *string
	DurationMS   int64
	CreatedAt    time.Time
}
