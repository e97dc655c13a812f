package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codeready-toolchain/workflow-fabric/pkg/apierrors"
	"github.com/codeready-toolchain/workflow-fabric/pkg/config"
	"github.com/codeready-toolchain/workflow-fabric/pkg/events"
	"github.com/codeready-toolchain/workflow-fabric/pkg/sandbox"
	"github.com/codeready-toolchain/workflow-fabric/pkg/schema"
	"github.com/codeready-toolchain/workflow-fabric/pkg/trace"
)

// EventBus is the narrow slice of *events.Bus the executor depends on.
type EventBus interface {
	Emit(ctx context.Context, eventType string, data any, silent bool) error
}

// Simulator is the narrow slice of *sandbox.Sandbox a step execution uses.
type Simulator interface {
	Run(ctx context.Context, in sandbox.Input) (trace.Result, error)
}

// Executor runs pipelines: position-grouped, parallel within a position,
// sequential across positions, with per-step retry and a pipeline-level
// deadline.
type Executor struct {
	Store   Store
	Bus     EventBus
	Sim     Simulator
	Cfg     *config.PipelineConfig
}

// stepOutputs is a mutex-guarded map published to by writers and read by
// later position groups, scoped to a single execution — no cross-
// execution visibility.
type stepOutputs struct {
	mu   sync.RWMutex
	data map[string]map[string]any
}

func newStepOutputs() *stepOutputs {
	return &stepOutputs{data: make(map[string]map[string]any)}
}

func (s *stepOutputs) get(stepID string) (map[string]any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[stepID]
	return v, ok
}

func (s *stepOutputs) set(stepID string, output map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[stepID] = output
}

// Execute runs one pipeline end to end (C17). A panic after the execution
// row is created is converted into a best-effort failed status update on
// that row before being re-raised.
func (e *Executor) Execute(ctx context.Context, pipelineID string, triggerInput map[string]any) (outcome Outcome, err error) {
	pipelineInfo, err := e.Store.GetPipeline(ctx, pipelineID)
	if errors.Is(err, ErrPipelineNotFound) {
		return Outcome{}, apierrors.New(apierrors.PipelineNotFound, "pipeline not found")
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("pipeline: load pipeline: %w", err)
	}
	if !pipelineInfo.Active {
		return Outcome{}, apierrors.New(apierrors.PipelineDeactivated, "pipeline is deactivated")
	}

	var steps []StepConfig
	if err := json.Unmarshal([]byte(pipelineInfo.Steps), &steps); err != nil {
		return Outcome{}, apierrors.New(apierrors.PipelineExecutionFailed, "malformed pipeline step configuration: "+err.Error())
	}

	workflowIDs := make([]string, 0, len(steps))
	for _, s := range steps {
		workflowIDs = append(workflowIDs, s.WorkflowID)
	}
	workflows, err := e.Store.GetWorkflowsByIDs(ctx, workflowIDs)
	if err != nil {
		return Outcome{}, fmt.Errorf("pipeline: load workflows: %w", err)
	}

	executionID := uuid.New().String()
	triggerJSON, _ := json.Marshal(triggerInput)
	createdAt := time.Now().UTC()
	if err := e.Store.CreatePipelineExecution(ctx, executionID, pipelineID, string(triggerJSON), createdAt); err != nil {
		return Outcome{}, fmt.Errorf("pipeline: create execution row: %w", err)
	}

	e.emit(ctx, events.TypePipelineStarted, map[string]any{"executionId": executionID, "pipelineId": pipelineID})

	// Deadline clock starts here, after storage load and before work-plan
	// construction: a deliberately retained behavior (see DESIGN.md open
	// question decisions), so slow bookkeeping above can eat into a
	// step's effective budget.
	start := time.Now()
	deadline := start.Add(e.Cfg.Timeout)

	defer func() {
		if r := recover(); r != nil {
			elapsed := time.Since(start)
			e.safetyNetUpdate(ctx, executionID, elapsed)
			panic(r)
		}
	}()

	results, status := e.runGroups(ctx, executionID, steps, workflows, triggerInput, deadline)

	elapsed := time.Since(start)
	finalOutput := lastSuccessfulOutput(results)

	stepResultsJSON, _ := json.Marshal(results)
	var finalOutputJSON *string
	if finalOutput != nil {
		b, _ := json.Marshal(finalOutput)
		s := string(b)
		finalOutputJSON = &s
	}

	if uerr := e.Store.UpdatePipelineExecutionResult(ctx, executionID, status, string(stepResultsJSON), finalOutputJSON, elapsed.Milliseconds()); uerr != nil {
		err = fmt.Errorf("pipeline: durable execution status update failed: %w", uerr)
	}

	go func() {
		bgCtx := context.Background()
		if berr := e.Store.BumpPipelineExecutionCount(bgCtx, pipelineID); berr != nil {
			// Best-effort advisory counter; intentionally not awaited or
			// propagated.
			_ = berr
		}
	}()

	if status == StatusFailed {
		e.emit(ctx, events.TypePipelineFailed, map[string]any{"executionId": executionID, "status": status})
	} else {
		e.emit(ctx, events.TypePipelineCompleted, map[string]any{"executionId": executionID, "status": status})
	}

	return Outcome{
		ExecutionID: executionID,
		Status:      status,
		StepResults: results,
		FinalOutput: finalOutput,
		DurationMS:  elapsed.Milliseconds(),
	}, err
}

func (e *Executor) safetyNetUpdate(ctx context.Context, executionID string, elapsed time.Duration) {
	_ = e.Store.UpdatePipelineExecutionResult(context.Background(), executionID, StatusFailed, "[]", nil, elapsed.Milliseconds())
}

// runGroups executes each position group in order, skipping all remaining
// groups once a group fails or the deadline has elapsed.
func (e *Executor) runGroups(ctx context.Context, executionID string, steps []StepConfig, workflows map[string]WorkflowInfo, triggerInput map[string]any, deadline time.Time) ([]StepResult, Status) {
	groups := groupByPosition(steps)
	outputs := newStepOutputs()

	var allResults []StepResult
	failed := false

	for _, group := range groups {
		if failed || time.Now().After(deadline) {
			failed = true
			break
		}

		groupResults := make([]StepResult, len(group))
		var wg sync.WaitGroup
		for i, sc := range group {
			wg.Add(1)
			go func(i int, sc StepConfig) {
				defer wg.Done()
				groupResults[i] = e.runStep(ctx, executionID, sc, workflows[sc.WorkflowID], triggerInput, outputs, deadline)
			}(i, sc)
		}
		wg.Wait()

		for _, r := range groupResults {
			allResults = append(allResults, r)
			if r.Success {
				outputs.set(r.StepID, r.Output)
			} else {
				failed = true
			}
		}
	}

	return allResults, computeStatus(allResults)
}

func computeStatus(results []StepResult) Status {
	if len(results) == 0 {
		return StatusCompleted
	}
	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	switch {
	case succeeded == len(results):
		return StatusCompleted
	case succeeded == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

func lastSuccessfulOutput(results []StepResult) map[string]any {
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].Success {
			return results[i].Output
		}
	}
	return nil
}

func groupByPosition(steps []StepConfig) [][]StepConfig {
	byPos := make(map[int][]StepConfig)
	for _, s := range steps {
		byPos[s.Position] = append(byPos[s.Position], s)
	}
	positions := make([]int, 0, len(byPos))
	for p := range byPos {
		positions = append(positions, p)
	}
	sort.Ints(positions)

	out := make([][]StepConfig, len(positions))
	for i, p := range positions {
		out[i] = byPos[p]
	}
	return out
}

func (e *Executor) emit(ctx context.Context, eventType string, data any) {
	if e.Bus == nil {
		return
	}
	if err := e.Bus.Emit(ctx, eventType, data, false); err != nil {
		// Emission is durable-first (pkg/events); a broadcast-only issue
		// never blocks the executor's own control flow.
		_ = err
	}
}

// runStep computes the step's input, merges it over the workflow's
// configured defaults, and attempts up to Cfg.MaxStepAttempts executions
// with a retry delay between them, bounded by the pipeline deadline.
func (e *Executor) runStep(ctx context.Context, executionID string, sc StepConfig, wf WorkflowInfo, triggerInput map[string]any, outputs *stepOutputs, deadline time.Time) StepResult {
	e.emit(ctx, events.TypeStepStarted, map[string]any{"executionId": executionID, "stepId": sc.ID})

	input := e.computeInput(sc, wf, triggerInput, outputs)
	configJSON := mergeConfig(wf.Config, input)

	maxAttempts := e.Cfg.MaxStepAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	start := time.Now()
	var result trace.Result
	var runErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			runErr = errors.New("pipeline: step deadline exceeded")
			break
		}
		perCall := e.Cfg.StepTimeout
		if remaining < perCall {
			perCall = remaining
		}

		callCtx, cancel := context.WithTimeout(ctx, perCall)
		result, runErr = e.Sim.Run(callCtx, sandbox.Input{Code: wf.Code, ConfigJSON: configJSON})
		cancel()

		if runErr == nil && result.Success {
			break
		}

		lastAttempt := attempt == maxAttempts-1
		if lastAttempt {
			break
		}
		if time.Until(deadline) < e.Cfg.StepRetryDelay+e.Cfg.MinRetryBudget {
			break
		}
		time.Sleep(e.Cfg.StepRetryDelay)
	}

	durationMS := time.Since(start).Milliseconds()
	success := runErr == nil && result.Success

	sr := StepResult{
		StepID:     sc.ID,
		WorkflowID: sc.WorkflowID,
		Success:    success,
		Input:      input,
		DurationMS: durationMS,
	}

	if success {
		outSchema := parseSchemaOrEmpty(wf.OutputSchema)
		sr.Output = synthesizeOutput(outSchema, true)
		e.emit(ctx, events.TypeStepCompleted, map[string]any{"executionId": executionID, "stepId": sc.ID, "output": sr.Output})
	} else {
		sr.Error = stepErrorMessage(runErr, result)
		e.emit(ctx, events.TypeStepFailed, map[string]any{"executionId": executionID, "stepId": sc.ID, "error": sr.Error})
	}

	return sr
}

func stepErrorMessage(runErr error, result trace.Result) string {
	if runErr != nil {
		return runErr.Error()
	}
	if len(result.Errors) > 0 {
		return strings.Join(result.Errors, "; ")
	}
	return "simulation did not succeed"
}

// computeInput resolves the step's mapped input fields (or forwards the
// trigger input unchanged if no mapping is configured), coercing any
// field whose source type disagrees with the target input schema's type.
func (e *Executor) computeInput(sc StepConfig, wf WorkflowInfo, triggerInput map[string]any, outputs *stepOutputs) map[string]any {
	if len(sc.InputMapping) == 0 {
		return triggerInput
	}

	inSchema := parseSchemaOrEmpty(wf.InputSchema)
	result := make(map[string]any, len(sc.InputMapping))

	for target, src := range sc.InputMapping {
		value := resolveSource(src, triggerInput, outputs)
		if targetField, ok := inSchema.Properties[target]; ok {
			srcType := inferType(value)
			if srcType != "" && targetField.Type != "" && srcType != targetField.Type {
				value = schema.CoerceValue(value, srcType, targetField.Type)
			}
		}
		result[target] = value
	}
	return result
}

func resolveSource(src FieldSource, triggerInput map[string]any, outputs *stepOutputs) any {
	if src.Source == "trigger" {
		return triggerInput[src.Field]
	}
	out, ok := outputs.get(src.Source)
	if !ok {
		return nil
	}
	return out[src.Field]
}

func inferType(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64, int, int64:
		return "number"
	case bool:
		return "boolean"
	default:
		return ""
	}
}

func parseSchemaOrEmpty(raw *string) schema.Schema {
	if raw == nil || *raw == "" {
		return schema.Schema{}
	}
	s, err := schema.Parse(*raw)
	if err != nil {
		return schema.Schema{}
	}
	return s
}

// mergeConfig overlays computed input on top of the workflow's configured
// JSON defaults (input overrides defaults) and re-encodes as JSON.
func mergeConfig(defaultsJSON string, input map[string]any) string {
	defaults := map[string]any{}
	if defaultsJSON != "" {
		_ = json.Unmarshal([]byte(defaultsJSON), &defaults)
	}
	for k, v := range input {
		defaults[k] = v
	}
	out, err := json.Marshal(defaults)
	if err != nil {
		return defaultsJSON
	}
	return string(out)
}
