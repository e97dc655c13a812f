package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/workflow-fabric/pkg/apierrors"
	"github.com/codeready-toolchain/workflow-fabric/pkg/auth"
	"github.com/codeready-toolchain/workflow-fabric/pkg/pipeline"
	"github.com/codeready-toolchain/workflow-fabric/pkg/schema"
	"github.com/codeready-toolchain/workflow-fabric/pkg/store"
)

const suggestCacheKey = "suggest"

type stepConfigDTO struct {
	ID           string                         `json:"id" validate:"required"`
	WorkflowID   string                         `json:"workflowId" validate:"required"`
	Position     int                            `json:"position" validate:"gte=0"`
	InputMapping map[string]fieldSourceDTO `json:"inputMapping,omitempty"`
}

type fieldSourceDTO struct {
	Source string `json:"source"`
	Field  string `json:"field"`
}

func toStepConfigs(in []stepConfigDTO) []pipeline.StepConfig {
	out := make([]pipeline.StepConfig, len(in))
	for i, s := range in {
		var mapping map[string]pipeline.FieldSource
		if len(s.InputMapping) > 0 {
			mapping = make(map[string]pipeline.FieldSource, len(s.InputMapping))
			for field, src := range s.InputMapping {
				mapping[field] = pipeline.FieldSource{Source: src.Source, Field: src.Field}
			}
		}
		out[i] = pipeline.StepConfig{ID: s.ID, WorkflowID: s.WorkflowID, Position: s.Position, InputMapping: mapping}
	}
	return out
}

func parseUUIDv4(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return apierrors.New(apierrors.InvalidInput, "id is not a valid UUID")
	}
	if parsed.Version() != 4 {
		return apierrors.New(apierrors.InvalidInput, "id is not a UUIDv4")
	}
	return nil
}

type createPipelineRequest struct {
	Name         string          `json:"name" validate:"required"`
	OwnerAddress string          `json:"ownerAddress" validate:"required"`
	Steps        []stepConfigDTO `json:"steps" validate:"required,min=1,dive"`
}

type pipelineResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	OwnerAddress   string `json:"ownerAddress"`
	Steps          []stepConfigDTO `json:"steps"`
	Active         bool   `json:"active"`
	ExecutionCount int64  `json:"executionCount"`
}

func toPipelineResponse(p store.Pipeline) (pipelineResponse, error) {
	var steps []stepConfigDTO
	if err := json.Unmarshal([]byte(p.Steps), &steps); err != nil {
		return pipelineResponse{}, err
	}
	return pipelineResponse{
		ID:             p.ID,
		Name:           p.Name,
		OwnerAddress:   p.OwnerAddress,
		Steps:          steps,
		Active:         p.Active,
		ExecutionCount: p.ExecutionCount,
	}, nil
}

// createPipelineHandler handles POST /pipelines.
func (s *Server) createPipelineHandler(c *echo.Context) error {
	var req createPipelineRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	stepsJSON, err := json.Marshal(toStepConfigs(req.Steps))
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	p := &store.Pipeline{
		ID:           uuid.New().String(),
		Name:         req.Name,
		OwnerAddress: req.OwnerAddress,
		Steps:        string(stepsJSON),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreatePipeline(c.Request().Context(), p); err != nil {
		return err
	}

	resp, err := toPipelineResponse(*p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

// listPipelinesHandler handles GET /pipelines.
func (s *Server) listPipelinesHandler(c *echo.Context) error {
	pipelines, err := s.store.ListPipelines(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]pipelineResponse, 0, len(pipelines))
	for _, p := range pipelines {
		dto, err := toPipelineResponse(p)
		if err != nil {
			return err
		}
		out = append(out, dto)
	}
	return c.JSON(http.StatusOK, out)
}

// getPipelineHandler handles GET /pipelines/:id.
func (s *Server) getPipelineHandler(c *echo.Context) error {
	id := c.Param("id")
	if err := parseUUIDv4(id); err != nil {
		return err
	}
	p, err := s.store.GetPipeline(c.Request().Context(), id)
	if err != nil {
		return mapPipelineLoadError(err)
	}
	resp, err := toPipelineResponse(*p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func mapPipelineLoadError(err error) error {
	if errors.Is(err, store.ErrPipelineNotFound) {
		return apierrors.New(apierrors.PipelineNotFound, "pipeline not found")
	}
	return err
}

type updatePipelineRequest struct {
	Steps []stepConfigDTO `json:"steps" validate:"required,min=1,dive"`
}

// updatePipelineHandler handles PUT /pipelines/:id: owner-signature
// authenticated, replaces the step configuration.
func (s *Server) updatePipelineHandler(c *echo.Context) error {
	id := c.Param("id")
	if err := parseUUIDv4(id); err != nil {
		return err
	}

	ctx := c.Request().Context()
	p, err := s.store.GetPipeline(ctx, id)
	if err != nil {
		return mapPipelineLoadError(err)
	}
	if err := s.authorizeOwner(c, id, p.OwnerAddress); err != nil {
		return err
	}

	var req updatePipelineRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	stepsJSON, err := json.Marshal(toStepConfigs(req.Steps))
	if err != nil {
		return err
	}
	if err := s.store.UpdatePipelineSteps(ctx, id, string(stepsJSON)); err != nil {
		return mapPipelineLoadError(err)
	}

	p.Steps = string(stepsJSON)
	resp, err := toPipelineResponse(*p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// deletePipelineHandler handles DELETE /pipelines/:id: owner-signature
// authenticated soft delete (deactivation).
func (s *Server) deletePipelineHandler(c *echo.Context) error {
	id := c.Param("id")
	if err := parseUUIDv4(id); err != nil {
		return err
	}

	ctx := c.Request().Context()
	p, err := s.store.GetPipeline(ctx, id)
	if err != nil {
		return mapPipelineLoadError(err)
	}
	if err := s.authorizeOwner(c, id, p.OwnerAddress); err != nil {
		return err
	}

	if err := s.store.DeactivatePipeline(ctx, id); err != nil {
		return mapPipelineLoadError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// authorizeOwner enforces the owner-signature scheme: the
// three headers must be present and within the timestamp window, and the
// claimed address must match the resource's recorded owner.
func (s *Server) authorizeOwner(c *echo.Context, resourceID, ownerAddress string) error {
	claim, err := auth.ParseHeaders(c.Request().Header)
	if err != nil {
		return apierrors.New(apierrors.Unauthorized, err.Error())
	}
	if claim.Address != ownerAddress {
		return apierrors.New(apierrors.Unauthorized, "signing address does not own this resource")
	}
	message := auth.SignedMessage(resourceID, claim.TimestampMS)
	if err := auth.VerifySignature(claim, message); err != nil {
		return apierrors.New(apierrors.Unauthorized, "invalid signature")
	}
	return nil
}

type executePipelineRequest struct {
	TriggerInput map[string]any `json:"triggerInput"`
}

type executeResponse struct {
	ExecutionID string                  `json:"executionId"`
	Status      pipeline.Status         `json:"status"`
	StepResults []pipeline.StepResult   `json:"stepResults"`
	FinalOutput map[string]any          `json:"finalOutput,omitempty"`
	DurationMS  int64                   `json:"durationMs"`
}

// executePipelineHandler handles POST /pipelines/:id/execute.
func (s *Server) executePipelineHandler(c *echo.Context) error {
	id := c.Param("id")
	if err := parseUUIDv4(id); err != nil {
		return err
	}

	var req executePipelineRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}

	start := time.Now()
	outcome, err := s.executor.Execute(c.Request().Context(), id, req.TriggerInput)
	if err != nil {
		return err
	}
	s.metrics.RecordPipelineExecution(string(outcome.Status), outcome.Status == pipeline.StatusCompleted, time.Since(start))

	return c.JSON(http.StatusOK, executeResponse{
		ExecutionID: outcome.ExecutionID,
		Status:      outcome.Status,
		StepResults: outcome.StepResults,
		FinalOutput: outcome.FinalOutput,
		DurationMS:  outcome.DurationMS,
	})
}

type executionHistoryEntry struct {
	ID           string          `json:"id"`
	PipelineID   string          `json:"pipelineId"`
	Status       string          `json:"status"`
	StepResults  json.RawMessage `json:"stepResults"`
	TriggerInput json.RawMessage `json:"triggerInput"`
	FinalOutput  json.RawMessage `json:"finalOutput,omitempty"`
	DurationMS   int64           `json:"durationMs"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// pipelineHistoryHandler handles GET /pipelines/:id/history.
func (s *Server) pipelineHistoryHandler(c *echo.Context) error {
	id := c.Param("id")
	if err := parseUUIDv4(id); err != nil {
		return err
	}
	history, err := s.store.ListPipelineExecutionHistory(c.Request().Context(), id)
	if err != nil {
		return err
	}

	out := make([]executionHistoryEntry, len(history))
	for i, e := range history {
		entry := executionHistoryEntry{
			ID:          e.ID,
			PipelineID:  e.PipelineID,
			Status:      e.Status,
			StepResults: json.RawMessage(e.StepResults),
			TriggerInput: json.RawMessage(e.TriggerInput),
			DurationMS:  e.DurationMS,
			CreatedAt:   e.CreatedAt,
		}
		if e.FinalOutput != nil {
			entry.FinalOutput = json.RawMessage(*e.FinalOutput)
		}
		out[i] = entry
	}
	return c.JSON(http.StatusOK, out)
}

// pipelineMetricsHandler handles GET /pipelines/metrics: the plain-JSON
// in-memory snapshot, distinct from the Prometheus text scrape.
func (s *Server) pipelineMetricsHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, s.metrics.Snapshot())
}

type checkCompatibilityRequest struct {
	OutputSchema json.RawMessage `json:"outputSchema" validate:"required"`
	InputSchema  json.RawMessage `json:"inputSchema" validate:"required"`
}

// checkCompatibilityHandler handles POST /pipelines/check-compatibility.
func (s *Server) checkCompatibilityHandler(c *echo.Context) error {
	var req checkCompatibilityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := schema.Parse(string(req.OutputSchema))
	if err != nil {
		return badRequest("outputSchema: " + err.Error())
	}
	input, err := schema.Parse(string(req.InputSchema))
	if err != nil {
		return badRequest("inputSchema: " + err.Error())
	}

	return c.JSON(http.StatusOK, schema.CheckCompatibility(output, input))
}

type suggestedChain struct {
	Steps         []stepConfigDTO `json:"steps"`
	Score         float64         `json:"score"`
}

// suggestPipelinesHandler handles GET /pipelines/suggest: scans the
// published-workflow pool for every two-step chain whose output/input
// schemas are compatible, caching the whole list as a single entry for 5
// minutes.
func (s *Server) suggestPipelinesHandler(c *echo.Context) error {
	if cached, ok := s.suggestCache.Get(suggestCacheKey); ok {
		return c.JSON(http.StatusOK, cached)
	}

	workflows, err := s.store.ListPublishedWorkflows(c.Request().Context())
	if err != nil {
		return err
	}

	suggestions := buildSuggestions(workflows)
	s.suggestCache.Set(suggestCacheKey, suggestions)
	return c.JSON(http.StatusOK, suggestions)
}

// buildSuggestions pairs every published workflow with every other whose
// output schema is compatible with its input schema, scored by
// schema.CheckCompatibility.
func buildSuggestions(workflows []*store.Workflow) []suggestedChain {
	var out []suggestedChain
	for _, a := range workflows {
		for _, b := range workflows {
			if a.ID == b.ID || a.OutputSchema == nil || b.InputSchema == nil {
				continue
			}
			outSchema, err := schema.Parse(*a.OutputSchema)
			if err != nil {
				continue
			}
			inSchema, err := schema.Parse(*b.InputSchema)
			if err != nil {
				continue
			}
			result := schema.CheckCompatibility(outSchema, inSchema)
			if !result.Compatible {
				continue
			}
			out = append(out, suggestedChain{
				Steps: []stepConfigDTO{
					{ID: "s1", WorkflowID: a.ID, Position: 0},
					{ID: "s2", WorkflowID: b.ID, Position: 1},
				},
				Score: result.Score,
			})
		}
	}
	return out
}
