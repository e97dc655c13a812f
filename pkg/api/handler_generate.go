package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/workflow-fabric/pkg/intent"
	"github.com/codeready-toolchain/workflow-fabric/pkg/store"
	"github.com/codeready-toolchain/workflow-fabric/pkg/template"
	"github.com/codeready-toolchain/workflow-fabric/pkg/validator"
)

type generateRequest struct {
	Prompt       string `json:"prompt" validate:"required"`
	TemplateHint string `json:"templateHint"`
}

type intentDTO struct {
	TriggerType string   `json:"triggerType"`
	Confidence  float64  `json:"confidence"`
	Schedule    string   `json:"schedule,omitempty"`
	DataSources []string `json:"dataSources,omitempty"`
	Actions     []string `json:"actions,omitempty"`
	Chains      []string `json:"chains,omitempty"`
	Conditions  []string `json:"conditions,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Negated     bool     `json:"negated"`
}

type matchDTO struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matchedKeywords,omitempty"`
}

type validationDTO struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type generateResponse struct {
	WorkflowID       string        `json:"workflowId"`
	Code             string        `json:"code"`
	ConfigJSON       string        `json:"config"`
	ConsumerContract string        `json:"consumerContract,omitempty"`
	Explanation      string        `json:"explanation,omitempty"`
	SelfReview       string        `json:"selfReview,omitempty"`
	Validation       validationDTO `json:"validation"`
	QuickFixes       []string      `json:"quickFixes,omitempty"`
	Fallback         bool          `json:"fallback"`
	Intent           intentDTO     `json:"intent"`
	Match            matchDTO      `json:"match"`
	Attempts         int           `json:"attempts"`
}

func toValidationDTO(v validator.Result) validationDTO {
	dto := validationDTO{Valid: v.Valid, Warnings: v.Warnings}
	for _, e := range v.Errors {
		dto.Errors = append(dto.Errors, e.String())
	}
	return dto
}

func toIntentDTO(in *intent.ParsedIntent) intentDTO {
	if in == nil {
		return intentDTO{}
	}
	return intentDTO{
		TriggerType: string(in.TriggerType),
		Confidence:  in.Confidence,
		Schedule:    in.Schedule,
		DataSources: in.DataSources,
		Actions:     in.Actions,
		Chains:      in.Chains,
		Conditions:  in.Conditions,
		Keywords:    in.Keywords,
		Negated:     in.Negated,
	}
}

func toMatchDTO(m template.Match) matchDTO {
	return matchDTO{
		ID:              m.ID,
		Name:            m.Name,
		Category:        m.Category,
		Confidence:      m.Confidence,
		MatchedKeywords: m.MatchedKeywords,
	}
}

// resolveTemplateHint maps an optional free-text template name hint onto
// the catalog's numeric template id, the generation orchestrator's
// force-match input. An unrecognized hint is silently ignored — scoring
// still runs normally rather than rejecting the request.
func resolveTemplateHint(hint string) int {
	if hint == "" {
		return 0
	}
	for _, def := range template.Load().Definitions {
		if def.Name == hint {
			return def.ID
		}
	}
	return 0
}

// generateHandler handles POST /generate: run the generation pipeline and
// persist the resulting workflow as a fresh, unpublished row.
func (s *Server) generateHandler(c *echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	result, err := s.orchestrator.Generate(ctx, req.Prompt, resolveTemplateHint(req.TemplateHint))
	if err != nil {
		return err
	}

	outcome := "valid"
	switch {
	case result.Fallback:
		outcome = "fallback"
	case !result.Validation.Valid:
		outcome = "invalid"
	}
	s.metrics.GenerationTotal.WithLabelValues(outcome).Inc()

	id := uuid.New().String()
	now := time.Now().UTC()
	w := &store.Workflow{
		ID:           id,
		Code:         result.Code,
		Config:       result.ConfigJSON,
		DeployStatus: "pending",
		Published:    false,
		Category:     result.Match.Category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateWorkflow(ctx, w); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, generateResponse{
		WorkflowID:       id,
		Code:             result.Code,
		ConfigJSON:       result.ConfigJSON,
		ConsumerContract: result.ConsumerContract,
		Explanation:      result.Explanation,
		SelfReview:       result.SelfReview,
		Validation:       toValidationDTO(result.Validation),
		QuickFixes:       result.QuickFixes,
		Fallback:         result.Fallback,
		Intent:           toIntentDTO(result.Intent),
		Match:            toMatchDTO(result.Match),
		Attempts:         result.Attempts,
	})
}
