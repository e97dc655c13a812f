package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/workflow-fabric/pkg/apierrors"
	"github.com/codeready-toolchain/workflow-fabric/pkg/sandbox"
	"github.com/codeready-toolchain/workflow-fabric/pkg/store"
	"github.com/codeready-toolchain/workflow-fabric/pkg/trace"
)

const directCodeCapBytes = 50 * 1024

type simulateRequest struct {
	Mode       string `json:"mode" validate:"required,oneof=stored direct"`
	WorkflowID string `json:"workflowId"`
	Code       string `json:"code"`
	ConfigJSON string `json:"config"`
}

type simulateResponse struct {
	Success    bool        `json:"success"`
	Trace      trace.Result `json:"trace"`
	DurationMS int64       `json:"duration"`
	WorkflowID string      `json:"workflowId"`
}

func directExecutionID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "direct-00000000"
	}
	return "direct-" + hex.EncodeToString(buf)
}

// simulateHandler handles POST /simulate in its two modes: "stored" runs an
// already-persisted workflow (optionally with a config override), "direct"
// runs caller-supplied source without persisting anything.
func (s *Server) simulateHandler(c *echo.Context) error {
	var req simulateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	var code, configJSON, workflowID string
	var wf *store.Workflow

	switch req.Mode {
	case "stored":
		if req.WorkflowID == "" {
			return badRequest("workflowId is required for stored mode")
		}
		var err error
		wf, err = s.store.GetWorkflow(ctx, req.WorkflowID)
		if err != nil {
			return apierrors.New(apierrors.WorkflowNotFound, "workflow not found")
		}
		code = wf.Code
		configJSON = wf.Config
		if req.ConfigJSON != "" {
			configJSON = req.ConfigJSON
		}
		workflowID = wf.ID
	case "direct":
		if len(req.Code) > directCodeCapBytes {
			return badRequest("direct code exceeds the 50 KiB cap")
		}
		code = req.Code
		configJSON = req.ConfigJSON
		workflowID = directExecutionID()
	}

	result, err := s.sandbox.Run(ctx, sandbox.Input{Code: code, ConfigJSON: configJSON})
	if err != nil {
		return apierrors.New(apierrors.CRECLIError, err.Error())
	}

	outcome := "success"
	if !result.Success {
		outcome = "failure"
	}
	s.metrics.SimulationTotal.WithLabelValues(outcome).Inc()

	if req.Mode == "stored" {
		traceJSON, _ := json.Marshal(result.Steps)
		exec := &store.Execution{
			ID:         uuid.New().String(),
			WorkflowID: wf.ID,
			Success:    result.Success,
			Trace:      string(traceJSON),
			DurationMS: result.DurationMS,
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.store.CreateExecution(ctx, exec); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, simulateResponse{
		Success:    result.Success,
		Trace:      result,
		DurationMS: result.DurationMS,
		WorkflowID: workflowID,
	})
}
