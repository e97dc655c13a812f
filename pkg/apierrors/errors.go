// Package apierrors defines the closed set of error codes the HTTP API
// surfaces, each satisfying the error interface and carrying its own HTTP
// status mapping.
package apierrors

import "net/http"

// Code is the closed set of API error codes.
type Code string

const (
	InvalidInput            Code = "INVALID_INPUT"
	Unauthorized             Code = "UNAUTHORIZED"
	WorkflowNotFound         Code = "WORKFLOW_NOT_FOUND"
	PipelineNotFound         Code = "PIPELINE_NOT_FOUND"
	PipelineDeactivated      Code = "PIPELINE_DEACTIVATED"
	PipelineExecutionFailed  Code = "PIPELINE_EXECUTION_FAILED"
	TemplateNotFound         Code = "TEMPLATE_NOT_FOUND"
	AIServiceError           Code = "AI_SERVICE_ERROR"
	CRECLIError              Code = "CRE_CLI_ERROR"
	DiscoveryFailed          Code = "DISCOVERY_FAILED"
	SSECapacityFull          Code = "SSE_CAPACITY_FULL"
	ExecutionFailed          Code = "EXECUTION_FAILED"
	InternalError            Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	InvalidInput:            http.StatusBadRequest,
	Unauthorized:            http.StatusUnauthorized,
	WorkflowNotFound:        http.StatusNotFound,
	PipelineNotFound:        http.StatusNotFound,
	PipelineDeactivated:     http.StatusBadRequest,
	PipelineExecutionFailed: http.StatusUnprocessableEntity,
	TemplateNotFound:        http.StatusBadRequest,
	AIServiceError:          http.StatusBadGateway,
	CRECLIError:             http.StatusBadGateway,
	DiscoveryFailed:         http.StatusBadGateway,
	SSECapacityFull:         http.StatusServiceUnavailable,
	ExecutionFailed:         http.StatusUnprocessableEntity,
	InternalError:           http.StatusInternalServerError,
}

// Error is the concrete error type carried through the pipeline and
// rendered as the API's {error:{code,message,details}} envelope.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// New constructs an Error for the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithDetails attaches a details map and returns the same Error for
// chaining at the call site.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// HTTPStatus returns the status code this error's Code maps to, defaulting
// to 500 for an unrecognized code (never happens for a Code produced by
// New, since Code is closed).
func (e *Error) HTTPStatus() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
