package store

import "errors"

var (
	// ErrWorkflowNotFound means no workflow row matches the given id.
	ErrWorkflowNotFound = errors.New("store: workflow not found")

	// ErrPipelineNotFound means no pipeline row matches the given id.
	ErrPipelineNotFound = errors.New("store: pipeline not found")

	// ErrExecutionNotFound means no pipeline execution row matches the given id.
	ErrExecutionNotFound = errors.New("store: pipeline execution not found")
)
