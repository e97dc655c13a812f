package api

import (
	"errors"
	"log/slog"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/workflow-fabric/pkg/apierrors"
)

// errorEnvelope is the wire shape of every error response: {error:{code,
// message, details?}}.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    apierrors.Code `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// errorHandler is installed as the Echo HTTPErrorHandler so every error
// returned from a handler — whether an *apierrors.Error or anything else
// — renders through the one closed envelope shape.
func (s *Server) errorHandler(err error, c *echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *apierrors.Error
	if errors.As(err, &apiErr) {
		writeAPIError(c, apiErr)
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		writeAPIError(c, apierrors.New(apierrors.InvalidInput, httpErrString(httpErr)))
		return
	}

	slog.Error("api: unhandled error", "error", err)
	body := apierrors.New(apierrors.InternalError, "internal server error")
	if s.cfg.Server.DevMode {
		body.Message = err.Error()
	}
	writeAPIError(c, body)
}

func httpErrString(e *echo.HTTPError) string {
	if msg, ok := e.Message.(string); ok {
		return msg
	}
	return e.Error()
}

func writeAPIError(c *echo.Context, e *apierrors.Error) {
	_ = c.JSON(e.HTTPStatus(), errorEnvelope{Error: errorBody{Code: e.Code, Message: e.Message, Details: e.Details}})
}

// badRequest is a convenience constructor for the common INVALID_INPUT case.
func badRequest(message string) error {
	return apierrors.New(apierrors.InvalidInput, message)
}
