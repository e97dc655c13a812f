package apierrors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorSatisfiesErrorInterface(t *testing.T) {
	var err error = New(InvalidInput, "bad input")
	assert.EqualError(t, err, "bad input")
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{InvalidInput, http.StatusBadRequest},
		{Unauthorized, http.StatusUnauthorized},
		{WorkflowNotFound, http.StatusNotFound},
		{PipelineDeactivated, http.StatusBadRequest},
		{AIServiceError, http.StatusBadGateway},
		{SSECapacityFull, http.StatusServiceUnavailable},
		{InternalError, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, New(c.code, "x").HTTPStatus())
	}
}

func TestWithDetailsAttachesMap(t *testing.T) {
	e := New(TemplateNotFound, "no match").WithDetails(map[string]any{"score": 0.1})
	assert.Equal(t, 0.1, e.Details["score"])
}
