package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_HappyTraceFromSpecS4(t *testing.T) {
	output := "[TRIGGER] Cron fired\n[HTTP] GET https://api.test/x -> 200 duration: 150ms\n"

	result := Parse(output)

	require.Len(t, result.Steps, 2)
	assert.Equal(t, CapabilityTrigger, result.Steps[0].Capability)
	assert.Equal(t, StatusSuccess, result.Steps[0].Status)

	step2 := result.Steps[1]
	assert.Equal(t, CapabilityHTTPClient, step2.Capability)
	assert.Equal(t, StatusSuccess, step2.Status)
	assert.Equal(t, "GET", step2.Data["method"])
	assert.Equal(t, "https://api.test/x", step2.Data["url"])
	assert.Equal(t, 200, step2.Data["statusCode"])
	require.NotNil(t, step2.DurationMS)
	assert.EqualValues(t, 150, *step2.DurationMS)

	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestParse_ErrorsWarningsAndNoise(t *testing.T) {
	result := Parse("npm warn deprecated thing\nERROR: something broke\nWARNING: deprecated feature used\na generic meaningful line that is long enough\n")

	require.Len(t, result.Errors, 1)
	require.Len(t, result.Warnings, 1)
	require.Len(t, result.Steps, 1)
	assert.Equal(t, CapabilityUnknown, result.Steps[0].Capability)
}

func TestParse_LineCountInvariant(t *testing.T) {
	output := "[TRIGGER] fired\nERROR: boom\nWARNING: careful\nnpm notice noise line\nsome other meaningful line of text\n"
	result := Parse(output)
	nonNoise := len(result.Steps) + len(result.Errors) + len(result.Warnings)
	assert.Equal(t, 4, nonNoise)
}
