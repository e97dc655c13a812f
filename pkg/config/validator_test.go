package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Generation: DefaultGenerationConfig(),
		Simulation: DefaultSimulationConfig(),
		Pipeline:   DefaultPipelineConfig(),
		Events:     DefaultEventsConfig(),
	}
}

func TestValidateAllAcceptsDefaults(t *testing.T) {
	assert.NoError(t, NewValidator(validConfig()).ValidateAll())
}

func TestValidateGenerationRejectsZeroConcurrency(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.MaxConcurrent = 0

	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "generation", ve.Component)
}

func TestValidateGenerationRejectsLLMTimeoutExceedingPipeline(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.LLMRequestTimeout = cfg.Generation.PipelineTimeout

	err := NewValidator(cfg).ValidateGeneration()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestValidateSimulationRejectsZeroTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.SimulatorTimeout = 0

	err := NewValidator(cfg).ValidateSimulation()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestValidatePipelineRejectsStepTimeoutExceedingTotal(t *testing.T) {
	cfg := validConfig()
	cfg.Pipeline.StepTimeout = cfg.Pipeline.Timeout + 1

	err := NewValidator(cfg).ValidatePipeline()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "step_timeout", ve.Field)
}

func TestValidateEventsRejectsZeroReplayCap(t *testing.T) {
	cfg := validConfig()
	cfg.Events.ReplayCap = 0

	err := NewValidator(cfg).ValidateEvents()
	require.Error(t, err)
}

func TestValidateAllStopsAtFirstFailure(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.MaxConcurrent = -1
	cfg.Simulation.MaxConcurrent = -1

	err := NewValidator(cfg).ValidateAll()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "generation", ve.Component, "generation validates first and should short-circuit")
}
