package config

import "fmt"

// Validator performs fail-fast validation of a Config's sub-sections in
// dependency order: each Validate* method short-circuits on the first
// invalid field it finds rather than accumulating every error.
type Validator struct {
	cfg *Config
}

// NewValidator wraps cfg for validation.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll runs every sub-validator, stopping at the first failure.
func (v *Validator) ValidateAll() error {
	if err := v.ValidateGeneration(); err != nil {
		return err
	}
	if err := v.ValidateSimulation(); err != nil {
		return err
	}
	if err := v.ValidatePipeline(); err != nil {
		return err
	}
	if err := v.ValidateEvents(); err != nil {
		return err
	}
	return nil
}

// ValidateGeneration checks the generation sub-config.
func (v *Validator) ValidateGeneration() error {
	g := v.cfg.Generation
	if g == nil {
		return NewValidationError("generation", "", ErrMissingRequiredField)
	}
	if g.MaxConcurrent <= 0 {
		return NewValidationError("generation", "max_concurrent", fmt.Errorf("%w: must be > 0, got %d", ErrInvalidValue, g.MaxConcurrent))
	}
	if g.PipelineTimeout <= 0 {
		return NewValidationError("generation", "pipeline_timeout", fmt.Errorf("%w: must be > 0", ErrInvalidValue))
	}
	if g.MaxRetries < 0 {
		return NewValidationError("generation", "max_retries", fmt.Errorf("%w: must be >= 0", ErrInvalidValue))
	}
	if g.LLMRequestTimeout <= 0 {
		return NewValidationError("generation", "llm_request_timeout", fmt.Errorf("%w: must be > 0", ErrInvalidValue))
	}
	if g.LLMRequestTimeout >= g.PipelineTimeout {
		return NewValidationError("generation", "llm_request_timeout", fmt.Errorf("%w: must be smaller than pipeline_timeout", ErrInvalidValue))
	}
	return nil
}

// ValidateSimulation checks the simulation sub-config.
func (v *Validator) ValidateSimulation() error {
	s := v.cfg.Simulation
	if s == nil {
		return NewValidationError("simulation", "", ErrMissingRequiredField)
	}
	if s.MaxConcurrent <= 0 {
		return NewValidationError("simulation", "max_concurrent", fmt.Errorf("%w: must be > 0, got %d", ErrInvalidValue, s.MaxConcurrent))
	}
	if s.DepInstallTimeout <= 0 || s.SimulatorTimeout <= 0 || s.TypeCheckTimeout <= 0 {
		return NewValidationError("simulation", "", fmt.Errorf("%w: all stage timeouts must be > 0", ErrInvalidValue))
	}
	if s.StdoutCapBytes <= 0 || s.StderrCapBytes <= 0 {
		return NewValidationError("simulation", "", fmt.Errorf("%w: output caps must be > 0", ErrInvalidValue))
	}
	return nil
}

// ValidatePipeline checks the pipeline sub-config.
func (v *Validator) ValidatePipeline() error {
	p := v.cfg.Pipeline
	if p == nil {
		return NewValidationError("pipeline", "", ErrMissingRequiredField)
	}
	if p.Timeout <= 0 {
		return NewValidationError("pipeline", "timeout", fmt.Errorf("%w: must be > 0", ErrInvalidValue))
	}
	if p.StepTimeout <= 0 || p.StepTimeout >= p.Timeout {
		return NewValidationError("pipeline", "step_timeout", fmt.Errorf("%w: must be > 0 and smaller than the pipeline timeout", ErrInvalidValue))
	}
	if p.StepRetryDelay <= 0 {
		return NewValidationError("pipeline", "step_retry_delay", fmt.Errorf("%w: must be > 0", ErrInvalidValue))
	}
	if p.MinRetryBudget <= 0 {
		return NewValidationError("pipeline", "min_retry_budget", fmt.Errorf("%w: must be > 0", ErrInvalidValue))
	}
	if p.MaxStepAttempts <= 0 {
		return NewValidationError("pipeline", "max_step_attempts", fmt.Errorf("%w: must be > 0", ErrInvalidValue))
	}
	if p.SweepBatchCap <= 0 {
		return NewValidationError("pipeline", "sweep_batch_cap", fmt.Errorf("%w: must be > 0", ErrInvalidValue))
	}
	return nil
}

// ValidateEvents checks the event bus sub-config.
func (v *Validator) ValidateEvents() error {
	e := v.cfg.Events
	if e == nil {
		return NewValidationError("events", "", ErrMissingRequiredField)
	}
	if e.MaxSSEClients <= 0 {
		return NewValidationError("events", "max_sse_clients", fmt.Errorf("%w: must be > 0", ErrInvalidValue))
	}
	if e.ReplayCap <= 0 {
		return NewValidationError("events", "replay_cap", fmt.Errorf("%w: must be > 0", ErrInvalidValue))
	}
	return nil
}
