// Package config provides configuration management for the workflow
// factory: generation/simulation/pipeline timeouts and concurrency limits,
// LLM provider credentials, and the built-in template/NLP tables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the umbrella configuration object returned by Load and used
// throughout the application.
type Config struct {
	Generation *GenerationConfig
	Simulation *SimulationConfig
	Pipeline   *PipelineConfig
	Events     *EventsConfig
	LLM        *LLMConfig
	Server     *ServerConfig
	Database   *DatabaseConfig
}

// GenerationConfig controls the generation orchestrator (C12).
type GenerationConfig struct {
	// MaxConcurrent bounds in-flight generation pipelines.
	MaxConcurrent int `yaml:"max_concurrent"`
	// PipelineTimeout is the aggregate generation deadline.
	PipelineTimeout time.Duration `yaml:"pipeline_timeout"`
	// MaxRetries is the orchestrator's outer retry budget (attempts = MaxRetries+1).
	MaxRetries int `yaml:"max_retries"`
	// LLMRequestTimeout bounds a single code-generator LLM call.
	LLMRequestTimeout time.Duration `yaml:"llm_request_timeout"`
}

// DefaultGenerationConfig returns the fixed generation-orchestrator bounds.
func DefaultGenerationConfig() *GenerationConfig {
	return &GenerationConfig{
		MaxConcurrent:     3,
		PipelineTimeout:   90 * time.Second,
		MaxRetries:        2,
		LLMRequestTimeout: 30 * time.Second,
	}
}

// SimulationConfig controls the simulation sandbox (C13).
type SimulationConfig struct {
	MaxConcurrent     int           `yaml:"max_concurrent"`
	DepInstallTimeout time.Duration `yaml:"dep_install_timeout"`
	SimulatorTimeout  time.Duration `yaml:"simulator_timeout"`
	TypeCheckTimeout  time.Duration `yaml:"type_check_timeout"`
	StdoutCapBytes    int           `yaml:"stdout_cap_bytes"`
	StderrCapBytes    int           `yaml:"stderr_cap_bytes"`
	CRECLIPath        string        `yaml:"cre_cli_path"`
	DepCachePath      string        `yaml:"dep_cache_path"`
}

// DefaultSimulationConfig returns the fixed sandbox bounds.
func DefaultSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		MaxConcurrent:     3,
		DepInstallTimeout: 30 * time.Second,
		SimulatorTimeout:  60 * time.Second,
		TypeCheckTimeout:  15 * time.Second,
		StdoutCapBytes:    2 * 1024 * 1024,
		StderrCapBytes:    2 * 1024 * 1024,
	}
}

// PipelineConfig controls the pipeline executor (C17) and its sweeper.
type PipelineConfig struct {
	Timeout                time.Duration `yaml:"timeout"`
	StepTimeout             time.Duration `yaml:"step_timeout"`
	StepRetryDelay          time.Duration `yaml:"step_retry_delay"`
	MinRetryBudget          time.Duration `yaml:"min_retry_budget"`
	MaxStepAttempts         int           `yaml:"max_step_attempts"`
	SuggestCacheTTL         time.Duration `yaml:"suggest_cache_ttl"`
	StartupSweepMaxAge      time.Duration `yaml:"startup_sweep_max_age"`
	WorkflowSweepMaxAge     time.Duration `yaml:"workflow_sweep_max_age"`
	SweepBatchCap           int           `yaml:"sweep_batch_cap"`
}

// DefaultPipelineConfig returns the fixed pipeline-executor bounds.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Timeout:             300 * time.Second,
		StepTimeout:         60 * time.Second,
		StepRetryDelay:      2 * time.Second,
		MinRetryBudget:      5 * time.Second,
		MaxStepAttempts:     2,
		SuggestCacheTTL:     5 * time.Minute,
		StartupSweepMaxAge:  10 * time.Minute, // 2x pipeline timeout
		WorkflowSweepMaxAge: 5 * time.Minute,
		SweepBatchCap:       100,
	}
}

// EventsConfig controls the event bus (C4).
type EventsConfig struct {
	MaxSSEClients int `yaml:"max_sse_clients"`
	ReplayCap     int `yaml:"replay_cap"`
}

// DefaultEventsConfig returns the fixed event-bus bounds.
func DefaultEventsConfig() *EventsConfig {
	return &EventsConfig{MaxSSEClients: 50, ReplayCap: 100}
}

// LLMConfig holds provider credentials read from the environment.
type LLMConfig struct {
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GeminiAPIKey    string
}

// LoadLLMConfigFromEnv reads the three provider keys from the environment.
func LoadLLMConfigFromEnv() *LLMConfig {
	return &LLMConfig{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
	}
}

// SecretEnv returns the CRE_SECRET_* mirrors the simulation sandbox injects
// into the simulator subprocess environment.
func (c *LLMConfig) SecretEnv() []string {
	var out []string
	if c.OpenAIAPIKey != "" {
		out = append(out, "CRE_SECRET_OPENAI_API_KEY="+c.OpenAIAPIKey)
	}
	if c.AnthropicAPIKey != "" {
		out = append(out, "CRE_SECRET_ANTHROPIC_API_KEY="+c.AnthropicAPIKey)
	}
	if c.GeminiAPIKey != "" {
		out = append(out, "CRE_SECRET_GEMINI_API_KEY="+c.GeminiAPIKey)
	}
	return out
}

// ServerConfig holds HTTP-layer settings.
type ServerConfig struct {
	Port     string
	NodeEnv  string
	DevMode  bool // derived: NodeEnv != "production"
}

// LoadServerConfigFromEnv reads API_PORT and NODE_ENV.
func LoadServerConfigFromEnv() *ServerConfig {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	env := os.Getenv("NODE_ENV")
	if env == "" {
		env = "development"
	}
	return &ServerConfig{Port: port, NodeEnv: env, DevMode: env != "production"}
}

// DatabaseConfig holds the storage DSN (DATABASE_PATH).
type DatabaseConfig struct {
	Path string
}

// LoadDatabaseConfigFromEnv reads DATABASE_PATH.
func LoadDatabaseConfigFromEnv() *DatabaseConfig {
	path := os.Getenv("DATABASE_PATH")
	if path == "" {
		path = "postgres://localhost:5432/workflow_fabric?sslmode=disable"
	}
	return &DatabaseConfig{Path: path}
}

// Load builds the umbrella Config from built-in defaults, an optional YAML
// overrides file, and the environment, applied in that layered
// precedence order, simplified to the handful of knobs this system
// exposes.
func Load(configDir string) (*Config, error) {
	cfg := &Config{
		Generation: DefaultGenerationConfig(),
		Simulation: DefaultSimulationConfig(),
		Pipeline:   DefaultPipelineConfig(),
		Events:     DefaultEventsConfig(),
		LLM:        LoadLLMConfigFromEnv(),
		Server:     LoadServerConfigFromEnv(),
		Database:   LoadDatabaseConfigFromEnv(),
	}

	if configDir == "" {
		return cfg, nil
	}

	overridesPath := filepath.Join(configDir, "workflow-fabric.yaml")
	data, err := os.ReadFile(overridesPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, NewLoadError(overridesPath, err)
	}

	expanded := ExpandEnv(data)

	var overrides struct {
		Generation *GenerationConfig `yaml:"generation"`
		Simulation *SimulationConfig `yaml:"simulation"`
		Pipeline   *PipelineConfig   `yaml:"pipeline"`
		Events     *EventsConfig     `yaml:"events"`
	}
	if err := yaml.Unmarshal(expanded, &overrides); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidYAML, overridesPath, err)
	}
	if overrides.Generation != nil {
		cfg.Generation = overrides.Generation
	}
	if overrides.Simulation != nil {
		cfg.Simulation = overrides.Simulation
	}
	if overrides.Pipeline != nil {
		cfg.Pipeline = overrides.Pipeline
	}
	if overrides.Events != nil {
		cfg.Events = overrides.Events
	}

	if err := NewValidator(cfg).ValidateAll(); err != nil {
		return nil, err
	}

	return cfg, nil
}
