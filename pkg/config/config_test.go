package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGenerationConfig(t *testing.T) {
	g := DefaultGenerationConfig()
	assert.Equal(t, 3, g.MaxConcurrent)
	assert.Equal(t, 90*time.Second, g.PipelineTimeout)
	assert.Equal(t, 2, g.MaxRetries)
	assert.Equal(t, 30*time.Second, g.LLMRequestTimeout)
}

func TestDefaultSimulationConfig(t *testing.T) {
	s := DefaultSimulationConfig()
	assert.Equal(t, 3, s.MaxConcurrent)
	assert.Equal(t, 30*time.Second, s.DepInstallTimeout)
	assert.Equal(t, 60*time.Second, s.SimulatorTimeout)
	assert.Equal(t, 15*time.Second, s.TypeCheckTimeout)
}

func TestDefaultPipelineConfig(t *testing.T) {
	p := DefaultPipelineConfig()
	assert.Equal(t, 300*time.Second, p.Timeout)
	assert.Equal(t, 60*time.Second, p.StepTimeout)
	assert.Equal(t, 2*time.Second, p.StepRetryDelay)
	assert.Equal(t, 5*time.Second, p.MinRetryBudget)
}

func TestLoadLLMConfigFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg := LoadLLMConfigFromEnv()
	assert.Equal(t, "sk-ant-test", cfg.AnthropicAPIKey)
	assert.Empty(t, cfg.OpenAIAPIKey)
}

func TestLLMConfigSecretEnv(t *testing.T) {
	cfg := &LLMConfig{AnthropicAPIKey: "sk-ant-test"}
	env := cfg.SecretEnv()
	require.Len(t, env, 1)
	assert.Equal(t, "CRE_SECRET_ANTHROPIC_API_KEY=sk-ant-test", env[0])
}

func TestLoadServerConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("API_PORT", "")
	t.Setenv("NODE_ENV", "")

	cfg := LoadServerConfigFromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.NodeEnv)
	assert.True(t, cfg.DevMode)
}

func TestLoadServerConfigFromEnvProduction(t *testing.T) {
	t.Setenv("NODE_ENV", "production")

	cfg := LoadServerConfigFromEnv()
	assert.False(t, cfg.DevMode)
}

func TestLoadWithoutConfigDir(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg.Generation)
	assert.Equal(t, 3, cfg.Generation.MaxConcurrent)
}

func TestLoadMissingOverridesFileIsNotAnError(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultPipelineConfig(), cfg.Pipeline)
}
