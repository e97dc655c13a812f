package generation

import (
	"context"
	"testing"
	"time"

	"github.com/codeready-toolchain/workflow-fabric/pkg/codegen"
	"github.com/codeready-toolchain/workflow-fabric/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validWorkflowSource = `import { handler } from "@chainlink/cre-sdk";
import { z } from "zod";

export const configSchema = z.object({ threshold: z.number() });

export function main(trigger) {
  handler(trigger, (ctx) => {
    // sync body
  });
}
`

type fakeClient struct {
	outputs []codegen.Output
	calls   int
}

func (f *fakeClient) Generate(ctx context.Context, in codegen.Input) (codegen.Output, error) {
	out := f.outputs[f.calls]
	if f.calls < len(f.outputs)-1 {
		f.calls++
	}
	return out, nil
}

func testGenCfg() *config.GenerationConfig {
	return &config.GenerationConfig{
		MaxConcurrent:     3,
		PipelineTimeout:   2 * time.Second,
		MaxRetries:        2,
		LLMRequestTimeout: time.Second,
	}
}

func TestGenerate_HappyPathFromSpecS1(t *testing.T) {
	client := &fakeClient{outputs: []codegen.Output{
		{WorkflowSource: validWorkflowSource, ConfigJSON: `{"threshold": 3000}`, SelfReview: "looks good"},
	}}
	orch := New(client, nil, testGenCfg(), 15*time.Second)

	result, err := orch.Generate(context.Background(), "Every 5 minutes check ETH price and alert when it drops below $3000", 0)

	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.True(t, result.Validation.Valid)
	assert.NotEmpty(t, result.Code)
	assert.Equal(t, 1, result.Match.ID)
}

func TestGenerate_AmbiguousPromptReturnsTemplateNotFound(t *testing.T) {
	client := &fakeClient{outputs: []codegen.Output{{WorkflowSource: validWorkflowSource}}}
	orch := New(client, nil, testGenCfg(), 15*time.Second)

	_, err := orch.Generate(context.Background(), "What is the meaning of life and the universe", 0)

	require.Error(t, err)
}

func TestGenerate_ValidationFailurePathYieldsFallback(t *testing.T) {
	badSource := `import { fs } from "fs";
export function main() {}
`
	client := &fakeClient{outputs: []codegen.Output{
		{WorkflowSource: badSource, ConfigJSON: "{}"},
		{WorkflowSource: badSource, ConfigJSON: "{}"},
		{WorkflowSource: badSource, ConfigJSON: "{}"},
	}}
	orch := New(client, nil, testGenCfg(), 15*time.Second)

	result, err := orch.Generate(context.Background(), "Every 5 minutes check ETH price and alert when it drops below $3000", 0)

	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.NotEmpty(t, result.Code)
}
