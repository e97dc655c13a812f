package codegen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const emitWorkflowToolName = "emit_workflow"

// emitWorkflowSchema describes the six fields the model returns as a single
// tool call rather than free-form text. toInputSchema forwards only its
// properties, so the "required" list is not sent to the API.
var emitWorkflowSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"reasoning":         map[string]any{"type": "string"},
		"workflow_source":   map[string]any{"type": "string"},
		"config_json":       map[string]any{"type": "string"},
		"consumer_contract": map[string]any{"type": "string"},
		"self_review":       map[string]any{"type": "string"},
		"explanation":       map[string]any{"type": "string"},
	},
	"required": []string{"reasoning", "workflow_source", "config_json", "self_review", "explanation"},
}

// AnthropicClient implements Client against the Anthropic Messages API,
// forcing a single structured tool call so the response can be decoded
// without free-form parsing.
type AnthropicClient struct {
	api   anthropic.Client
	model anthropic.Model
}

// NewAnthropicClient builds a Client bound to apiKey. model selects the
// Anthropic model id, used for every call; Input.ReasoningEffort is not
// sent to the API.
func NewAnthropicClient(apiKey string, model anthropic.Model) *AnthropicClient {
	return &AnthropicClient{
		api:   anthropic.NewClient(option.WithAPIKey(apiKey)),
		model: model,
	}
}

func (c *AnthropicClient) Generate(ctx context.Context, in Input) (Output, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 8192,
		System: []anthropic.TextBlockParam{
			{Text: in.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(in.User)),
		},
		Tools: []anthropic.ToolUnionParam{
			{
				OfTool: &anthropic.ToolParam{
					Name:        emitWorkflowToolName,
					Description: anthropic.String("Emit the generated workflow and its self-review."),
					InputSchema: toInputSchema(emitWorkflowSchema),
				},
			},
		},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: emitWorkflowToolName},
		},
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return Output{}, fmt.Errorf("codegen: anthropic call failed: %w", err)
	}

	if msg.StopReason == anthropic.StopReasonRefusal {
		return Output{Refused: true}, nil
	}

	for _, block := range msg.Content {
		toolUse, ok := block.AsAny().(anthropic.ToolUseBlock)
		if !ok || toolUse.Name != emitWorkflowToolName {
			continue
		}
		var payload struct {
			Reasoning        string `json:"reasoning"`
			WorkflowSource   string `json:"workflow_source"`
			ConfigJSON       string `json:"config_json"`
			ConsumerContract string `json:"consumer_contract"`
			SelfReview       string `json:"self_review"`
			Explanation      string `json:"explanation"`
		}
		if err := json.Unmarshal(toolUse.Input, &payload); err != nil {
			return Output{}, fmt.Errorf("codegen: malformed tool payload: %w", err)
		}
		return Output{
			Reasoning:        payload.Reasoning,
			WorkflowSource:   payload.WorkflowSource,
			ConfigJSON:       payload.ConfigJSON,
			ConsumerContract: payload.ConsumerContract,
			SelfReview:       payload.SelfReview,
			Explanation:      payload.Explanation,
		}, nil
	}

	return Output{}, nil
}

func toInputSchema(schema map[string]any) anthropic.ToolInputSchemaParam {
	properties, _ := schema["properties"].(map[string]any)
	return anthropic.ToolInputSchemaParam{
		Properties: properties,
	}
}
