// Package codegen wraps a single structured-output LLM call that turns an
// assembled prompt into workflow source, config, and a self-review, with
// red-flag self-review scanning and reasoning-effort escalation on retry.
package codegen

import "context"

// Input is one code-generation call's request.
type Input struct {
	System string
	User   string

	// ReasoningEffort escalates across orchestrator retries ("low",
	// "medium", "high"). AnthropicClient does not send it to the model;
	// its requests are the same at every effort level.
	ReasoningEffort string
}

// Output is the LLM's structured response. The tool schema lists six
// fields, five of them as required (ConsumerContract is optional);
// Generate rejects an empty WorkflowSource and checks no other field.
type Output struct {
	Reasoning        string
	WorkflowSource   string
	ConfigJSON       string
	ConsumerContract string // optional
	SelfReview       string
	Explanation      string

	Refused bool
}

// Client is the narrow interface the generator depends on, letting tests
// substitute a fake instead of talking to a real LLM provider.
type Client interface {
	Generate(ctx context.Context, in Input) (Output, error)
}
