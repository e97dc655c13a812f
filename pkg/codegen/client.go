package codegen

import (
	"context"
	"strings"

	"github.com/codeready-toolchain/workflow-fabric/pkg/apierrors"
)

// Generate drives one code-generation attempt, including its own internal
// red-flag retry loop: up to maxRedFlagRetries additional calls when the
// self-review trips a red-flag pair, each one feeding the prior self-review
// back as extra user context. The orchestrator (C12) caps
// maxRedFlagRetries at 1 on every outer retry to bound total LLM calls.
func Generate(ctx context.Context, client Client, in Input, maxRedFlagRetries int) (Output, error) {
	attempt := in

	for redFlagAttempts := 0; ; redFlagAttempts++ {
		out, err := client.Generate(ctx, attempt)
		if err != nil {
			return Output{}, apierrors.New(apierrors.AIServiceError, "generation call failed: "+err.Error())
		}
		if out.Refused {
			return Output{}, apierrors.New(apierrors.AIServiceError, "model refused the generation request")
		}
		if strings.TrimSpace(out.WorkflowSource) == "" {
			return Output{}, apierrors.New(apierrors.AIServiceError, "model returned an empty workflow source")
		}

		if !hasRedFlag(out.SelfReview) || redFlagAttempts >= maxRedFlagRetries {
			return out, nil
		}

		attempt = in
		attempt.User = in.User + "\n\n## Previous Self-Review (unresolved)\n" + out.SelfReview
	}
}
