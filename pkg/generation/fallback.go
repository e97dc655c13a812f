package generation

import (
	"encoding/json"
	"fmt"

	"github.com/codeready-toolchain/workflow-fabric/pkg/intent"
	"github.com/codeready-toolchain/workflow-fabric/pkg/template"
)

// fallbackSource renders a minimal, always-compliant skeleton for the
// matched template: an exported main that wires handler(trigger, cb)
// synchronously, a configSchema bound to z.object, and no disallowed
// imports — by construction it passes every cheap validator check.
func fallbackSource(def template.Definition, in *intent.ParsedIntent) string {
	return fmt.Sprintf(`import { handler } from "@chainlink/cre-sdk";
import { z } from "zod";

// Fallback template: %s
export const configSchema = z.object({
  param1: z.string().optional(),
  param2: z.number().optional(),
});

export function main(trigger: unknown) {
  handler(trigger, (ctx: unknown) => {
    // %s
  });
}
`, def.Name, def.PromptSeed)
}

// fallbackConfig synthesizes a default config object from the parsed
// intent when no bundled config is available for the template.
func fallbackConfig(in *intent.ParsedIntent) string {
	cfg := map[string]any{}
	if in != nil {
		if in.Schedule != "" {
			cfg["schedule"] = in.Schedule
		}
		if len(in.Chains) > 0 {
			cfg["chain"] = in.Chains[0]
		}
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
