package prompt

import (
	"strconv"
	"strings"
)

// roleSection is the fixed role and hard-constraint block every generation
// request carries, independent of the matched template or intent.
const roleSection = `You are a workflow code generator for the CRE runtime. Generate a single
TypeScript module that implements the requested automation.`

var hardConstraints = []string{
	"Export a top-level function named main; it is the entrypoint the runtime invokes.",
	"Import only from @chainlink/cre-sdk (and its subpaths), zod, or viem (and its subpaths).",
	"The handler callback passed to handler(trigger, cb) must not be declared async and must not use await.",
	"Declare and export a configSchema bound to a z.object(...) call describing the runtime config shape.",
	"config_json must be a JSON object literal, never an array or a bare scalar.",
	"If the workflow writes on-chain, config must carry at least one chain-related key.",
	"If the workflow is cron-triggered, config must carry a schedule-like key.",
}

const apiReferenceSection = `## API Reference
- handler(trigger, callback) registers a workflow entrypoint; trigger describes the schedule/source.
- Runtime config is parsed against configSchema before the workflow runs.
- Use the SDK's typed clients for on-chain reads/writes; do not hand-roll RPC calls.`

const outputInstructionsSection = `## Output Instructions
Return the structured fields exactly as specified: reasoning, the workflow source,
config as a JSON string, an optional consumer-contract, a self-review, and an
explanation. Do not wrap the workflow source in markdown fences.`

// FormatRoleAndConstraints renders the fixed role description and the
// seven hard constraints as a single system-prompt section.
func FormatRoleAndConstraints() string {
	var sb strings.Builder
	sb.WriteString(roleSection)
	sb.WriteString("\n\n## Hard Constraints\n")
	for i, c := range hardConstraints {
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(". ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatAPIReference renders the fixed API reference section.
func FormatAPIReference() string {
	return apiReferenceSection
}

// FormatOutputInstructions renders the fixed output-format instructions.
func FormatOutputInstructions() string {
	return outputInstructionsSection
}
