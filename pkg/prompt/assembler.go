// Package prompt assembles the system and user prompt text sent to the
// code-generator adapter (C9) from a parsed intent and a matched template.
// Static sections are fixed; dynamic sections (few-shot examples, capability
// docs, retry context, state-management guidance) are composed per request
// from module-level caches populated at process start.
package prompt

import (
	"fmt"
	"strings"

	"github.com/codeready-toolchain/workflow-fabric/pkg/intent"
	"github.com/codeready-toolchain/workflow-fabric/pkg/template"
)

// RetryContext carries the previous attempt's validator error list and
// self-review text, fed back verbatim on a generation retry.
type RetryContext struct {
	PreviousError      string
	PreviousSelfReview string
}

// Request bundles everything the assembler needs for one generation
// attempt.
type Request struct {
	RawPrompt         string
	Intent            *intent.ParsedIntent
	Match             template.Match
	Retry             *RetryContext
	SupplementaryDocs []string
}

// Messages is the assembled system/user prompt pair.
type Messages struct {
	System string
	User   string
}

// Build assembles the system and user prompt for one generation attempt.
func Build(req Request) Messages {
	return Messages{
		System: buildSystem(req),
		User:   buildUser(req),
	}
}

func buildSystem(req Request) string {
	var sb strings.Builder
	sb.WriteString(FormatRoleAndConstraints())
	sb.WriteString("\n")
	sb.WriteString(FormatAPIReference())
	sb.WriteString("\n\n")
	sb.WriteString(FormatOutputInstructions())

	if ex := formatFewShots(req.Match.ID); ex != "" {
		sb.WriteString("\n\n")
		sb.WriteString(ex)
	}

	if docs := formatCapabilityDocs(req); docs != "" {
		sb.WriteString("\n\n")
		sb.WriteString(docs)
	}

	if len(req.SupplementaryDocs) > 0 {
		sb.WriteString("\n\n## Supplementary Docs\n")
		for _, d := range req.SupplementaryDocs {
			sb.WriteString("- ")
			sb.WriteString(d)
			sb.WriteString("\n")
		}
	}

	if req.Intent != nil && intent.HasStateKeyword(req.Intent.Keywords) {
		sb.WriteString("\n\n")
		sb.WriteString(stateManagementGuidance)
	}

	return sb.String()
}

const stateManagementGuidance = `## State Management
This workflow needs to remember data across runs. Use the SDK's durable
key/value store; never rely on in-memory module state surviving a restart.`

func formatFewShots(templateID int) string {
	if templateID == 0 {
		return ""
	}
	ids := append([]int{templateID}, template.Siblings(templateID)...)
	var sb strings.Builder
	sb.WriteString("## Examples\n")
	wrote := false
	for _, id := range ids {
		if ex := FewShotFor(id); ex != "" {
			sb.WriteString(ex)
			sb.WriteString("\n")
			wrote = true
		}
	}
	if !wrote {
		return ""
	}
	return sb.String()
}

func formatCapabilityDocs(req Request) string {
	c := template.Load()
	def, ok := c.ByID(req.Match.ID)
	if !ok {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Capability Notes\n")
	wrote := false
	for _, capability := range def.RequiredCapabilities {
		if d := DocFor(capability); d != "" {
			sb.WriteString("- ")
			sb.WriteString(d)
			sb.WriteString("\n")
			wrote = true
		}
	}
	if !wrote {
		return ""
	}
	return sb.String()
}

func buildUser(req Request) string {
	var sb strings.Builder

	sb.WriteString("## User Request\n")
	sb.WriteString(req.RawPrompt)
	sb.WriteString("\n\n")

	if req.Intent != nil {
		sb.WriteString(formatIntentSummary(req.Intent))
		sb.WriteString("\n")
	}

	sb.WriteString(formatTemplateSummary(req.Match))
	sb.WriteString("\n")

	if req.Retry != nil {
		sb.WriteString("\n## Retry Context\n")
		sb.WriteString("Previous error:\n")
		sb.WriteString(req.Retry.PreviousError)
		sb.WriteString("\n\nPrevious self-review:\n")
		sb.WriteString(req.Retry.PreviousSelfReview)
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatIntentSummary(in *intent.ParsedIntent) string {
	return fmt.Sprintf(
		"## Parsed Intent\nTrigger: %s\nSchedule: %s\nData sources: %s\nActions: %s\nChains: %s\nConditions: %s\n",
		in.TriggerType, in.Schedule, strings.Join(in.DataSources, ", "),
		strings.Join(in.Actions, ", "), strings.Join(in.Chains, ", "),
		strings.Join(in.Conditions, ", "),
	)
}

func formatTemplateSummary(m template.Match) string {
	if m.ID == 0 {
		return "## Matched Template\nNone.\n"
	}
	return fmt.Sprintf(
		"## Matched Template\nID: %d\nName: %s\nCategory: %s\nConfidence: %.2f\n",
		m.ID, m.Name, m.Category, m.Confidence,
	)
}
