package intent

import (
	"strings"

	"github.com/codeready-toolchain/workflow-fabric/pkg/nlp"
)

// Parse runs the full NLP micro-pipeline over prompt: normalize →
// keywords → negation → trigger classification → schedule extraction →
// conditions → chains → data sources → actions. The result is immutable
// and always carries a non-empty Chains and Actions list.
func Parse(prompt string) *ParsedIntent {
	normalized := nlp.Normalize(prompt)
	lower := strings.ToLower(normalized)
	tokens := nlp.Tokenize(normalized)
	keywords := nlp.Keywords(normalized)

	negation := nlp.DetectNegation(tokens)

	schedule, hasSchedule := ExtractSchedule(lower)
	triggerType, rawConfidence := classifyTrigger(lower, tokens, hasSchedule)

	confidence := rawConfidence
	if negation.Negated {
		confidence = rawConfidence * 0.4
	}

	if triggerType != TriggerCron {
		schedule = ""
	}

	dataSources, entities := ResolveDataSources(lower, tokens)
	actions := ResolveActions(lower, tokens)
	chains := ResolveChains(lower, tokens)
	conditions := ExtractConditions(normalized)

	return &ParsedIntent{
		TriggerType: triggerType,
		Confidence:  confidence,
		Schedule:    schedule,
		DataSources: dataSources,
		Actions:     actions,
		Chains:      chains,
		Conditions:  conditions,
		Keywords:    keywords,
		Negated:     negation.Negated,
		Entities:    entities,
	}
}

// HasStateKeyword reports whether the intent's keywords (exact or
// stemmed) match the fixed "state keyword" set, gating the prompt
// assembly's state-management guidance section (C8).
func HasStateKeyword(keywords []string) bool {
	state := Registry().stateKeywords
	for _, k := range keywords {
		if state[k] {
			return true
		}
		if state[nlp.Stem(k)] {
			return true
		}
	}
	return false
}
