package intent

import (
	"strings"

	"github.com/codeready-toolchain/workflow-fabric/pkg/nlp"
)

// scoreTrigger tallies tiered keyword matches for one trigger type's
// signal set against the prompt's tokens: substring include (score 2),
// stemmed-word match (score 1.5), adaptive fuzzy match (score 1), or no
// match.
func scoreTrigger(promptLower string, tokens []string, signals []string) float64 {
	var score float64
	for _, sig := range signals {
		if strings.Contains(promptLower, sig) {
			score += 2
			continue
		}
		matchedStemmed := false
		for _, tok := range tokens {
			if nlp.Stem(tok) == nlp.Stem(sig) {
				score += 1.5
				matchedStemmed = true
				break
			}
		}
		if matchedStemmed {
			continue
		}
		for _, tok := range tokens {
			if nlp.FuzzyMatch(tok, sig) {
				score += 1
				break
			}
		}
	}
	return score
}

// classifyTrigger scores all three signal sets and returns the winner
// plus a confidence of max_score / sum_scores. A +3 cron bonus is applied
// when a schedule expression was detected. Ties resolve cron > http >
// evm_log.
func classifyTrigger(promptLower string, tokens []string, hasSchedule bool) (TriggerType, float64) {
	signals := Registry().triggerSignals

	cronScore := scoreTrigger(promptLower, tokens, signals[TriggerCron])
	if hasSchedule {
		cronScore += 3
	}
	httpScore := scoreTrigger(promptLower, tokens, signals[TriggerHTTP])
	evmScore := scoreTrigger(promptLower, tokens, signals[TriggerEVMLog])

	sum := cronScore + httpScore + evmScore
	if sum <= 0 {
		return TriggerUnknown, 0
	}

	best := TriggerCron
	bestScore := cronScore
	if httpScore > bestScore {
		best, bestScore = TriggerHTTP, httpScore
	}
	if evmScore > bestScore {
		best, bestScore = TriggerEVMLog, evmScore
	}

	return best, bestScore / sum
}
