package intent

import (
	"regexp"
	"strings"

	"github.com/codeready-toolchain/workflow-fabric/pkg/nlp"
)

// baselineChains seed cross-chain/multi-chain prompts in phase 3.
var baselineChains = []string{"ethereum", "polygon"}

// ResolveChains runs the three-phase chain resolution: word-boundary
// exact match (short keys) / substring (long keys) first; if nothing
// matched, a fuzzy pass over long keys; then the cross-chain/multi-chain
// special case; defaulting to DefaultChain if still empty.
func ResolveChains(promptLower string, tokens []string) []string {
	r := Registry()
	seen := make(map[string]bool)
	var out []string

	add := func(chain string) {
		if !seen[chain] {
			seen[chain] = true
			out = append(out, chain)
		}
	}

	for key, chain := range r.chainKeysShort {
		if wordBoundaryMatch(promptLower, key) {
			add(chain)
		}
	}
	for key, chain := range r.chainKeysLong {
		if strings.Contains(promptLower, key) {
			add(chain)
		}
	}

	if len(out) == 0 {
		for _, tok := range tokens {
			if len(tok) <= 3 {
				continue
			}
			for key, chain := range r.chainKeysLong {
				if nlp.FuzzyMatch(tok, key) {
					add(chain)
				}
			}
		}
	}

	if strings.Contains(promptLower, "cross-chain") || strings.Contains(promptLower, "cross chain") ||
		strings.Contains(promptLower, "multi-chain") || strings.Contains(promptLower, "multi chain") {
		for _, c := range baselineChains {
			add(c)
		}
	}

	if len(out) == 0 {
		add(DefaultChain)
	}

	return out
}

func wordBoundaryMatch(text, word string) bool {
	pattern := `\b` + regexp.QuoteMeta(word) + `\b`
	matched, _ := regexp.MatchString(pattern, text)
	return matched
}
