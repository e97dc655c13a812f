package intent

import (
	"strings"

	"github.com/codeready-toolchain/workflow-fabric/pkg/nlp"
)

// sourceCandidate tracks one elected data source and whether it was
// elected only by an ambiguous keyword (which disqualifies it unless a
// confirming trigger is also present).
type sourceCandidate struct {
	confirmed bool
}

// ResolveDataSources collects candidate data sources via tiered lookup on
// single-word keys, word-boundary scan for short/multi-word keys, and an
// entity pass over unambiguous brand names, then drops any source whose
// only support came from an ambiguous keyword.
func ResolveDataSources(promptLower string, tokens []string) (sources []string, entities map[string][]string) {
	r := Registry()
	candidates := make(map[string]*sourceCandidate)
	entities = make(map[string][]string)
	order := make([]string, 0)

	elect := func(source string, confirmed bool) {
		c, ok := candidates[source]
		if !ok {
			c = &sourceCandidate{}
			candidates[source] = c
			order = append(order, source)
		}
		if confirmed {
			c.confirmed = true
		}
	}

	for _, tok := range tokens {
		if len(tok) <= 3 {
			continue
		}
		if matched, ok := nlp.TieredMatch(tok, keysOf(r.dataSourceKeysLong)); ok {
			source := r.dataSourceKeysLong[matched]
			elect(source, !r.ambiguousKeywords[tok])
		}
	}

	for key, source := range r.dataSourceKeysShort {
		if wordBoundaryMatch(promptLower, key) {
			elect(source, true)
		}
	}
	for phrase, source := range r.dataSourceMultiWord {
		if strings.Contains(promptLower, phrase) {
			elect(source, true)
		}
	}

	for brand, source := range r.brandEntities {
		if strings.Contains(promptLower, brand) {
			elect(source, true)
			entities[source] = appendUnique(entities[source], brand)
		}
	}

	// Disambiguation: require at least one confirming trigger per source
	// (a brand entity, a non-ambiguous keyword, or a confirming keyword
	// from the registry's per-source list).
	for _, source := range order {
		if candidates[source].confirmed {
			continue
		}
		for _, word := range r.confirmingKeywords[source] {
			if strings.Contains(promptLower, word) {
				candidates[source].confirmed = true
				break
			}
		}
	}

	for _, source := range order {
		if candidates[source].confirmed {
			sources = append(sources, source)
		}
	}

	return sources, entities
}

func keysOf(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
