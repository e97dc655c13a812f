package template

import (
	"strings"

	"github.com/codeready-toolchain/workflow-fabric/pkg/intent"
)

const (
	ambiguityMinScore = 0.30
	ambiguityMinMargin = 0.05
	triggerMatchBonus   = 0.2
	triggerMismatchPenalty = 0.15
	dataSourceBonusPer  = 0.1
	dataSourceBonusCap  = 0.2
	actionBonusPer      = 0.05
	actionBonusCap      = 0.1
	negatedMultiplier   = 0.4
)

// Match is the scored result of matching one template against an intent.
type Match struct {
	ID              int
	Name            string
	Category        string
	Confidence      float64
	MatchedKeywords []string
}

// keywordMatches reports whether template keyword t matches intent
// keyword i: equal, t is a prefix of i, or i is substring-contained
// within t (the latter permits multi-word template keywords like
// "price feed" to match a single intent keyword like "price").
func keywordMatches(t, i string) bool {
	if t == i {
		return true
	}
	if strings.HasPrefix(i, t) {
		return true
	}
	if strings.Contains(t, i) {
		return true
	}
	return false
}

func score(c *Catalog, def Definition, in *intent.ParsedIntent) Match {
	matchedSet := make(map[string]bool)
	for _, tk := range def.Keywords {
		for _, ik := range in.Keywords {
			if keywordMatches(tk, ik) {
				matchedSet[tk] = true
				break
			}
		}
	}

	var matchedIDF, totalIDF float64
	matched := make([]string, 0, len(matchedSet))
	for _, tk := range def.Keywords {
		totalIDF += c.IDF(tk)
		if matchedSet[tk] {
			matchedIDF += c.IDF(tk)
			matched = append(matched, tk)
		}
	}

	base := 0.0
	if totalIDF > 0 {
		base = matchedIDF / totalIDF
	}

	s := base
	if in.TriggerType != intent.TriggerUnknown {
		if def.ExpectedTrigger == in.TriggerType {
			s += triggerMatchBonus
		} else {
			s -= triggerMismatchPenalty
		}
	}

	s += capped(overlapCount(in.DataSources, def.RequiredCapabilities)*dataSourceBonusPer, dataSourceBonusCap)
	s += capped(overlapCount(in.Actions, def.RequiredCapabilities)*actionBonusPer, actionBonusCap)

	if in.Negated {
		s *= negatedMultiplier
	}

	if s < 0 {
		s = 0
	}
	if s > 1 {
		s = 1
	}

	return Match{
		ID:              def.ID,
		Name:            def.Name,
		Category:        def.Category,
		Confidence:      s,
		MatchedKeywords: matched,
	}
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

func overlapCount(a, b []string) float64 {
	set := make(map[string]bool, len(b))
	for _, v := range b {
		set[v] = true
	}
	count := 0
	for _, v := range a {
		if set[v] {
			count++
		}
	}
	return float64(count)
}

// Best scores every catalog template against in and returns the top
// match, applying the ambiguity guard: the winner must score at least
// ambiguityMinScore and beat the runner-up by at least ambiguityMinMargin.
// If forceTemplateID is non-zero, scoring is bypassed entirely and that
// template is returned with confidence 1.0 iff it exists in the catalog.
func Best(in *intent.ParsedIntent, forceTemplateID int) (Match, bool) {
	c := Load()

	if forceTemplateID != 0 {
		if def, ok := c.ByID(forceTemplateID); ok {
			return Match{ID: def.ID, Name: def.Name, Category: def.Category, Confidence: 1.0}, true
		}
		return Match{}, false
	}

	var best, runnerUp Match
	haveBest := false
	for _, def := range c.Definitions {
		m := score(c, def, in)
		if !haveBest || m.Confidence > best.Confidence {
			runnerUp = best
			best = m
			haveBest = true
		} else if m.Confidence > runnerUp.Confidence {
			runnerUp = m
		}
	}

	if !haveBest {
		return Match{}, false
	}
	if best.Confidence < ambiguityMinScore {
		return Match{}, false
	}
	if best.Confidence-runnerUp.Confidence < ambiguityMinMargin {
		return Match{}, false
	}
	return best, true
}
