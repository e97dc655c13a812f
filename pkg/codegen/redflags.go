package codegen

import (
	"regexp"
	"strings"
)

// redFlagPair is a (violation keyword, negative-sentiment words) pair. A
// self-review trips the pair when it mentions the violation keyword and,
// anywhere in the same text, one of the negative-sentiment words, signaling the
// model itself flagged a constraint violation it did not actually fix.
type redFlagPair struct {
	violation regexp.Regexp
	sentiment []string
}

var redFlagPairs = buildRedFlagPairs()

func buildRedFlagPairs() []redFlagPair {
	pairs := []struct {
		violation string
		sentiment []string
	}{
		{`async(/| |-)?await`, []string{"found", "detected", "uses", "has", "violation", "issue"}},
		{`getConfig`, []string{"uses", "found", "still", "calls"}},
		{`missing (runner|handler|export|main)`, []string{""}},
		{`forbidden import`, []string{"found", "detected", "present"}},
		{`configSchema`, []string{"missing", "absent", "not found"}},
	}
	out := make([]redFlagPair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, redFlagPair{
			violation: *regexp.MustCompile(`(?i)` + p.violation),
			sentiment: p.sentiment,
		})
	}
	return out
}

// hasRedFlag reports whether selfReview trips any red-flag pair: the
// violation pattern matches, and (when the pair carries sentiment words)
// at least one sentiment word is also present.
func hasRedFlag(selfReview string) bool {
	lower := strings.ToLower(selfReview)
	for _, pair := range redFlagPairs {
		if !pair.violation.MatchString(selfReview) {
			continue
		}
		if len(pair.sentiment) == 1 && pair.sentiment[0] == "" {
			return true
		}
		for _, s := range pair.sentiment {
			if strings.Contains(lower, s) {
				return true
			}
		}
	}
	return false
}
