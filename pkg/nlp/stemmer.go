package nlp

import "strings"

// suffixRules are tried in order; the first matching rule whose
// stripped stem would still be at least 3 characters long wins. This is a
// deliberately small Porter-style suffix stripper — good enough to match
// "minutes"/"minute", "triggers"/"trigger", "crossing"/"cross" — not a
// full Porter/Snowball implementation.
var suffixRules = []struct {
	suffix      string
	replacement string
}{
	{"ies", "y"},
	{"sses", "ss"},
	{"ing", ""},
	{"edly", ""},
	{"ed", ""},
	{"s", ""},
}

// Stem reduces word to a crude root form by stripping common English
// inflectional suffixes. Used for the "stemmed-word match" tier in the
// intent parser's tiered lookups.
func Stem(word string) string {
	w := strings.ToLower(word)
	if len(w) <= 3 {
		return w
	}
	for _, rule := range suffixRules {
		if strings.HasSuffix(w, rule.suffix) {
			stem := strings.TrimSuffix(w, rule.suffix) + rule.replacement
			if len(stem) >= 3 {
				return stem
			}
		}
	}
	return w
}
