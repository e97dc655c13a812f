package nlp

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`[a-zA-Z0-9']+`)

// Normalize expands fixed abbreviations (min→minute, hr→hour, tx→transaction,
// …) word by word, preserving surrounding punctuation and case of
// unmatched tokens.
func Normalize(text string) string {
	tbl := Builtin().Abbreviations
	return wordPattern.ReplaceAllStringFunc(text, func(tok string) string {
		if expanded, ok := tbl[strings.ToLower(tok)]; ok {
			return expanded
		}
		return tok
	})
}

// Tokenize splits text into lowercase word tokens, dropping punctuation.
func Tokenize(text string) []string {
	matches := wordPattern.FindAllString(text, -1)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = strings.ToLower(m)
	}
	return out
}

// Keywords extracts lowercased, punctuation-stripped tokens longer than 3
// characters, drops stop words, and deduplicates while preserving
// first-seen order.
func Keywords(text string) []string {
	stop := Builtin().StopWords
	seen := make(map[string]bool)
	var out []string
	for _, tok := range Tokenize(text) {
		if len(tok) <= 3 {
			continue
		}
		if stop[tok] {
			continue
		}
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// NegationResult is the outcome of scanning content tokens for negation
// markers.
type NegationResult struct {
	Negated       bool
	PoisonedCount int
	ContentCount  int
}

// DetectNegation scans tokens for negation markers; each marker poisons
// the next 5 tokens (the marker itself is not poisoned). The text is
// negated iff more than 40% of all tokens are poisoned.
func DetectNegation(tokens []string) NegationResult {
	markers := Builtin().NegationWords
	poisoned := make([]bool, len(tokens))

	remaining := 0
	for i, tok := range tokens {
		if remaining > 0 {
			poisoned[i] = true
			remaining--
		}
		if markers[tok] {
			remaining = 5
		}
	}

	poisonedCount := 0
	for _, p := range poisoned {
		if p {
			poisonedCount++
		}
	}

	negated := false
	if len(tokens) > 0 {
		negated = float64(poisonedCount)/float64(len(tokens)) > 0.4
	}

	return NegationResult{Negated: negated, PoisonedCount: poisonedCount, ContentCount: len(tokens)}
}

// TieredMatch resolves a single word against a map of key → tag using the
// NLP pipeline's standard tier order: exact, stemmed, then fuzzy. It
// returns the matched key and true, or ("", false) if nothing matches any
// tier.
func TieredMatch(word string, keys []string) (string, bool) {
	lower := strings.ToLower(word)

	for _, k := range keys {
		if strings.ToLower(k) == lower {
			return k, true
		}
	}

	stemmedWord := Stem(lower)
	for _, k := range keys {
		if Stem(strings.ToLower(k)) == stemmedWord {
			return k, true
		}
	}

	for _, k := range keys {
		if FuzzyMatch(lower, strings.ToLower(k)) {
			return k, true
		}
	}

	return "", false
}
