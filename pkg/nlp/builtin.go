package nlp

import "sync"

// BuiltinTables holds the fixed lookup tables the NLP pipeline and intent
// parser are built on: abbreviation expansions, stop words, and negation
// markers. Populated once at process start via sync.Once and read-only
// thereafter.
type BuiltinTables struct {
	Abbreviations map[string]string
	StopWords     map[string]bool
	NegationWords map[string]bool
}

var (
	builtinOnce  sync.Once
	builtinTable *BuiltinTables
)

// Builtin returns the process-wide singleton table set.
func Builtin() *BuiltinTables {
	builtinOnce.Do(func() {
		builtinTable = &BuiltinTables{
			Abbreviations: defaultAbbreviations(),
			StopWords:     toSet(defaultStopWords()),
			NegationWords: toSet(defaultNegationWords()),
		}
	})
	return builtinTable
}

func toSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func defaultAbbreviations() map[string]string {
	return map[string]string{
		"min":   "minute",
		"mins":  "minutes",
		"hr":    "hour",
		"hrs":   "hours",
		"sec":   "second",
		"secs":  "seconds",
		"tx":    "transaction",
		"txs":   "transactions",
		"addr":  "address",
		"bal":   "balance",
		"amt":   "amount",
		"pct":   "percent",
		"vol":   "volume",
		"px":    "price",
		"conf":  "confirmation",
		"avg":   "average",
		"qty":   "quantity",
		"max":   "maximum",
		"wk":    "week",
		"wks":   "weeks",
		"mo":    "month",
		"yr":    "year",
	}
}

func defaultStopWords() []string {
	return []string{
		"the", "and", "for", "with", "that", "this", "from", "have", "has",
		"will", "would", "could", "should", "please", "want", "need", "like",
		"just", "also", "then", "than", "when", "what", "which", "who",
		"whom", "whose", "where", "why", "how", "can", "does", "did",
		"into", "onto", "about", "each", "some", "any", "all",
		"both", "more", "most", "other", "such", "only", "own", "same",
		"very", "there", "here", "over", "under", "again", "further",
		"once", "here's",
	}
}

func defaultNegationWords() []string {
	return []string{
		"not", "no", "never", "don't", "doesn't", "didn't", "won't",
		"wouldn't", "can't", "cannot", "shouldn't", "isn't", "aren't",
		"stop", "without", "neither", "nor", "none",
	}
}
