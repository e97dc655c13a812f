package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExpandsAbbreviations(t *testing.T) {
	assert.Equal(t, "every 5 minute check transaction", Normalize("every 5 min check tx"))
}

func TestKeywordsFiltersShortAndStopWords(t *testing.T) {
	kws := Keywords("Every 5 minutes check the ETH price and alert when it drops")
	assert.Contains(t, kws, "every")
	assert.Contains(t, kws, "minutes")
	assert.Contains(t, kws, "price")
	assert.Contains(t, kws, "alert")
	assert.Contains(t, kws, "drops")
	assert.NotContains(t, kws, "the")
	assert.NotContains(t, kws, "and")
	assert.NotContains(t, kws, "eth") // len 3, filtered
}

func TestKeywordsDedupPreservesFirstSeenOrder(t *testing.T) {
	kws := Keywords("price price alert price")
	assert.Equal(t, []string{"price", "alert"}, kws)
}

func TestLevenshteinBasics(t *testing.T) {
	assert.Equal(t, 0, Levenshtein("price", "price"))
	assert.Equal(t, 1, Levenshtein("price", "prise"))
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
}

func TestAdaptiveThreshold(t *testing.T) {
	assert.Equal(t, 1, AdaptiveThreshold(5))
	assert.Equal(t, 1, AdaptiveThreshold(7))
	assert.Equal(t, 2, AdaptiveThreshold(8))
}

func TestFuzzyMatchRespectsThreshold(t *testing.T) {
	assert.True(t, FuzzyMatch("balanse", "balance"))
	assert.False(t, FuzzyMatch("balxyz", "balance"))
}

func TestDetectNegationBelowThreshold(t *testing.T) {
	tokens := Tokenize("every five minutes check the price and alert me when it drops")
	res := DetectNegation(tokens)
	assert.False(t, res.Negated)
}

func TestDetectNegationAboveThreshold(t *testing.T) {
	tokens := Tokenize("don't alert me")
	res := DetectNegation(tokens)
	assert.True(t, res.Negated)
}

func TestStemStripsCommonSuffixes(t *testing.T) {
	assert.Equal(t, "trigger", Stem("triggers"))
	assert.Equal(t, "cross", Stem("crossing"))
	assert.Equal(t, "minute", Stem("minutes"))
}

func TestTieredMatchExactBeatsFuzzy(t *testing.T) {
	keys := []string{"price-feed", "news-api"}
	match, ok := TieredMatch("price-feed", keys)
	assert.True(t, ok)
	assert.Equal(t, "price-feed", match)
}

func TestTieredMatchFallsBackToFuzzy(t *testing.T) {
	keys := []string{"uniswap"}
	match, ok := TieredMatch("unisw4p", keys)
	assert.True(t, ok)
	assert.Equal(t, "uniswap", match)
}

func TestTieredMatchNoMatch(t *testing.T) {
	_, ok := TieredMatch("completely-unrelated-term", []string{"uniswap"})
	assert.False(t, ok)
}
