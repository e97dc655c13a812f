package template

import (
	"testing"

	"github.com/codeready-toolchain/workflow-fabric/pkg/intent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuildsIDFTable(t *testing.T) {
	c := Load()
	require.NotEmpty(t, c.Definitions)
	assert.Greater(t, c.IDF("price"), 0.0)
	assert.Equal(t, 0.0, c.IDF("nonexistent-keyword"))
}

func TestKeywordMatchesPrefixDirection(t *testing.T) {
	assert.True(t, keywordMatches("drop", "drops"))
	assert.True(t, keywordMatches("price", "price"))
	assert.False(t, keywordMatches("mint", "minute"))
}

func TestKeywordMatchesTemplateContainsIntentDirection(t *testing.T) {
	assert.True(t, keywordMatches("price feed", "price"))
}

func TestBestHappyGenerationPicksTemplateOne(t *testing.T) {
	in := intent.Parse("Every 5 minutes check ETH price and alert when it drops below $3000")
	m, ok := Best(in, 0)
	require.True(t, ok)
	assert.Equal(t, 1, m.ID)
	assert.GreaterOrEqual(t, m.Confidence, ambiguityMinScore)
}

func TestBestAmbiguousInputReturnsNoTemplate(t *testing.T) {
	in := intent.Parse("What is the meaning of life and the universe")
	_, ok := Best(in, 0)
	assert.False(t, ok)
}

func TestBestForceTemplateOverrideBypassesScoring(t *testing.T) {
	in := intent.Parse("What is the meaning of life and the universe")
	m, ok := Best(in, 2)
	require.True(t, ok)
	assert.Equal(t, 2, m.ID)
	assert.Equal(t, 1.0, m.Confidence)
}

func TestBestForceTemplateOverrideUnknownIDFails(t *testing.T) {
	in := intent.Parse("anything at all")
	_, ok := Best(in, 9999)
	assert.False(t, ok)
}

func TestBestNegationDampensConfidence(t *testing.T) {
	positive := intent.Parse("Every 5 minutes check ETH price and alert when it drops below $3000")
	negative := intent.Parse("Don't alert me every 5 minutes when ETH price drops below $3000")

	pm, pOK := Best(positive, 0)
	require.True(t, pOK)

	nm, nOK := Best(negative, 0)
	if nOK {
		assert.Less(t, nm.Confidence, pm.Confidence)
	}
}

func TestSiblingsReturnsUpToTwoOtherTemplates(t *testing.T) {
	s := Siblings(1)
	assert.LessOrEqual(t, len(s), 2)
	for _, id := range s {
		assert.NotEqual(t, 1, id)
	}
}

func TestSiblingsUnknownIDReturnsNil(t *testing.T) {
	assert.Nil(t, Siblings(9999))
}
