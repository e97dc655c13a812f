package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHappyGeneration(t *testing.T) {
	i := Parse("Every 5 minutes check ETH price and alert when it drops below $3000")
	assert.Equal(t, TriggerCron, i.TriggerType)
	assert.Equal(t, "*/5 * * * *", i.Schedule)
	assert.Contains(t, i.DataSources, "price-feed")
	assert.False(t, i.Negated)
}

func TestParseIntentDisambiguation(t *testing.T) {
	i := Parse("Pool resources for the media article project")
	assert.NotContains(t, i.DataSources, "defi-api")
	assert.NotContains(t, i.DataSources, "news-api")
}

func TestParseChainsDefaultWhenUnresolved(t *testing.T) {
	i := Parse("Send me a notification every hour")
	require.NotEmpty(t, i.Chains)
	assert.Equal(t, []string{DefaultChain}, i.Chains)
}

func TestParseActionsNeverEmpty(t *testing.T) {
	i := Parse("What is the meaning of life and the universe")
	require.NotEmpty(t, i.Actions)
}

func TestParseNegationReducesConfidence(t *testing.T) {
	negative := Parse("Don't alert me every time the price changes")
	positive := Parse("Alert me every time the price changes")
	assert.True(t, negative.Negated)
	assert.LessOrEqual(t, negative.Confidence, 0.4*positive.Confidence+1e-9)
}

func TestParseCrossChainAddsBaselineChains(t *testing.T) {
	i := Parse("Bridge tokens across a cross-chain network every day")
	assert.Contains(t, i.Chains, "ethereum")
	assert.Contains(t, i.Chains, "polygon")
}

func TestParseSwapDroppedWithoutConfirmingToken(t *testing.T) {
	i := Parse("I want to buy and sell tokens every hour")
	assert.NotContains(t, i.Actions, "swap")
}

func TestParseSwapKeptWithConfirmingToken(t *testing.T) {
	i := Parse("Swap tokens on uniswap every hour")
	assert.Contains(t, i.Actions, "swap")
}

func TestParseConditionsExtracted(t *testing.T) {
	i := Parse("Alert when price drops below $100 or rises above $200")
	assert.NotEmpty(t, i.Conditions)
}

func TestParseScheduleOnlySetForCronTrigger(t *testing.T) {
	i := Parse("Call the API endpoint every 5 minutes")
	if i.TriggerType != TriggerCron {
		assert.Empty(t, i.Schedule)
	}
}

func TestHasStateKeyword(t *testing.T) {
	assert.True(t, HasStateKeyword([]string{"remember", "price"}))
	assert.False(t, HasStateKeyword([]string{"price", "alert"}))
}
