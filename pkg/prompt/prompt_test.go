package prompt

import (
	"testing"

	"github.com/codeready-toolchain/workflow-fabric/pkg/intent"
	"github.com/codeready-toolchain/workflow-fabric/pkg/template"
	"github.com/stretchr/testify/assert"
)

func TestBuildIncludesStaticSections(t *testing.T) {
	in := intent.Parse("Every 5 minutes check ETH price and alert when it drops below $3000")
	m, ok := template.Best(in, 0)
	assert.True(t, ok)

	msgs := Build(Request{RawPrompt: "check eth price", Intent: in, Match: m})

	assert.Contains(t, msgs.System, "Hard Constraints")
	assert.Contains(t, msgs.System, "API Reference")
	assert.Contains(t, msgs.System, "Output Instructions")
	assert.Contains(t, msgs.User, "Parsed Intent")
	assert.Contains(t, msgs.User, "Matched Template")
}

func TestBuildIncludesRetryContextWhenPresent(t *testing.T) {
	msgs := Build(Request{
		RawPrompt: "check eth price",
		Retry: &RetryContext{
			PreviousError:      "1. IMPORT: forbidden module",
			PreviousSelfReview: "used a forbidden import",
		},
	})
	assert.Contains(t, msgs.User, "Retry Context")
	assert.Contains(t, msgs.User, "forbidden module")
}

func TestBuildOmitsRetryContextWhenAbsent(t *testing.T) {
	msgs := Build(Request{RawPrompt: "check eth price"})
	assert.NotContains(t, msgs.User, "Retry Context")
}

func TestBuildIncludesStateGuidanceWhenKeywordPresent(t *testing.T) {
	in := intent.Parse("Remember the previous ETH price and alert on change")
	msgs := Build(Request{RawPrompt: "x", Intent: in})
	assert.Contains(t, msgs.System, "State Management")
}

func TestBuildOmitsStateGuidanceWhenNoKeyword(t *testing.T) {
	in := intent.Parse("Swap tokens on uniswap every hour")
	msgs := Build(Request{RawPrompt: "x", Intent: in})
	assert.NotContains(t, msgs.System, "State Management")
}

func TestBuildIncludesCapabilityDocsForMatchedTemplate(t *testing.T) {
	in := intent.Parse("Every 5 minutes check ETH price and alert when it drops below $3000")
	m, ok := template.Best(in, 0)
	assert.True(t, ok)
	msgs := Build(Request{RawPrompt: "x", Intent: in, Match: m})
	assert.Contains(t, msgs.System, "price-feed")
}

func TestBuildUnmatchedTemplateSaysNone(t *testing.T) {
	msgs := Build(Request{RawPrompt: "x"})
	assert.Contains(t, msgs.User, "None.")
}
