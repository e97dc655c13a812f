// Package template holds the fixed workflow template catalog and the
// keyword-overlap matcher that picks a template for a parsed intent.
package template

import (
	"math"
	"sync"

	"github.com/codeready-toolchain/workflow-fabric/pkg/intent"
)

// Definition is one fixed, catalog-level workflow template. The set of
// definitions is closed and built once at process start.
type Definition struct {
	ID                 int
	Name               string
	Category           string
	Keywords           []string
	RequiredCapabilities []string
	ExpectedTrigger    intent.TriggerType
	PromptSeed         string
}

// Catalog is the fixed template set plus the precomputed IDF weight of
// every keyword that appears across it.
type Catalog struct {
	Definitions []Definition
	idf         map[string]float64
}

var (
	once    sync.Once
	catalog *Catalog
)

// Load returns the process-wide Catalog singleton, building it (and its
// IDF table) on first call.
func Load() *Catalog {
	once.Do(func() {
		defs := defaultDefinitions()
		catalog = &Catalog{
			Definitions: defs,
			idf:         computeIDF(defs),
		}
	})
	return catalog
}

// computeIDF computes IDF(k) = ln(N / df(k)) for every keyword k that
// appears in at least one template, where N is the template count and
// df(k) is the number of templates whose keyword list contains k.
func computeIDF(defs []Definition) map[string]float64 {
	df := make(map[string]int)
	for _, d := range defs {
		seen := make(map[string]bool)
		for _, k := range d.Keywords {
			if !seen[k] {
				seen[k] = true
				df[k]++
			}
		}
	}
	n := float64(len(defs))
	idf := make(map[string]float64, len(df))
	for k, count := range df {
		idf[k] = math.Log(n / float64(count))
	}
	return idf
}

// IDF returns the precomputed inverse document frequency of keyword k, or
// 0 if it appears in no template (never happens for a template's own
// keywords, but the zero default keeps callers simple).
func (c *Catalog) IDF(k string) float64 {
	return c.idf[k]
}

// ByID returns the template definition with the given id, or false if no
// such template exists.
func (c *Catalog) ByID(id int) (Definition, bool) {
	for _, d := range c.Definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

func defaultDefinitions() []Definition {
	return []Definition{
		{
			ID:       1,
			Name:     "Price Threshold Alert",
			Category: "monitoring",
			Keywords: []string{
				"price", "alert", "threshold", "drop", "rise", "below",
				"above", "monitor", "check", "eth", "token", "every",
			},
			RequiredCapabilities: []string{"price-feed", "notify"},
			ExpectedTrigger:      intent.TriggerCron,
			PromptSeed:           "Build a scheduled workflow that reads a token price and emits an alert when it crosses a threshold.",
		},
		{
			ID:       2,
			Name:     "DEX Swap Automation",
			Category: "trading",
			Keywords: []string{
				"swap", "dex", "trade", "buy", "sell", "liquidity",
				"slippage", "router", "token", "uniswap",
			},
			RequiredCapabilities: []string{"dex-api", "onchain-write"},
			ExpectedTrigger:      intent.TriggerEVMLog,
			PromptSeed:           "Build a workflow that executes a token swap through a DEX router in response to an on-chain trigger.",
		},
		{
			ID:       3,
			Name:     "News Sentiment Monitor",
			Category: "monitoring",
			Keywords: []string{
				"news", "article", "headline", "sentiment", "monitor",
				"check", "media", "project",
			},
			RequiredCapabilities: []string{"news-api", "notify"},
			ExpectedTrigger:      intent.TriggerCron,
			PromptSeed:           "Build a scheduled workflow that polls a news feed and notifies on relevant coverage.",
		},
		{
			ID:       4,
			Name:     "On-chain Event Watcher",
			Category: "automation",
			Keywords: []string{
				"event", "log", "emit", "contract", "onchain",
				"transaction", "block", "transfer", "mint", "burn",
			},
			RequiredCapabilities: []string{"onchain-read", "notify"},
			ExpectedTrigger:      intent.TriggerEVMLog,
			PromptSeed:           "Build a workflow that reacts to a specific on-chain event log and takes a downstream action.",
		},
		{
			ID:       5,
			Name:     "Portfolio Rebalancer",
			Category: "trading",
			Keywords: []string{
				"portfolio", "rebalance", "stake", "bridge", "allocate",
				"defi", "yield", "borrow", "lend",
			},
			RequiredCapabilities: []string{"defi-api", "onchain-write"},
			ExpectedTrigger:      intent.TriggerCron,
			PromptSeed:           "Build a scheduled workflow that rebalances a portfolio across DeFi positions.",
		},
		{
			ID:       6,
			Name:     "API Polling Webhook",
			Category: "automation",
			Keywords: []string{
				"api", "endpoint", "webhook", "fetch", "poll", "request",
				"call", "rest", "url",
			},
			RequiredCapabilities: []string{"http-client", "notify"},
			ExpectedTrigger:      intent.TriggerHTTP,
			PromptSeed:           "Build a workflow that polls an external HTTP endpoint and forwards the result.",
		},
	}
}
