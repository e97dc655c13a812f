package prompt

import "sync"

// docCache and fewShotCache are populated once at process start and read
// from thereafter; docCache is keyed by a required-capability tag and
// fewShotCache by template id.
var (
	docOnce  sync.Once
	docCache map[string]string

	fewShotOnce  sync.Once
	fewShotCache map[int]string
)

func docs() map[string]string {
	docOnce.Do(func() {
		docCache = map[string]string{
			"price-feed": "Read price data through the SDK's price-feed client; never call an external HTTP price API directly.",
			"notify":     "Emit notifications through the SDK's notification client; include a human-readable summary.",
			"dex-api":    "Route swaps through the SDK's DEX client; always set an explicit slippage bound.",
			"onchain-write": "Writes must go through the SDK's typed write client, never raw RPC calls.",
			"onchain-read":  "Reads must go through the SDK's typed read client.",
			"news-api":      "Poll the SDK's news client on the configured schedule; do not scrape HTML.",
			"defi-api":      "Use the SDK's DeFi client for lending/borrowing/yield positions.",
			"http-client":   "Use the SDK's HTTP client wrapper, which enforces the allowed-domain list.",
		}
	})
	return docCache
}

func fewShots() map[int]string {
	fewShotOnce.Do(func() {
		fewShotCache = map[int]string{
			1: "// Example: price threshold alert\nhandler(cronTrigger, (cfg) => { /* read price, compare threshold, notify */ });",
			2: "// Example: DEX swap automation\nhandler(evmLogTrigger, (cfg) => { /* read log, compute swap, execute */ });",
			3: "// Example: news sentiment monitor\nhandler(cronTrigger, (cfg) => { /* poll news feed, notify on match */ });",
			4: "// Example: on-chain event watcher\nhandler(evmLogTrigger, (cfg) => { /* react to log, notify */ });",
			5: "// Example: portfolio rebalancer\nhandler(cronTrigger, (cfg) => { /* compute target allocation, rebalance */ });",
			6: "// Example: API polling webhook\nhandler(cronTrigger, (cfg) => { /* poll endpoint, forward result */ });",
		}
	})
	return fewShotCache
}

// DocFor returns the retrieved doc snippet for a required capability, or
// "" if none is cached for it.
func DocFor(capability string) string {
	return docs()[capability]
}

// FewShotFor returns the cached few-shot example source for a template id,
// or "" if none is cached for it.
func FewShotFor(templateID int) string {
	return fewShots()[templateID]
}
