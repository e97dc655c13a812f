package intent

import "sync"

// registry holds the fixed lookup tables the parser's trigger, chain,
// data-source, and action resolution phases run against. Populated once
// at process start via sync.Once so every call site shares the same
// read-only tables without re-allocating them per parse.
type registry struct {
	triggerSignals map[TriggerType][]string

	chainKeysShort map[string]string // ≤4 chars → canonical chain
	chainKeysLong  map[string]string // >4 chars → canonical chain

	dataSourceKeysShort map[string]string // ≤3 chars → source tag
	dataSourceKeysLong  map[string]string // >3 chars, single word → source tag
	dataSourceMultiWord map[string]string // multi-word phrase → source tag
	ambiguousKeywords   map[string]bool
	confirmingKeywords  map[string][]string // source tag → confirming single words
	brandEntities       map[string]string   // brand name → source tag

	actionKeys       map[string]string // keyword → action tag
	swapConfirmWords map[string]bool   // dex, amm, uniswap, slippage, router
	swapGenericWords map[string]bool   // buy, sell, trade

	stateKeywords map[string]bool
}

var (
	registryOnce sync.Once
	reg          *registry
)

func Registry() *registry {
	registryOnce.Do(func() {
		reg = &registry{
			triggerSignals: map[TriggerType][]string{
				TriggerCron: {"schedule", "cron", "every", "periodic", "interval", "recurring", "hourly", "daily", "weekly", "minute", "hour", "day", "week"},
				TriggerHTTP: {"api", "http", "request", "endpoint", "webhook", "fetch", "poll", "rest", "url", "call"},
				TriggerEVMLog: {"event", "log", "emit", "contract", "onchain", "transaction", "block", "swap", "transfer", "mint", "burn"},
			},
			chainKeysShort: map[string]string{
				"eth":  "ethereum",
				"bsc":  "bsc",
				"avax": "avalanche",
				"op":   "optimism",
				"arb":  "arbitrum",
			},
			chainKeysLong: map[string]string{
				"ethereum":  "ethereum",
				"polygon":   "polygon",
				"binance":   "bsc",
				"avalanche": "avalanche",
				"optimism":  "optimism",
				"arbitrum":  "arbitrum",
				"fantom":    "fantom",
				"base":      "base",
				"solana":    "solana",
			},
			dataSourceKeysShort: map[string]string{
				"dex": "dex-api",
				"nft": "nft-api",
			},
			dataSourceKeysLong: map[string]string{
				"chainlink":  "price-feed",
				"oracle":     "price-feed",
				"price":      "price-feed",
				"uniswap":    "dex-api",
				"aave":       "defi-api",
				"compound":   "defi-api",
				"coingecko":  "price-feed",
				"coinmarketcap": "price-feed",
			},
			dataSourceMultiWord: map[string]string{
				"price feed":  "price-feed",
				"news feed":   "news-api",
				"defi protocol": "defi-api",
			},
			ambiguousKeywords: map[string]bool{
				"score": true, "balance": true, "match": true, "address": true,
				"exchange": true, "pool": true, "rate": true, "volume": true,
			},
			confirmingKeywords: map[string][]string{
				"price-feed": {"price", "feed", "oracle", "quote"},
				"defi-api":   {"lend", "borrow", "yield", "liquidity"},
				"news-api":   {"news", "article", "headline"},
				"dex-api":    {"dex", "swap", "liquidity", "slippage"},
				"nft-api":    {"nft", "collection", "floor"},
			},
			brandEntities: map[string]string{
				"chainlink": "price-feed",
				"uniswap":   "dex-api",
				"aave":      "defi-api",
				"coingecko": "price-feed",
			},
			actionKeys: map[string]string{
				"alert":    "notify",
				"notify":   "notify",
				"swap":     "swap",
				"buy":      "swap",
				"sell":     "swap",
				"trade":    "swap",
				"transfer": "onchain-write",
				"send":     "onchain-write",
				"mint":     "onchain-write",
				"stake":    "onchain-write",
				"bridge":   "onchain-write",
			},
			swapConfirmWords: map[string]bool{"dex": true, "amm": true, "uniswap": true, "slippage": true, "router": true},
			swapGenericWords: map[string]bool{"buy": true, "sell": true, "trade": true},
			stateKeywords: map[string]bool{
				"remember": true, "previous": true, "last": true, "state": true,
				"history": true, "track": true, "persist": true, "store": true,
			},
		}
	})
	return reg
}
