package intent

import "strings"

// ResolveActions runs the tiered action lookup, always returning a
// non-empty, order-preserved, deduplicated list (defaulting to
// DefaultAction), and drops a "swap" action that was elected only by
// generic words (buy/sell/trade) when no confirming DEX token
// (dex/amm/uniswap/slippage/router) is present.
func ResolveActions(promptLower string, tokens []string) []string {
	r := Registry()
	seen := make(map[string]bool)
	var out []string
	swapFromGenericOnly := false
	swapConfirmed := false

	add := func(action string) {
		if !seen[action] {
			seen[action] = true
			out = append(out, action)
		}
	}

	for _, tok := range tokens {
		action, ok := r.actionKeys[tok]
		if !ok {
			continue
		}
		if action == "swap" {
			if r.swapGenericWords[tok] {
				swapFromGenericOnly = true
			} else {
				swapConfirmed = true
			}
		}
		add(action)
	}

	for confirmWord := range r.swapConfirmWords {
		if strings.Contains(promptLower, confirmWord) {
			swapConfirmed = true
		}
	}

	if swapFromGenericOnly && !swapConfirmed {
		out = removeAction(out, "swap")
	}

	if len(out) == 0 {
		add(DefaultAction)
	}

	return out
}

func removeAction(actions []string, target string) []string {
	out := actions[:0]
	for _, a := range actions {
		if a != target {
			out = append(out, a)
		}
	}
	return out
}
