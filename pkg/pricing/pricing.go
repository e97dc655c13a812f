// Package pricing sums per-workflow prices into a pipeline price
// breakdown (C16). Prices are 6-decimal fixed-point integers, matching
// store.Workflow.Price.
package pricing

// LineItem is one workflow's contribution to a pipeline's total price.
type LineItem struct {
	StepID     string
	WorkflowID string
	Price      int64
}

// Breakdown is the summed pipeline price plus its per-step line items.
type Breakdown struct {
	Total int64
	Items []LineItem
}

// Sum builds a Breakdown from the ordered list of line items.
func Sum(items []LineItem) Breakdown {
	var total int64
	for _, it := range items {
		total += it.Price
	}
	return Breakdown{Total: total, Items: items}
}
