// Package intent maps a free-text prompt into a typed ParsedIntent
// record: trigger kind, schedule, data sources, actions, chains,
// conditions, keywords, and negation — the first stage of the generation
// pipeline (prompt → intent → template → code → validation).
package intent

// TriggerType is the closed set of trigger kinds the parser recognizes.
type TriggerType string

const (
	TriggerCron    TriggerType = "cron"
	TriggerHTTP    TriggerType = "http"
	TriggerEVMLog  TriggerType = "evm_log"
	TriggerUnknown TriggerType = "unknown"
)

// DefaultChain is used when chain resolution finds nothing.
const DefaultChain = "ethereum"

// DefaultAction is the onchain-write tag every intent defaults to when no
// action is otherwise elected.
const DefaultAction = "onchain-write"

// ParsedIntent is the immutable output of Parse. Ordered-unique slice
// fields preserve first-seen order and contain no duplicates.
type ParsedIntent struct {
	TriggerType TriggerType
	Confidence  float64
	Schedule    string // 5- or 6-field cron expression, empty if none detected

	DataSources []string
	Actions     []string
	Chains      []string
	Conditions  []string
	Keywords    []string

	Negated  bool
	Entities map[string][]string // source tag → confirmed brand names
}
