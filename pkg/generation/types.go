// Package generation wires the intent parser, template matcher, prompt
// assembler, code-generator adapter, quick-fix, and static validator into
// the generation orchestrator (C12): bounded admission, an aggregate
// deadline with cooperative cancellation, a capped inner retry loop, and a
// fallback path that never fails the caller.
package generation

import (
	"github.com/codeready-toolchain/workflow-fabric/pkg/intent"
	"github.com/codeready-toolchain/workflow-fabric/pkg/template"
	"github.com/codeready-toolchain/workflow-fabric/pkg/validator"
)

// Result is the orchestrator's output. Fallback never throws, so every
// call that reaches the end of Generate returns a Result with a
// non-empty Code, even when every generation attempt failed.
type Result struct {
	Code              string
	ConfigJSON        string
	ConsumerContract  string
	Explanation       string
	SelfReview        string
	Validation        validator.Result
	QuickFixes        []string
	Fallback          bool
	Intent            *intent.ParsedIntent
	Match             template.Match
	Attempts          int
}
