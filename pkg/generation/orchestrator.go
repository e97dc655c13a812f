package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/codeready-toolchain/workflow-fabric/pkg/apierrors"
	"github.com/codeready-toolchain/workflow-fabric/pkg/codegen"
	"github.com/codeready-toolchain/workflow-fabric/pkg/config"
	"github.com/codeready-toolchain/workflow-fabric/pkg/intent"
	"github.com/codeready-toolchain/workflow-fabric/pkg/prompt"
	"github.com/codeready-toolchain/workflow-fabric/pkg/quickfix"
	"github.com/codeready-toolchain/workflow-fabric/pkg/semaphore"
	"github.com/codeready-toolchain/workflow-fabric/pkg/template"
	"github.com/codeready-toolchain/workflow-fabric/pkg/validator"
)

// innerRedFlagRetries caps the code-generator adapter's own internal
// red-flag retry loop to 1 on every orchestrator attempt, preventing the
// 3x3 multiplicative blowup across the two retry loops.
const innerRedFlagRetries = 1

// Orchestrator drives the generation pipeline: admission, deadline,
// inner retry loop, fallback.
type Orchestrator struct {
	Client      codegen.Client
	TypeChecker validator.TypeChecker
	Cfg         *config.GenerationConfig
	TSCTimeout  time.Duration

	sem *semaphore.Semaphore
}

// New wires an Orchestrator; the generation semaphore is created here and
// shared across every call, bounding in-flight pipelines at
// cfg.MaxConcurrent.
func New(client codegen.Client, typeChecker validator.TypeChecker, cfg *config.GenerationConfig, tscTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		Client:      client,
		TypeChecker: typeChecker,
		Cfg:         cfg,
		TSCTimeout:  tscTimeout,
		sem:         semaphore.New(cfg.MaxConcurrent),
	}
}

// Generate runs one end-to-end generation. forceTemplateID, if non-zero,
// bypasses template scoring. TEMPLATE_NOT_FOUND is the only error this
// method ever returns; every other failure is absorbed into the fallback
// path.
func (o *Orchestrator) Generate(ctx context.Context, rawPrompt string, forceTemplateID int) (Result, error) {
	parsedIntent := intent.Parse(rawPrompt)

	match, ok := template.Best(parsedIntent, forceTemplateID)
	if !ok {
		return Result{}, apierrors.New(apierrors.TemplateNotFound, "no template matched this prompt with sufficient confidence")
	}

	if err := o.sem.Acquire(ctx); err != nil {
		return o.fallback(ctx, parsedIntent, match, 0), nil
	}
	defer o.sem.Release()

	deadlineCtx, cancel := context.WithTimeout(ctx, o.Cfg.PipelineTimeout)
	defer cancel()

	result, ok := o.innerLoop(deadlineCtx, rawPrompt, parsedIntent, match)
	if ok {
		return result, nil
	}

	return o.fallback(ctx, parsedIntent, match, result.Attempts), nil
}

// innerLoop runs up to Cfg.MaxRetries+1 attempts, checking the
// cooperative deadline before each expensive stage. It returns ok=true
// only when an attempt produces valid code.
func (o *Orchestrator) innerLoop(ctx context.Context, rawPrompt string, parsedIntent *intent.ParsedIntent, match template.Match) (Result, bool) {
	var retry *prompt.RetryContext
	var last Result

	maxAttempts := o.Cfg.MaxRetries + 1
	for attempt := 0; attempt < maxAttempts; attempt++ {
		last.Attempts = attempt + 1

		if aborted(ctx) {
			return last, false
		}

		messages := prompt.Build(prompt.Request{
			RawPrompt: rawPrompt,
			Intent:    parsedIntent,
			Match:     match,
			Retry:     retry,
		})

		effort := reasoningEffortForAttempt(attempt)
		out, err := codegen.Generate(ctx, o.Client, codegen.Input{
			System:          messages.System,
			User:            messages.User,
			ReasoningEffort: effort,
		}, innerRedFlagRetries)
		if err != nil {
			retry = &prompt.RetryContext{PreviousError: err.Error(), PreviousSelfReview: ""}
			continue
		}

		if aborted(ctx) {
			return last, false
		}

		fixed := quickfix.Apply(out.WorkflowSource)

		validation := validator.Validate(ctx, fixed.Code, validator.Options{
			ConfigJSON:  out.ConfigJSON,
			TypeChecker: o.TypeChecker,
			TSCTimeout:  o.TSCTimeout,
		})

		last = Result{
			Code:             fixed.Code,
			ConfigJSON:       out.ConfigJSON,
			ConsumerContract: out.ConsumerContract,
			Explanation:      out.Explanation,
			SelfReview:       out.SelfReview,
			Validation:       validation,
			QuickFixes:       fixed.Fixes,
			Intent:           parsedIntent,
			Match:            match,
			Attempts:         attempt + 1,
		}

		if validation.Valid {
			return last, true
		}

		retry = &prompt.RetryContext{
			PreviousError:      validation.FormatNumberedList(),
			PreviousSelfReview: out.SelfReview,
		}
	}

	return last, false
}

func aborted(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func reasoningEffortForAttempt(attempt int) string {
	switch attempt {
	case 0:
		return "low"
	case 1:
		return "medium"
	default:
		return "high"
	}
}

// fallback loads the matched template's bundled skeleton and a
// default config (synthesized from the intent), applies quick-fix, and
// validates only to record the result — fallback never fails the caller.
func (o *Orchestrator) fallback(ctx context.Context, parsedIntent *intent.ParsedIntent, match template.Match, attempts int) Result {
	def, ok := template.Load().ByID(match.ID)
	if !ok {
		// Should not happen: match.ID came from the same catalog.
		def = template.Definition{Name: fmt.Sprintf("template-%d", match.ID)}
	}

	source := fallbackSource(def, parsedIntent)
	configJSON := fallbackConfig(parsedIntent)

	fixed := quickfix.Apply(source)
	validation := validator.Validate(ctx, fixed.Code, validator.Options{ConfigJSON: configJSON})

	return Result{
		Code:       fixed.Code,
		ConfigJSON: configJSON,
		QuickFixes: fixed.Fixes,
		Validation: validation,
		Fallback:   true,
		Intent:     parsedIntent,
		Match:      match,
		Attempts:   attempts,
	}
}
