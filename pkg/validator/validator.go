package validator

import (
	"context"
	"time"
)

// Options bundles the inputs Validate needs beyond the source itself.
type Options struct {
	ConfigJSON string

	// TypeChecker and Timeout are only consulted if every cheap check
	// passes; a nil TypeChecker skips the TSC stage entirely (used by
	// callers that only want the cheap checks, e.g. quick-fix monotonicity
	// tests).
	TypeChecker TypeChecker
	TSCTimeout  time.Duration
}

// Validate runs the cheap-first chain of category-prefixed checks, and —
// only if every cheap check passes — the external type-check stage.
func Validate(ctx context.Context, code string, opts Options) Result {
	var errs []Error

	errs = append(errs, checkImports(code)...)
	errs = append(errs, checkAsync(code)...)
	errs = append(errs, checkMain(code)...)
	errs = append(errs, checkZod(code)...)
	errs = append(errs, checkConfig(code, opts.ConfigJSON)...)

	if len(errs) == 0 && opts.TypeChecker != nil {
		timeout := opts.TSCTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		errs = append(errs, checkTSC(ctx, opts.TypeChecker, code, timeout)...)
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
