package validator

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// maxTSCOutputBytes truncates the captured stdout+stderr of the
// type-check subprocess before it is embedded in a single [TSC] error.
const maxTSCOutputBytes = 1024

// typeStubDeclaration encodes the runtime API surface (handler, the CRE
// SDK client types, z) as ambient declarations so the type-checker can
// resolve symbols without a real node_modules tree.
const typeStubDeclaration = `declare module "@chainlink/cre-sdk" {
  export function handler(trigger: unknown, cb: (ctx: unknown) => void): void;
  export class EVMClient { write(...args: unknown[]): Promise<unknown>; }
  export class HTTPClient { fetch(...args: unknown[]): Promise<unknown>; }
}
declare module "zod" {
  export const z: { object: (...args: unknown[]) => unknown };
}
`

const tsconfigManifest = `{
  "compilerOptions": {
    "target": "ES2020",
    "module": "commonjs",
    "strict": true,
    "noEmit": true,
    "skipLibCheck": false
  },
  "include": ["workflow.ts", "types.d.ts"]
}
`

// TypeChecker is the narrow interface around the external type-check CLI,
// letting tests substitute a fake instead of spawning a real subprocess.
type TypeChecker interface {
	// Run executes the type checker against dir and returns its combined
	// output and exit status. A non-nil err from the process itself
	// (binary missing, spawn failure) is distinct from a clean non-zero
	// exit, which is reported via exitCode instead.
	Run(ctx context.Context, dir string) (output string, exitCode int, err error)
}

// ExecTypeChecker shells out to a configured type-check binary (e.g. tsc).
type ExecTypeChecker struct {
	BinaryPath string
}

// Run materializes nothing itself; dir is expected to already contain the
// workflow source, manifest, and type stub written by checkTSC.
func (e ExecTypeChecker) Run(ctx context.Context, dir string) (string, int, error) {
	cmd := exec.CommandContext(ctx, e.BinaryPath, "--noEmit", "-p", dir)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	cmd.Dir = dir

	err := cmd.Run()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return buf.String(), exitErr.ExitCode(), nil
		}
		return buf.String(), -1, err
	}
	return buf.String(), 0, nil
}

// checkTSC materializes a temp directory with the source, a minimal
// project manifest, and the runtime type-stub declaration, then invokes
// the external type-checker with a bounded timeout. Only called once
// every cheap check has already passed.
func checkTSC(ctx context.Context, checker TypeChecker, code string, timeout time.Duration) []Error {
	dir, err := os.MkdirTemp("", "workflow-tsc-*")
	if err != nil {
		return []Error{{Category: CategoryTSC, Message: "failed to create type-check workspace: " + err.Error()}}
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "workflow.ts"), []byte(code), 0o644); err != nil {
		return []Error{{Category: CategoryTSC, Message: "failed to write workflow source: " + err.Error()}}
	}
	if err := os.WriteFile(filepath.Join(dir, "types.d.ts"), []byte(typeStubDeclaration), 0o644); err != nil {
		return []Error{{Category: CategoryTSC, Message: "failed to write type stub: " + err.Error()}}
	}
	if err := os.WriteFile(filepath.Join(dir, "tsconfig.json"), []byte(tsconfigManifest), 0o644); err != nil {
		return []Error{{Category: CategoryTSC, Message: "failed to write tsconfig: " + err.Error()}}
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	output, exitCode, runErr := checker.Run(runCtx, dir)
	if runErr != nil {
		return []Error{{Category: CategoryTSC, Message: "type checker failed to run: " + runErr.Error()}}
	}
	if exitCode == 0 {
		return nil
	}

	truncated := output
	if len(truncated) > maxTSCOutputBytes {
		truncated = truncated[:maxTSCOutputBytes] + "... (truncated)"
	}
	return []Error{{Category: CategoryTSC, Message: fmt.Sprintf("type check failed (exit %d): %s", exitCode, truncated)}}
}
