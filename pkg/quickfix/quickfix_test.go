package quickfix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyRemovesForbiddenImports(t *testing.T) {
	code := "import { z } from 'zod';\nimport fs from 'fs';\nconst x = require('child_process');\n"
	result := Apply(code)
	assert.NotContains(t, result.Code, "'fs'")
	assert.NotContains(t, result.Code, "require('child_process')")
	assert.Contains(t, result.Code, "import { z } from 'zod';")
	assert.Len(t, result.Fixes, 2)
}

func TestApplyStripsAsyncHandlerCallback(t *testing.T) {
	code := "handler(trigger, async (ctx) => {\n  const v = await ctx.httpClient.get(url);\n  return v;\n});\n"
	result := Apply(code)
	assert.NotContains(t, result.Code, "async (")
	assert.NotContains(t, result.Code, "await")
	assert.Contains(t, result.Fixes, "removed async marker and await keyword(s) from handler callback")
}

func TestApplyLeavesSyncHandlerUntouched(t *testing.T) {
	code := "handler(trigger, (ctx) => {\n  return ctx.value;\n});\n"
	result := Apply(code)
	assert.Equal(t, code, result.Code)
	assert.Empty(t, result.Fixes)
}

func TestApplyExportsTopLevelMainFunction(t *testing.T) {
	code := "function main(runtime) {\n  return runtime;\n}\n"
	result := Apply(code)
	assert.Contains(t, result.Code, "export function main(runtime)")
	assert.Contains(t, result.Fixes, "added missing export to top-level main function")
}

func TestApplyDoesNotDoubleExportMain(t *testing.T) {
	code := "export function main(runtime) {\n  return runtime;\n}\n"
	result := Apply(code)
	assert.Equal(t, code, result.Code)
	assert.Empty(t, result.Fixes)
}

// TestExportInsertAnchoredToToken guards against a regression where the
// insert point was the overall "^\s*" match start rather than the
// captured function/const token: leading blank lines ahead of the
// declaration must stay ahead of "export ", not be pushed after it.
func TestExportInsertAnchoredToToken(t *testing.T) {
	code := "const configSchema = z.object({});\n\n\nfunction main(runtime) {\n  return runtime;\n}\n"
	result := Apply(code)
	idx := strings.Index(result.Code, "export function main")
	if assert.NotEqual(t, -1, idx, "expected export to be inserted directly before the function keyword") {
		assert.Equal(t, byte('\n'), result.Code[idx-1], "export must not be preceded by anything but the newline that already separated it from the blank lines")
	}
	assert.NotContains(t, result.Code, "export \n", "export must not swallow a leading blank line")
}

func TestApplyExportsMainArrowFunction(t *testing.T) {
	code := "const main = (runtime) => {\n  return runtime;\n}\n"
	result := Apply(code)
	assert.Contains(t, result.Code, "export const main = (runtime)")
}

func TestApplyIsDeterministic(t *testing.T) {
	code := "import fs from 'fs';\nhandler(trigger, async (ctx) => {\n  await ctx.do();\n});\nfunction main(r) { return r; }\n"
	a := Apply(code)
	b := Apply(code)
	assert.Equal(t, a, b)
}
