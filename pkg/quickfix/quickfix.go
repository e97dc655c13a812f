// Package quickfix applies deterministic, textual auto-repair to
// generated workflow source before it reaches the static validator (C11).
// Every rewrite is safe by construction: it never introduces an import
// and never touches logic outside a handler callback body.
package quickfix

import (
	"regexp"
	"strings"
)

// Result is the output of Apply: the (possibly rewritten) source plus a
// human-readable list of the fixes applied, for observability.
type Result struct {
	Code  string
	Fixes []string
}

// forbiddenImports mirrors the validator's IMPORT whitelist (pkg/validator)
// but quick-fix only ever removes the banned ones it recognizes by name.
var forbiddenImports = []string{"fs", "child_process", "net", "http", "https", "os"}

var (
	importLineRE     = regexp.MustCompile(`(?m)^\s*import\s+.*from\s+['"]([^'"]+)['"];?\s*$`)
	requireLineRE    = regexp.MustCompile(`(?m)^\s*(?:const|let|var)\s+.*=\s*require\(['"]([^'"]+)['"]\);?\s*$`)
	handlerCallRE    = regexp.MustCompile(`handler\s*\(\s*[^,]+,\s*(async\s*)?\(`)
	mainFuncRE       = regexp.MustCompile(`(?m)^\s*((?:async\s+)?function\s+main\s*\()`)
	mainArrowRE      = regexp.MustCompile(`(?m)^\s*((?:const|let)\s+main\s*=\s*(?:async\s*)?\()`)
	exportedMainRE   = regexp.MustCompile(`export\s+(?:default\s+)?(?:async\s+)?function\s+main\b|export\s+const\s+main\b`)
	awaitKeywordRE   = regexp.MustCompile(`\bawait\b`)
)

// Apply runs every quick-fix rewrite in order and returns the result.
// Quick-fix is deterministic: identical input always produces identical
// output.
func Apply(code string) Result {
	fixes := make([]string, 0, 3)

	code, removed := removeForbiddenImports(code)
	fixes = append(fixes, removed...)

	code, fixed := stripAsyncHandler(code)
	if fixed != "" {
		fixes = append(fixes, fixed)
	}

	code, fixed = exportMainIfMissing(code)
	if fixed != "" {
		fixes = append(fixes, fixed)
	}

	return Result{Code: code, Fixes: fixes}
}

func removeForbiddenImports(code string) (string, []string) {
	var fixes []string
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if mod, ok := matchedForbiddenImport(line); ok {
			fixes = append(fixes, "removed forbidden import of \""+mod+"\"")
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n"), fixes
}

func matchedForbiddenImport(line string) (string, bool) {
	if m := importLineRE.FindStringSubmatch(line); m != nil {
		if isForbidden(m[1]) {
			return m[1], true
		}
	}
	if m := requireLineRE.FindStringSubmatch(line); m != nil {
		if isForbidden(m[1]) {
			return m[1], true
		}
	}
	return "", false
}

func isForbidden(mod string) bool {
	for _, f := range forbiddenImports {
		if mod == f {
			return true
		}
	}
	return false
}

// stripAsyncHandler removes the async marker from the handler callback
// argument and strips any `await` keyword found inside that callback's
// body, located by brace-counting from the callback's opening brace.
func stripAsyncHandler(code string) (string, string) {
	loc := handlerCallRE.FindStringSubmatchIndex(code)
	if loc == nil {
		return code, ""
	}
	hasAsync := loc[2] != -1 // group 1 (the "async " capture) matched

	bodyStart, bodyEnd, ok := callbackBodyRange(code, loc[1])
	if !ok {
		if !hasAsync {
			return code, ""
		}
		return stripAsyncMarker(code, loc), "removed async marker from handler callback"
	}

	changed := false
	result := code
	if hasAsync {
		result = stripAsyncMarker(result, loc)
		changed = true
		// bodyStart/bodyEnd shift left by len("async ") since it preceded the body.
		shift := len("async ")
		bodyStart -= shift
		bodyEnd -= shift
	}

	body := result[bodyStart:bodyEnd]
	stripped := awaitKeywordRE.ReplaceAllString(body, "")
	if stripped != body {
		result = result[:bodyStart] + stripped + result[bodyEnd:]
		changed = true
	}

	if !changed {
		return code, ""
	}
	if hasAsync {
		return result, "removed async marker and await keyword(s) from handler callback"
	}
	return result, "removed await keyword(s) from handler callback"
}

func stripAsyncMarker(code string, loc []int) string {
	// loc[2]:loc[3] is the "async " capture group within the handler(...) match.
	return code[:loc[2]] + code[loc[3]:]
}

// callbackBodyRange finds the { ... } body of the callback whose opening
// paren ends at searchFrom, by counting braces from the first "{" found
// after searchFrom. Returns the byte range of the body's interior
// (exclusive of the braces).
func callbackBodyRange(code string, searchFrom int) (start, end int, ok bool) {
	openBrace := strings.IndexByte(code[searchFrom:], '{')
	if openBrace == -1 {
		return 0, 0, false
	}
	start = searchFrom + openBrace + 1
	depth := 1
	for i := start; i < len(code); i++ {
		switch code[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return start, i, true
			}
		}
	}
	return 0, 0, false
}

// exportMainIfMissing adds an export to a top-level main function that
// exists but is not exported. The insert point is anchored to the
// captured function/const token itself (submatch index 1), not the
// overall match start, since the latter includes the regex's leading
// "^\s*" and can span blank lines or indentation that "export " would
// otherwise land in front of.
func exportMainIfMissing(code string) (string, string) {
	if exportedMainRE.MatchString(code) {
		return code, ""
	}
	if loc := mainFuncRE.FindStringSubmatchIndex(code); loc != nil {
		return code[:loc[2]] + "export " + code[loc[2]:], "added missing export to top-level main function"
	}
	if loc := mainArrowRE.FindStringSubmatchIndex(code); loc != nil {
		return code[:loc[2]] + "export " + code[loc[2]:], "added missing export to top-level main function"
	}
	return code, ""
}
