package validator

import "regexp"

// allowedImportPrefixes is the closed IMPORT whitelist: the CRE SDK and
// its subpaths, zod, viem and its subpaths, plus relative/absolute paths.
var allowedImportPrefixes = []string{
	"@chainlink/cre-sdk",
	"zod",
	"viem",
}

var (
	moduleImportRE  = regexp.MustCompile(`(?m)^\s*import\s+(?:[\w*{}\s,]+\s+from\s+)?['"]([^'"]+)['"]`)
	requireImportRE = regexp.MustCompile(`(?m)require\(\s*['"]([^'"]+)['"]\s*\)`)
)

// checkImports scans both ES-module and CommonJS import styles and
// reports any module not on the whitelist (or a relative/absolute path).
func checkImports(code string) []Error {
	var errs []Error
	seen := make(map[string]bool)

	for _, m := range moduleImportRE.FindAllStringSubmatch(code, -1) {
		reportIfDisallowed(m[1], seen, &errs)
	}
	for _, m := range requireImportRE.FindAllStringSubmatch(code, -1) {
		reportIfDisallowed(m[1], seen, &errs)
	}
	return errs
}

func reportIfDisallowed(mod string, seen map[string]bool, errs *[]Error) {
	if seen[mod] {
		return
	}
	if isAllowedImport(mod) {
		return
	}
	seen[mod] = true
	*errs = append(*errs, Error{Category: CategoryImport, Message: "disallowed import: " + mod})
}

func isAllowedImport(mod string) bool {
	if len(mod) > 0 && (mod[0] == '.' || mod[0] == '/') {
		return true
	}
	for _, prefix := range allowedImportPrefixes {
		if mod == prefix || hasPathPrefix(mod, prefix) {
			return true
		}
	}
	return false
}

func hasPathPrefix(mod, prefix string) bool {
	return len(mod) > len(prefix) && mod[:len(prefix)] == prefix && mod[len(prefix)] == '/'
}
