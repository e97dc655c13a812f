package validator

import "regexp"

// configSchemaRE requires a real top-level binding, not merely the
// substring appearing inside a comment: "const configSchema = z.object(".
var configSchemaRE = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:const|let)\s+configSchema\s*(?::\s*[\w.<>\[\]]+)?\s*=\s*z\.object\s*\(`)

// checkZod requires a top-level configSchema bound to a z.object(...) call.
func checkZod(code string) []Error {
	if configSchemaRE.MatchString(stripComments(code)) {
		return nil
	}
	return []Error{{Category: CategoryZod, Message: "no top-level configSchema bound to z.object(...) found"}}
}

var (
	lineCommentRE  = regexp.MustCompile(`//[^\n]*`)
	blockCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// stripComments removes line and block comments so a commented-out
// reference to configSchema cannot satisfy the check.
func stripComments(code string) string {
	code = blockCommentRE.ReplaceAllString(code, "")
	code = lineCommentRE.ReplaceAllString(code, "")
	return code
}
