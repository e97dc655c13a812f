package validator

import "regexp"

var (
	exportedMainFuncRE  = regexp.MustCompile(`export\s+(?:default\s+)?(?:async\s+)?function\s+main\b`)
	exportedMainArrowRE = regexp.MustCompile(`export\s+const\s+main\s*=`)
)

// checkMain requires an exported top-level main function, either a
// function declaration or an arrow function assigned to the name "main".
func checkMain(code string) []Error {
	if exportedMainFuncRE.MatchString(code) || exportedMainArrowRE.MatchString(code) {
		return nil
	}
	return []Error{{Category: CategoryMain, Message: "no exported top-level main function found"}}
}
