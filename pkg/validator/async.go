package validator

import "regexp"

var (
	handlerCallbackRE = regexp.MustCompile(`handler\s*\(\s*[^,]+,\s*(async\s*)?\(`)
	thenAsyncRE       = regexp.MustCompile(`\.then\s*\(\s*async\b`)
	suspensionWordRE  = regexp.MustCompile(`\bawait\b`)
)

// checkAsync forbids an async marker on the handler callback, forbids any
// suspension keyword inside that callback's body (located by
// brace-counting, the same technique quick-fix uses to strip them), and
// forbids `.then(async ...)` anywhere.
func checkAsync(code string) []Error {
	var errs []Error

	if loc := handlerCallbackRE.FindStringSubmatchIndex(code); loc != nil {
		if loc[2] != -1 {
			errs = append(errs, Error{Category: CategoryAsync, Message: "handler callback must not be declared async"})
		}
		if start, end, ok := callbackBodyRange(code, loc[1]); ok {
			if suspensionWordRE.MatchString(code[start:end]) {
				errs = append(errs, Error{Category: CategoryAsync, Message: "handler callback body must not contain await"})
			}
		}
	}

	if thenAsyncRE.MatchString(code) {
		errs = append(errs, Error{Category: CategoryAsync, Message: ".then() callback must not be declared async"})
	}

	return errs
}

// callbackBodyRange finds the { ... } body of the callback whose opening
// paren ends at searchFrom, by brace-counting from the first "{" after it.
func callbackBodyRange(code string, searchFrom int) (start, end int, ok bool) {
	rel := indexByte(code[searchFrom:], '{')
	if rel == -1 {
		return 0, 0, false
	}
	start = searchFrom + rel + 1
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

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
