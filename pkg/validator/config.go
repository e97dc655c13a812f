package validator

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	evmWriteCapabilityRE = regexp.MustCompile(`EVMClient|\.write\s*\(|onchain-write`)
	cronCapabilityRE     = regexp.MustCompile(`\bcron\b|schedule\s*:`)
	httpCapabilityRE     = regexp.MustCompile(`HTTPClient|\.fetch\s*\(`)

	chainConfigKeyRE = regexp.MustCompile(`(?i)chain|network`)
	scheduleKeyRE    = regexp.MustCompile(`(?i)schedule|cron|interval`)
	urlValueRE       = regexp.MustCompile(`^https?://`)
	urlKeyRE         = regexp.MustCompile(`(?i)url|endpoint|uri`)
)

// checkConfig requires configJSON to parse to a non-null, non-array JSON
// object, then cross-checks it against capabilities the code text
// references: EVM-write code needs a chain-related config key, cron code
// needs a schedule-like key, HTTP-client code needs a URL-shaped value or
// URL-like key.
func checkConfig(code, configJSON string) []Error {
	var obj map[string]any
	if err := json.Unmarshal([]byte(configJSON), &obj); err != nil {
		return []Error{{Category: CategoryConfig, Message: "config must be valid JSON: " + err.Error()}}
	}
	if obj == nil {
		return []Error{{Category: CategoryConfig, Message: "config must be a non-null object"}}
	}

	var errs []Error
	if evmWriteCapabilityRE.MatchString(code) && !hasKeyMatching(obj, chainConfigKeyRE) {
		errs = append(errs, Error{Category: CategoryConfig, Message: "onchain-write code requires a chain-related config key"})
	}
	if cronCapabilityRE.MatchString(code) && !hasKeyMatching(obj, scheduleKeyRE) {
		errs = append(errs, Error{Category: CategoryConfig, Message: "cron-triggered code requires a schedule-like config key"})
	}
	if httpCapabilityRE.MatchString(code) && !hasURLShape(obj) {
		errs = append(errs, Error{Category: CategoryConfig, Message: "HTTP client code requires a URL-shaped value or URL-like config key"})
	}
	return errs
}

func hasKeyMatching(obj map[string]any, re *regexp.Regexp) bool {
	for k := range obj {
		if re.MatchString(k) {
			return true
		}
	}
	return false
}

func hasURLShape(obj map[string]any) bool {
	for k, v := range obj {
		if urlKeyRE.MatchString(k) {
			return true
		}
		if s, ok := v.(string); ok && urlValueRE.MatchString(strings.TrimSpace(s)) {
			return true
		}
	}
	return false
}
