package trace

import (
	"regexp"
	"strconv"
	"strings"
)

// pattern is one (prefix matcher, capability, field extractor) triple in
// the lookup table driving the single-pass line classifier.
type pattern struct {
	prefix     *regexp.Regexp
	capability Capability
	extract    func(line string) (action string, data map[string]any)
}

var patterns = []pattern{
	{regexp.MustCompile(`^\[TRIGGER\]\s*`), CapabilityTrigger, extractTrigger},
	{regexp.MustCompile(`^\[HTTP(?:Client)?\]\s*`), CapabilityHTTPClient, extractHTTP},
	{regexp.MustCompile(`^\[EVM(?:Client)?\]\s*`), CapabilityEVMClient, extractEVM},
	{regexp.MustCompile(`^\[CONSENSUS\]\s*`), CapabilityConsensus, extractConsensus},
	{regexp.MustCompile(`^\[NODE_MODE\]\s*`), CapabilityRunInNodeMode, extractGeneric},
}

var (
	errorLineRE = regexp.MustCompile(`(?i)^(ERROR|FATAL|FAILED)\b`)
	warnLineRE  = regexp.MustCompile(`(?i)^WARNING\b`)

	noiseLineRE = regexp.MustCompile(`(?i)^(npm (warn|notice|info)|added \d+ package|audited \d+ package|\d+ packages? in \d|up to date in|fetching dependenc)`)

	httpLineRE       = regexp.MustCompile(`(?i)^(GET|POST|PUT|PATCH|DELETE)\s+(\S+)(?:\s*->\s*(\d{3}))?`)
	evmLineRE        = regexp.MustCompile(`(?i)^(write|read|call)\s+(\S+)`)
	consensusLineRE  = regexp.MustCompile(`(?i)^(median|identical|by-field)\b`)
	durationMsRE     = regexp.MustCompile(`duration:\s*(\d+)\s*ms`)
	durationSecondsRE = regexp.MustCompile(`took:\s*(\d+)\s*seconds?`)

	minMeaningfulLineLength = 8
	maxGenericActionLength  = 200
)

// Parse classifies every line of output into steps, errors, warnings, or
// dropped noise, in a single pass so large outputs stay linear. Step
// numbering is sequential across all pattern types.
func Parse(output string) Result {
	var (
		steps    []Step
		errs     []string
		warnings []string
		stepNum  int
	)

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if matched, ok := matchPattern(trimmed); ok {
			stepNum++
			action, data := matched.extract(trimmed)
			steps = append(steps, buildStep(stepNum, matched.capability, action, trimmed, data))
			continue
		}

		if errorLineRE.MatchString(trimmed) {
			errs = append(errs, trimmed)
			continue
		}
		if warnLineRE.MatchString(trimmed) {
			warnings = append(warnings, trimmed)
			continue
		}
		if noiseLineRE.MatchString(trimmed) {
			continue
		}
		if len(trimmed) >= minMeaningfulLineLength {
			stepNum++
			action := trimmed
			if len(action) > maxGenericActionLength {
				action = action[:maxGenericActionLength]
			}
			steps = append(steps, buildStep(stepNum, CapabilityUnknown, action, trimmed, nil))
		}
	}

	return Result{
		Steps:    steps,
		Errors:   errs,
		Warnings: warnings,
	}
}

func matchPattern(line string) (pattern, bool) {
	for _, p := range patterns {
		if p.prefix.MatchString(line) {
			return p, true
		}
	}
	return pattern{}, false
}

func buildStep(num int, cap Capability, action, rawLine string, data map[string]any) Step {
	s := Step{
		Step:       num,
		Action:     action,
		Capability: cap,
		Status:     StatusSuccess,
		Data:       data,
	}
	lower := strings.ToLower(rawLine)
	switch {
	case strings.Contains(lower, "error"):
		s.Status = StatusError
	case strings.Contains(lower, "skipped"):
		s.Status = StatusSkipped
	}
	if ms, ok := extractDurationMS(rawLine); ok {
		s.DurationMS = &ms
	}
	return s
}

func extractDurationMS(line string) (int64, bool) {
	if m := durationMsRE.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return v, true
		}
	}
	if m := durationSecondsRE.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			return v * 1000, true
		}
	}
	return 0, false
}

func extractTrigger(line string) (string, map[string]any) {
	rest := strings.TrimSpace(patterns[0].prefix.ReplaceAllString(line, ""))
	return rest, nil
}

func extractHTTP(line string) (string, map[string]any) {
	rest := strings.TrimSpace(regexp.MustCompile(`^\[HTTP(?:Client)?\]\s*`).ReplaceAllString(line, ""))
	m := httpLineRE.FindStringSubmatch(rest)
	if m == nil {
		return rest, nil
	}
	data := map[string]any{"method": strings.ToUpper(m[1]), "url": m[2]}
	if m[3] != "" {
		if code, err := strconv.Atoi(m[3]); err == nil {
			data["statusCode"] = code
		}
	}
	return rest, data
}

func extractEVM(line string) (string, map[string]any) {
	rest := strings.TrimSpace(regexp.MustCompile(`^\[EVM(?:Client)?\]\s*`).ReplaceAllString(line, ""))
	m := evmLineRE.FindStringSubmatch(rest)
	if m == nil {
		return rest, nil
	}
	return rest, map[string]any{"callType": strings.ToLower(m[1]), "target": m[2]}
}

func extractConsensus(line string) (string, map[string]any) {
	rest := strings.TrimSpace(regexp.MustCompile(`^\[CONSENSUS\]\s*`).ReplaceAllString(line, ""))
	m := consensusLineRE.FindStringSubmatch(rest)
	if m == nil {
		return rest, nil
	}
	return rest, map[string]any{"aggregationType": strings.ToLower(m[1])}
}

func extractGeneric(line string) (string, map[string]any) {
	rest := strings.TrimSpace(regexp.MustCompile(`^\[NODE_MODE\]\s*`).ReplaceAllString(line, ""))
	return rest, nil
}
