package intent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/codeready-toolchain/workflow-fabric/pkg/nlp"
)

var exactEveryPattern = regexp.MustCompile(`(?i)\bevery\s+(\d+)\s+([a-z]+)\b`)

var everyDayAtPattern = regexp.MustCompile(`(?i)\bevery\s+day\s+at\s+(\d{1,2})\s*(am|pm)?\b`)

var weekdayCron = map[string]string{
	"sunday": "0", "monday": "1", "tuesday": "2", "wednesday": "3",
	"thursday": "4", "friday": "5", "saturday": "6",
}

var unitWords = []string{"second", "seconds", "minute", "minutes", "hour", "hours", "day", "days"}

// ExtractSchedule tries, in order, an exact "every N <unit>" match, a
// fuzzy-unit variant of the same pattern (typo-tolerant on the unit
// word), and a set of shorthand phrases (hourly/daily/weekly, "every day
// at Xam/pm", weekday names). Returns ("", false) if nothing matches.
func ExtractSchedule(promptLower string) (string, bool) {
	if cron, ok := exactEvery(promptLower); ok {
		return cron, true
	}
	if cron, ok := fuzzyEvery(promptLower); ok {
		return cron, true
	}
	return shorthand(promptLower)
}

func exactEvery(text string) (string, bool) {
	m := exactEveryPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return "", false
	}
	return cronFromUnit(n, normalizeUnit(m[2]))
}

// fuzzyEvery re-runs the "every N <word>" pattern but accepts unit words
// within edit distance 2 of a known unit, catching typos like "minuets".
func fuzzyEvery(text string) (string, bool) {
	m := exactEveryPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return "", false
	}
	word := strings.ToLower(m[2])
	for _, u := range unitWords {
		if nlp.Levenshtein(word, u) <= 2 {
			return cronFromUnit(n, normalizeUnit(u))
		}
	}
	return "", false
}

func normalizeUnit(u string) string {
	u = strings.ToLower(u)
	u = strings.TrimSuffix(u, "s")
	return u
}

func cronFromUnit(n int, unit string) (string, bool) {
	switch unit {
	case "second":
		return fmt.Sprintf("*/%d * * * * *", n), true
	case "minute":
		return fmt.Sprintf("*/%d * * * *", n), true
	case "hour":
		return fmt.Sprintf("0 */%d * * *", n), true
	case "day":
		return fmt.Sprintf("0 0 */%d * *", n), true
	default:
		return "", false
	}
}

func shorthand(text string) (string, bool) {
	if m := everyDayAtPattern.FindStringSubmatch(text); m != nil {
		hour, err := strconv.Atoi(m[1])
		if err == nil {
			if strings.EqualFold(m[2], "pm") && hour < 12 {
				hour += 12
			}
			if strings.EqualFold(m[1], "12") && strings.EqualFold(m[2], "am") {
				hour = 0
			}
			return fmt.Sprintf("0 %d * * *", hour), true
		}
	}

	for day, dow := range weekdayCron {
		if strings.Contains(text, day) {
			return fmt.Sprintf("0 0 * * %s", dow), true
		}
	}

	switch {
	case strings.Contains(text, "hourly"):
		return "0 * * * *", true
	case strings.Contains(text, "daily"):
		return "0 0 * * *", true
	case strings.Contains(text, "weekly"):
		return "0 0 * * 0", true
	}

	return "", false
}
