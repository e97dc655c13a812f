package intent

import "regexp"

var conditionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bdrops?\s+below\s+\$?[\d.,]+`),
	regexp.MustCompile(`(?i)\brises?\s+above\s+\$?[\d.,]+`),
	regexp.MustCompile(`(?i)\bcrosses?\s+\$?[\d.,]+`),
	regexp.MustCompile(`(?i)\bexceeds?\s+\$?[\d.,]+`),
	regexp.MustCompile(`(?i)\bdeviation\s+of\s+[\d.,]+%?`),
	regexp.MustCompile(`(?i)\bbelow\s+\$[\d.,]+`),
	regexp.MustCompile(`(?i)\babove\s+\$[\d.,]+`),
}

// ExtractConditions scans text for a fixed set of comparison phrasings
// (drops/rises, crosses, exceeds, deviation-of, below/above $N) and
// returns the matched phrases in first-seen order with duplicates
// removed.
func ExtractConditions(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, re := range conditionPatterns {
		for _, m := range re.FindAllString(text, -1) {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
