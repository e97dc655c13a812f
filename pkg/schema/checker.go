package schema

import (
	"sort"

	"github.com/codeready-toolchain/workflow-fabric/pkg/nlp"
)

const (
	confidenceExact      = 1.0
	confidenceFuzzyName  = 0.8
	confidenceTypeCoerce = 0.5
	maxNameDistance      = 3
)

// FieldMatch is one matched (source output field → target input field)
// pair with its confidence tier.
type FieldMatch struct {
	SourceField string
	TargetField string
	Confidence  float64
}

// CompatibilityResult is the output of CheckCompatibility.
type CompatibilityResult struct {
	Compatible     bool
	Score          float64
	MatchedFields  []FieldMatch
	UnmatchedRequired []string
}

// compatibleTypePairs lists the cross-type coercions the lowest
// confidence tier accepts.
var compatibleTypePairs = map[string]map[string]bool{
	"number":  {"string": true},
	"string":  {"number": true, "boolean": true},
	"boolean": {"string": true, "number": true},
}

func typesCompatible(a, b string) bool {
	if a == b {
		return true
	}
	return compatibleTypePairs[a] != nil && compatibleTypePairs[a][b]
}

// CheckCompatibility matches every input field against the output
// schema's fields, at most one output field per input field, preferring
// the highest-confidence tier available: exact name+type (1.0), then
// Levenshtein-close name with compatible type (0.8), then compatible type
// alone (0.5).
func CheckCompatibility(output, input Schema) CompatibilityResult {
	used := make(map[string]bool, len(output.Properties))
	var matches []FieldMatch
	var unmatchedRequired []string

	targetNames := sortedKeys(input.Properties)
	for _, targetName := range targetNames {
		targetField := input.Properties[targetName]
		match, ok := bestMatch(targetName, targetField, output, used)
		if !ok {
			if input.IsRequired(targetName) {
				unmatchedRequired = append(unmatchedRequired, targetName)
			}
			continue
		}
		used[match.SourceField] = true
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	requiredTotal := len(input.Required)
	requiredMatched := requiredTotal - len(unmatchedRequired)
	score := 0.0
	if requiredTotal > 0 {
		score = float64(requiredMatched) / float64(requiredTotal)
	} else if len(matches) > 0 {
		score = 1.0
	}

	return CompatibilityResult{
		Compatible:        score > 0 && len(unmatchedRequired) == 0,
		Score:             score,
		MatchedFields:     matches,
		UnmatchedRequired: unmatchedRequired,
	}
}

func bestMatch(targetName string, targetField Field, output Schema, used map[string]bool) (FieldMatch, bool) {
	// Tier (a): exact name + exact type.
	if src, ok := output.Properties[targetName]; ok && !used[targetName] && src.Type == targetField.Type {
		return FieldMatch{SourceField: targetName, TargetField: targetName, Confidence: confidenceExact}, true
	}

	// Tier (b): compatible type + Levenshtein <= 3 on the field name.
	var bestName string
	bestDist := maxNameDistance + 1
	for name, src := range output.Properties {
		if used[name] || !typesCompatible(src.Type, targetField.Type) {
			continue
		}
		d := nlp.Levenshtein(name, targetName)
		if d <= maxNameDistance && d < bestDist {
			bestDist = d
			bestName = name
		}
	}
	if bestName != "" {
		return FieldMatch{SourceField: bestName, TargetField: targetName, Confidence: confidenceFuzzyName}, true
	}

	// Tier (c): compatible type alone (first unused match, by sorted name
	// for determinism).
	for _, name := range sortedKeys(output.Properties) {
		src := output.Properties[name]
		if used[name] {
			continue
		}
		if typesCompatible(src.Type, targetField.Type) {
			return FieldMatch{SourceField: name, TargetField: targetName, Confidence: confidenceTypeCoerce}, true
		}
	}

	return FieldMatch{}, false
}

func sortedKeys(m map[string]Field) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
