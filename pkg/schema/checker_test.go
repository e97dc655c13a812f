package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCompatibility_ExactMatch(t *testing.T) {
	output := Schema{Properties: map[string]Field{"price": {Type: "number"}}}
	input := Schema{Properties: map[string]Field{"price": {Type: "number"}}, Required: []string{"price"}}

	result := CheckCompatibility(output, input)

	require.True(t, result.Compatible)
	require.Len(t, result.MatchedFields, 1)
	assert.Equal(t, "price", result.MatchedFields[0].SourceField)
	assert.Equal(t, 1.0, result.MatchedFields[0].Confidence)
}

func TestCheckCompatibility_FuzzyNameMatch(t *testing.T) {
	output := Schema{Properties: map[string]Field{"pricee": {Type: "number"}}}
	input := Schema{Properties: map[string]Field{"price": {Type: "number"}}, Required: []string{"price"}}

	result := CheckCompatibility(output, input)

	require.True(t, result.Compatible)
	assert.Equal(t, 0.8, result.MatchedFields[0].Confidence)
}

func TestCheckCompatibility_UnmatchedRequiredIsIncompatible(t *testing.T) {
	output := Schema{Properties: map[string]Field{"unrelated": {Type: "array"}}}
	input := Schema{Properties: map[string]Field{"price": {Type: "number"}}, Required: []string{"price"}}

	result := CheckCompatibility(output, input)

	assert.False(t, result.Compatible)
	assert.Equal(t, []string{"price"}, result.UnmatchedRequired)
}

func TestCheckCompatibility_MatchedFieldsOrderedByDescendingConfidence(t *testing.T) {
	output := Schema{Properties: map[string]Field{
		"price":   {Type: "number"},
		"statuss": {Type: "string"},
	}}
	input := Schema{
		Properties: map[string]Field{
			"price":  {Type: "number"},
			"status": {Type: "string"},
		},
		Required: []string{"price", "status"},
	}

	result := CheckCompatibility(output, input)

	require.Len(t, result.MatchedFields, 2)
	for i := 1; i < len(result.MatchedFields); i++ {
		assert.GreaterOrEqual(t, result.MatchedFields[i-1].Confidence, result.MatchedFields[i].Confidence)
	}
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, 42.0, CoerceValue("42", "string", "number"))
	assert.Equal(t, 0.0, CoerceValue("not-a-number", "string", "number"))
	assert.Equal(t, true, CoerceValue("yes", "string", "boolean"))
	assert.Equal(t, "3", CoerceValue(3.0, "number", "string"))
}
