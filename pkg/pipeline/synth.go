package pipeline

import "github.com/codeready-toolchain/workflow-fabric/pkg/schema"

// synthesizeOutput builds a step's published output from its workflow's
// output schema: string fields become "<desc-or-name>_value", number
// fields become 42 (or 0 if the step failed), boolean fields mirror
// simulation success, and unrecognized types are null.
func synthesizeOutput(out schema.Schema, success bool) map[string]any {
	if len(out.Properties) == 0 {
		return nil
	}
	result := make(map[string]any, len(out.Properties))
	for name, field := range out.Properties {
		result[name] = synthesizeField(name, field, success)
	}
	return result
}

func synthesizeField(name string, field schema.Field, success bool) any {
	switch field.Type {
	case "string":
		label := field.Description
		if label == "" {
			label = name
		}
		return label + "_value"
	case "number":
		if success {
			return float64(42)
		}
		return float64(0)
	case "boolean":
		return success
	default:
		return nil
	}
}
