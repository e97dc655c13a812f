package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// CoerceValue implements the runtime side of a schema-checker match:
// converting a value of srcType into the shape tgtType expects. Numeric
// targets parse in base 10 (NaN becomes 0); boolean targets apply
// truthiness; string targets use a canonical string conversion.
func CoerceValue(v any, srcType, tgtType string) any {
	if srcType == tgtType {
		return v
	}
	switch tgtType {
	case "number":
		return toNumber(v)
	case "boolean":
		return toBoolean(v)
	case "string":
		return toCanonicalString(v)
	default:
		return v
	}
}

func toNumber(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toBoolean(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case string:
		trimmed := strings.TrimSpace(val)
		return trimmed != "" && trimmed != "0" && strings.ToLower(trimmed) != "false"
	case nil:
		return false
	default:
		return true
	}
}

func toCanonicalString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
