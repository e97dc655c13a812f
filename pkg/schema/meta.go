package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// metaSchemaJSON constrains workflow input/output schemas to the
// restricted dialect allowed here: type + optional properties of
// {type, description?} + optional required, nothing else.
const metaSchemaJSON = `{
  "type": "object",
  "properties": {
    "type": {"type": "string", "enum": ["object"]},
    "properties": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "type": {"type": "string", "enum": ["string", "number", "boolean", "object", "array"]},
          "description": {"type": "string"}
        },
        "required": ["type"],
        "additionalProperties": false
      }
    },
    "required": {
      "type": "array",
      "items": {"type": "string"}
    }
  },
  "required": ["type"],
  "additionalProperties": false
}`

const metaSchemaURL = "https://workflow-fabric.internal/schemas/restricted-dialect.json"

var (
	metaOnce     sync.Once
	compiledMeta *jsonschema.Schema
	metaErr      error
)

func compiledMetaSchema() (*jsonschema.Schema, error) {
	metaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(metaSchemaJSON), &doc); err != nil {
			metaErr = fmt.Errorf("schema: parse meta-schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(metaSchemaURL, doc); err != nil {
			metaErr = fmt.Errorf("schema: register meta-schema: %w", err)
			return
		}
		compiledMeta, metaErr = compiler.Compile(metaSchemaURL)
	})
	return compiledMeta, metaErr
}

// ValidateDialect confirms rawJSON conforms to the restricted dialect
// before Parse decodes it into a Schema.
func ValidateDialect(rawJSON string) error {
	meta, err := compiledMetaSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal([]byte(rawJSON), &doc); err != nil {
		return fmt.Errorf("schema: invalid JSON: %w", err)
	}
	if err := meta.Validate(doc); err != nil {
		return fmt.Errorf("schema: does not conform to restricted dialect: %w", err)
	}
	return nil
}

// Parse validates rawJSON against the restricted dialect and decodes it
// into a Schema.
func Parse(rawJSON string) (Schema, error) {
	if err := ValidateDialect(rawJSON); err != nil {
		return Schema{}, err
	}

	var wire struct {
		Type       string `json:"type"`
		Properties map[string]struct {
			Type        string `json:"type"`
			Description string `json:"description"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	if err := json.Unmarshal([]byte(rawJSON), &wire); err != nil {
		return Schema{}, fmt.Errorf("schema: decode: %w", err)
	}

	s := Schema{Type: wire.Type, Required: wire.Required}
	if wire.Properties != nil {
		s.Properties = make(map[string]Field, len(wire.Properties))
		for name, p := range wire.Properties {
			s.Properties[name] = Field{Type: p.Type, Description: p.Description}
		}
	}
	return s, nil
}
