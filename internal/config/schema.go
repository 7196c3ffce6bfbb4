package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	dserrors "github.com/systmms/gstack/internal/errors"
)

const definitionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "version": {"type": "integer"},
    "protection": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "guards": {"type": "boolean"},
        "checksums": {"type": "boolean"}
      }
    },
    "allocator": {"type": "string", "enum": ["heap", "locked", "limited"]},
    "memoryLimit": {"type": "integer", "minimum": 0},
    "abortOnFault": {"type": "boolean"},
    "metrics": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": {"type": "boolean"}
      }
    },
    "formatter": {"type": "string", "enum": ["decimal", "hex"]}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(definitionSchema)

// validateSchema checks a decoded document against the gstack.yaml schema
func validateSchema(doc map[string]interface{}) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return dserrors.ConfigError{
			Message:    "schema validation failed:\n  - " + strings.Join(errorMessages, "\n  - "),
			Suggestion: "Compare your gstack.yaml with 'gstack config' output",
		}
	}

	return nil
}
