package correction

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://correction-record.json"

// recordSchema is what a model response must satisfy before it is trusted.
// Vocabulary items without a word are dropped during parsing, not rejected here.
const recordSchema = `{
  "type": "object",
  "required": ["original", "corrected", "response", "fluency_score"],
  "properties": {
    "original": {"type": "string"},
    "corrected": {"type": "string"},
    "mistakes": {"type": ["string", "null"]},
    "response": {"type": "string"},
    "translation_user": {"type": ["string", "null"]},
    "translation_response": {"type": ["string", "null"]},
    "fluency_score": {"type": "integer", "minimum": 0, "maximum": 100},
    "vocabulary_words": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "word": {"type": ["string", "null"]},
          "translation": {"type": ["string", "null"]},
          "difficulty": {"type": ["string", "null"]},
          "usage_example": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func recordValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(recordSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validate checks raw JSON against the record schema
func validate(raw string) error {
	schema, err := recordValidator()
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
