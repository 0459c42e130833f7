// Package schema validates raw quiz documents against the definition
// contract. Validation is purely structural, has no side effects, and
// either returns a fully checked definition or a
// *domain.SchemaViolationError.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/domain"
)

const schemaURL = "schema://quiz-definition.json"

// definition is the structural contract for a quiz document. The
// cross-field rules (correctIndex bounds, question id uniqueness) are
// not expressible here and run as a second pass in Validate.
var definition = map[string]any{
	"type":     "object",
	"required": []any{"slug", "title", "description", "questions"},
	"properties": map[string]any{
		"slug": map[string]any{
			"type":      "string",
			"minLength": 1,
			"pattern":   "^[a-z0-9_-]+$",
		},
		"title":       map[string]any{"type": "string", "minLength": 1},
		"description": map[string]any{"type": "string", "minLength": 1},
		"questions": map[string]any{
			"type":     "array",
			"minItems": domain.QuestionCount,
			"maxItems": domain.QuestionCount,
			"items": map[string]any{
				"oneOf": []any{factQuestionSchema, profileQuestionSchema},
			},
		},
	},
}

var baseQuestionProperties = map[string]any{
	"id":       map[string]any{"type": "string", "minLength": 1},
	"question": map[string]any{"type": "string", "minLength": 1},
	"options": map[string]any{
		"type":        "array",
		"minItems":    2,
		"uniqueItems": true,
		"items":       map[string]any{"type": "string", "minLength": 1},
	},
}

var factQuestionSchema = map[string]any{
	"type":     "object",
	"required": []any{"type", "id", "question", "options", "correctIndex", "explanation", "sources", "factId"},
	"properties": mergeProperties(baseQuestionProperties, map[string]any{
		"type":         map[string]any{"const": "fact"},
		"correctIndex": map[string]any{"type": "integer", "minimum": 0},
		"explanation":  map[string]any{"type": "string", "minLength": 1},
		"sources": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items":    map[string]any{"type": "string", "minLength": 1},
		},
		"factId": map[string]any{"type": "string", "minLength": 1},
	}),
}

var profileQuestionSchema = map[string]any{
	"type":     "object",
	"required": []any{"type", "id", "question", "options"},
	"properties": mergeProperties(baseQuestionProperties, map[string]any{
		"type": map[string]any{"const": "profile"},
	}),
}

func mergeProperties(base, extra map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// compiledSchema compiles the definition schema once per process.
func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any),
		// not raw bytes. Marshal then unmarshal to get a clean any
		// representation.
		defBytes, err := json.Marshal(definition)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, defParsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks a raw quiz document and returns the validated,
// immutable definition. Every failure is a *domain.SchemaViolationError.
func Validate(raw []byte) (*domain.QuizDefinition, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &domain.SchemaViolationError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile quiz schema: %w", err)
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, &domain.SchemaViolationError{Err: err}
	}

	var def domain.QuizDefinition
	if err := json.Unmarshal(raw, &def); err != nil {
		return nil, &domain.SchemaViolationError{Err: err}
	}

	seen := make(map[string]struct{}, len(def.Questions))
	for _, q := range def.Questions {
		base := q.Base()
		if _, ok := seen[base.ID]; ok {
			return nil, &domain.SchemaViolationError{
				Err: fmt.Errorf("duplicate question id %q", base.ID),
			}
		}
		seen[base.ID] = struct{}{}

		if fact, ok := q.(domain.FactQuestion); ok {
			if fact.CorrectIndex < 0 || fact.CorrectIndex >= len(base.Options) {
				return nil, &domain.SchemaViolationError{
					Err: fmt.Errorf("fact question %q: correctIndex %d out of range for %d options",
						base.ID, fact.CorrectIndex, len(base.Options)),
				}
			}
		}
	}
	return &def, nil
}
