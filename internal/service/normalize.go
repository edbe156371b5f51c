package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/edumate/paper-grader/internal/dto"
)

// gradingResultSchema is the shape contract for a single structuring
// candidate. It is deliberately lenient where the coercion rules below can
// absorb the value (marks as number/string, nullable arrays, numeric Name)
// and strict where they cannot (list fields must be arrays of strings,
// Name must not be an object).
const gradingResultSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"Name":        {"type": ["string", "number", "null"]},
		"marks":       {"type": ["integer", "number", "string", "boolean", "null"]},
		"remarks":     {"type": ["array", "null"], "items": {"type": "string"}},
		"suggestions": {"type": ["array", "null"], "items": {"type": "string"}},
		"errors":      {"type": ["array", "null"], "items": {"type": "string"}}
	}
}`

var resultSchema = jsonschema.MustCompileString("grading_result.schema.json", gradingResultSchema)

// normalizeResults turns the raw structuring response into validated
// GradingResult records. The service may answer with a single object or an
// array of objects; both are accepted at the parse boundary and normalized
// to a slice immediately.
func normalizeResults(raw string) ([]dto.GradingResult, error) {
	cleaned := stripCodeFences(raw)

	var root interface{}
	if err := json.Unmarshal([]byte(cleaned), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var candidates []interface{}
	switch v := root.(type) {
	case map[string]interface{}:
		candidates = []interface{}{v}
	case []interface{}:
		candidates = v
	default:
		return nil, fmt.Errorf("%w: expected object or array, got %T", ErrParse, root)
	}

	results := make([]dto.GradingResult, 0, len(candidates))
	for i, candidate := range candidates {
		if err := resultSchema.Validate(candidate); err != nil {
			return nil, fmt.Errorf("%w: result %d: %v", ErrParse, i, err)
		}

		obj, ok := candidate.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: result %d is not an object", ErrParse, i)
		}

		results = append(results, dto.GradingResult{
			Name:        coerceName(obj["Name"]),
			Marks:       coerceMarks(obj["marks"]),
			Remarks:     coerceStringList(obj["remarks"]),
			Suggestions: coerceStringList(obj["suggestions"]),
			Errors:      coerceStringList(obj["errors"]),
		})
	}

	return results, nil
}

// stripCodeFences removes a Markdown code-fence wrapper that models sometimes
// emit around JSON even in JSON-constrained mode.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// coerceMarks normalizes the score to an integer in [0,100]. Missing, null,
// non-numeric and out-of-range values all default to 0. This leniency is
// intentional: a bad score must not fail the whole request.
func coerceMarks(v interface{}) int {
	var marks int
	switch m := v.(type) {
	case float64:
		marks = int(m)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(m))
		if err != nil {
			f, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
			if err != nil {
				return 0
			}
			n = int(f)
		}
		marks = n
	default:
		return 0
	}

	if marks < 0 || marks > 100 {
		return 0
	}
	return marks
}

func coerceName(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return ""
	}
}

func coerceStringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
