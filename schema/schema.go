// Package schema validates request bodies against a JSON Schema subset and
// holds the schemas for every bookstore entity.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// Violation is one failed constraint.
type Violation struct {
	Path    string
	Message string
}

func (v Violation) Error() string {
	return v.Path + ": " + v.Message
}

// Validate checks a document against a JSON Schema (draft-07 subset) and
// reports every violation found, joined into one error. A nil schema
// accepts anything.
//
// Supported keywords: type, properties, required, additionalProperties,
// items, enum, minimum, maximum, exclusiveMinimum, exclusiveMaximum,
// minLength, maxLength, minItems, maxItems, minProperties and format
// ("date" only).
func Validate(schema map[string]any, doc any) error {
	if schema == nil {
		return nil
	}
	var v validator
	v.value(schema, doc, "$")
	if len(v.violations) == 0 {
		return nil
	}
	errs := make([]error, len(v.violations))
	for i, vi := range v.violations {
		errs[i] = vi
	}
	return errors.Join(errs...)
}

type validator struct {
	violations []Violation
}

func (v *validator) fail(path, format string, args ...any) {
	v.violations = append(v.violations, Violation{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) value(schema map[string]any, value any, path string) {
	if t, ok := schema["type"].(string); ok && !typeMatches(t, value) {
		v.fail(path, "expected type %q, got %q", t, jsonType(value))
		return
	}
	if allowed, ok := schema["enum"].([]any); ok && !inEnum(allowed, value) {
		v.fail(path, "value not in enum %v", allowed)
	}

	switch val := value.(type) {
	case map[string]any:
		v.object(schema, val, path)
	case []any:
		v.array(schema, val, path)
	case string:
		v.str(schema, val, path)
	case float64:
		v.number(schema, val, path)
	case json.Number:
		f, _ := val.Float64()
		v.number(schema, f, path)
	}
}

func typeMatches(expected string, value any) bool {
	actual := jsonType(value)
	switch expected {
	case "integer":
		if f, ok := value.(float64); ok {
			return f == float64(int64(f))
		}
		return actual == "integer"
	case "number":
		return actual == "number" || actual == "integer"
	}
	return actual == expected
}

func jsonType(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case int, int64:
		return "integer"
	default:
		return reflect.TypeOf(v).String()
	}
}

func inEnum(allowed []any, value any) bool {
	for _, a := range allowed {
		if reflect.DeepEqual(a, value) {
			return true
		}
	}
	return false
}

func (v *validator) object(schema map[string]any, obj map[string]any, path string) {
	if req, ok := schema["required"].([]any); ok {
		for _, r := range req {
			if field, ok := r.(string); ok {
				if _, exists := obj[field]; !exists {
					v.fail(path, "missing required field %q", field)
				}
			}
		}
	}
	if n, ok := toFloat(schema["minProperties"]); ok && float64(len(obj)) < n {
		v.fail(path, "object has %d properties, fewer than minProperties %v", len(obj), n)
	}

	props, _ := schema["properties"].(map[string]any)
	// Sorted so violations come out in a stable order.
	fields := make([]string, 0, len(obj))
	for field := range obj {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var extra []string
	for _, field := range fields {
		ps, defined := props[field].(map[string]any)
		if !defined {
			if _, known := props[field]; !known {
				extra = append(extra, field)
			}
			continue
		}
		v.value(ps, obj[field], path+"."+field)
	}
	if ap, ok := schema["additionalProperties"].(bool); ok && !ap && len(extra) > 0 {
		v.fail(path, "additional properties not allowed: %s", strings.Join(extra, ", "))
	}
}

func (v *validator) array(schema map[string]any, arr []any, path string) {
	if n, ok := toFloat(schema["minItems"]); ok && float64(len(arr)) < n {
		v.fail(path, "array length %d is less than minItems %v", len(arr), n)
	}
	if n, ok := toFloat(schema["maxItems"]); ok && float64(len(arr)) > n {
		v.fail(path, "array length %d is greater than maxItems %v", len(arr), n)
	}
	if items, ok := schema["items"].(map[string]any); ok {
		for i, elem := range arr {
			v.value(items, elem, fmt.Sprintf("%s[%d]", path, i))
		}
	}
}

func (v *validator) str(schema map[string]any, s string, path string) {
	if n, ok := toFloat(schema["minLength"]); ok && float64(len(s)) < n {
		v.fail(path, "string length %d is less than minLength %v", len(s), n)
	}
	if n, ok := toFloat(schema["maxLength"]); ok && float64(len(s)) > n {
		v.fail(path, "string length %d is greater than maxLength %v", len(s), n)
	}
	if f, ok := schema["format"].(string); ok && f == "date" {
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			v.fail(path, "%q is not a date (YYYY-MM-DD)", s)
		}
	}
}

func (v *validator) number(schema map[string]any, n float64, path string) {
	if m, ok := toFloat(schema["minimum"]); ok && n < m {
		v.fail(path, "%v is less than minimum %v", n, m)
	}
	if m, ok := toFloat(schema["maximum"]); ok && n > m {
		v.fail(path, "%v is greater than maximum %v", n, m)
	}
	if m, ok := toFloat(schema["exclusiveMinimum"]); ok && n <= m {
		v.fail(path, "%v is not greater than exclusiveMinimum %v", n, m)
	}
	if m, ok := toFloat(schema["exclusiveMaximum"]); ok && n >= m {
		v.fail(path, "%v is not less than exclusiveMaximum %v", n, m)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
