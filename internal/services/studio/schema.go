package studio

import (
	"fmt"
	"math"
	"sort"
)

// validateSchema checks a decoded JSON value against a JSON schema subset:
// type, required, properties, items and enum. The first violation is returned.
func validateSchema(value interface{}, schema map[string]interface{}, path string) error {
	if len(schema) == 0 {
		return nil
	}

	typeName, _ := schema["type"].(string)
	if typeName != "" && !matchesType(value, typeName) {
		return &SchemaViolationError{Path: path, Reason: fmt.Sprintf("expected %s, got %s", typeName, describe(value))}
	}

	if enum := schemaStrings(schema["enum"]); len(enum) > 0 {
		s, _ := value.(string)
		found := false
		for _, allowed := range enum {
			if s == allowed {
				found = true
				break
			}
		}
		if !found {
			return &SchemaViolationError{Path: path, Reason: fmt.Sprintf("value %q not in %v", s, enum)}
		}
	}

	switch v := value.(type) {
	case map[string]interface{}:
		for _, field := range schemaStrings(schema["required"]) {
			if fieldValue, ok := v[field]; !ok || fieldValue == nil {
				return &SchemaViolationError{Path: join(path, field), Reason: "required field is missing"}
			}
		}
		props, _ := schema["properties"].(map[string]interface{})
		// Sorted for a deterministic first violation
		names := make([]string, 0, len(props))
		for name := range props {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fieldValue, ok := v[name]
			if !ok || fieldValue == nil {
				continue
			}
			propSchema, _ := props[name].(map[string]interface{})
			if err := validateSchema(fieldValue, propSchema, join(path, name)); err != nil {
				return err
			}
		}
	case []interface{}:
		itemSchema, _ := schema["items"].(map[string]interface{})
		for i, item := range v {
			if err := validateSchema(item, itemSchema, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}

	return nil
}

func matchesType(value interface{}, typeName string) bool {
	switch typeName {
	case "object":
		_, ok := value.(map[string]interface{})
		return ok
	case "array":
		_, ok := value.([]interface{})
		return ok
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		_, ok := value.(float64)
		return ok
	case "integer":
		f, ok := value.(float64)
		return ok && f == math.Trunc(f)
	case "boolean":
		_, ok := value.(bool)
		return ok
	}
	return true
}

func describe(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", value)
}

func schemaStrings(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func join(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}
