// SPDX-License-Identifier: AGPL-3.0-only

// Package schema derives a JSON Schema and a runtime validator from one set
// of struct tags, so the constraints advertised to MCP clients are exactly
// the ones enforced on incoming arguments.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Bucksibi/gemini-mcp/internal/errors"
)

// Property describes the constraints of a single object field
type Property struct {
	Type        string
	Description string
	MinLength   *int
	MaxLength   *int
	Enum        []string
	MinItems    *int
	Items       *Schema
	Required    bool
}

// Schema describes a JSON object: its properties and which are required
type Schema struct {
	properties map[string]*Property
	order      []string
}

// For builds a Schema from a struct's json, description, minLength,
// maxLength, enum and minItems tags. Fields without omitempty are required.
// Slices of structs produce nested array/items schemas.
func For(params interface{}) *Schema {
	t := reflect.TypeOf(params)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return forType(t)
}

func forType(t reflect.Type) *Schema {
	s := &Schema{properties: map[string]*Property{}}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Recurse into embedded structs
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded := forType(field.Type)
			for _, name := range embedded.order {
				s.properties[name] = embedded.properties[name]
				s.order = append(s.order, name)
			}
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}

		parts := strings.Split(jsonTag, ",")
		fieldName := parts[0]
		omitempty := false
		for _, p := range parts[1:] {
			if p == "omitempty" {
				omitempty = true
			}
		}

		prop := &Property{
			Type:        goTypeToJSONType(field.Type),
			Description: field.Tag.Get("description"),
			Required:    !omitempty,
		}

		if v, ok := intTag(field, "minLength"); ok {
			prop.MinLength = &v
		}
		if v, ok := intTag(field, "maxLength"); ok {
			prop.MaxLength = &v
		}
		if v, ok := intTag(field, "minItems"); ok {
			prop.MinItems = &v
		}
		if enum := field.Tag.Get("enum"); enum != "" {
			prop.Enum = strings.Split(enum, ",")
		}

		if field.Type.Kind() == reflect.Slice {
			elem := field.Type.Elem()
			if elem.Kind() == reflect.Ptr {
				elem = elem.Elem()
			}
			if elem.Kind() == reflect.Struct {
				prop.Items = forType(elem)
			}
		}

		s.properties[fieldName] = prop
		s.order = append(s.order, fieldName)
	}

	return s
}

// SetEnum constrains a named property to the given closed set. It allows
// enums whose members live in code rather than in a struct tag literal.
func (s *Schema) SetEnum(name string, values []string) *Schema {
	if prop, ok := s.properties[name]; ok {
		prop.Enum = values
	}
	return s
}

// JSON renders the schema as a JSON Schema object suitable for a tool's
// inputSchema field.
func (s *Schema) JSON() map[string]interface{} {
	properties := map[string]interface{}{}
	var required []string

	for _, name := range s.order {
		prop := s.properties[name]

		p := map[string]interface{}{
			"type": prop.Type,
		}
		if prop.Description != "" {
			p["description"] = prop.Description
		}
		if prop.MinLength != nil {
			p["minLength"] = *prop.MinLength
		}
		if prop.MaxLength != nil {
			p["maxLength"] = *prop.MaxLength
		}
		if len(prop.Enum) > 0 {
			p["enum"] = prop.Enum
		}
		if prop.MinItems != nil {
			p["minItems"] = *prop.MinItems
		}
		if prop.Items != nil {
			p["items"] = prop.Items.JSON()
		}

		properties[name] = p

		if prop.Required {
			required = append(required, name)
		}
	}

	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Validate checks raw JSON arguments against the schema, collecting every
// violation rather than stopping at the first. It returns a single
// aggregated ValidationError, or nil when the arguments conform.
func (s *Schema) Validate(raw json.RawMessage) error {
	var value map[string]interface{}
	if len(raw) == 0 {
		value = map[string]interface{}{}
	} else if err := json.Unmarshal(raw, &value); err != nil {
		return errors.InvalidInput("arguments must be a JSON object")
	}

	var violations []string
	s.validate("", value, &violations)

	if len(violations) > 0 {
		return errors.Validation(violations...)
	}
	return nil
}

func (s *Schema) validate(path string, value map[string]interface{}, violations *[]string) {
	for _, name := range s.order {
		prop := s.properties[name]
		fieldPath := name
		if path != "" {
			fieldPath = path + "." + name
		}

		v, present := value[name]
		if !present || v == nil {
			if prop.Required {
				*violations = append(*violations, fmt.Sprintf("%s: required field is missing", fieldPath))
			}
			continue
		}

		switch prop.Type {
		case "string":
			str, ok := v.(string)
			if !ok {
				*violations = append(*violations, fmt.Sprintf("%s: must be a string", fieldPath))
				continue
			}
			length := utf8.RuneCountInString(str)
			if prop.MinLength != nil && length < *prop.MinLength {
				*violations = append(*violations, fmt.Sprintf("%s: must be at least %d character(s)", fieldPath, *prop.MinLength))
			}
			if prop.MaxLength != nil && length > *prop.MaxLength {
				*violations = append(*violations, fmt.Sprintf("%s: must be at most %d character(s)", fieldPath, *prop.MaxLength))
			}
			if len(prop.Enum) > 0 && !contains(prop.Enum, str) {
				*violations = append(*violations, fmt.Sprintf("%s: must be one of [%s]", fieldPath, strings.Join(prop.Enum, ", ")))
			}

		case "array":
			arr, ok := v.([]interface{})
			if !ok {
				*violations = append(*violations, fmt.Sprintf("%s: must be an array", fieldPath))
				continue
			}
			if prop.MinItems != nil && len(arr) < *prop.MinItems {
				*violations = append(*violations, fmt.Sprintf("%s: must contain at least %d element(s)", fieldPath, *prop.MinItems))
			}
			if prop.Items != nil {
				for i, elem := range arr {
					elemPath := fmt.Sprintf("%s[%d]", fieldPath, i)
					obj, ok := elem.(map[string]interface{})
					if !ok {
						*violations = append(*violations, fmt.Sprintf("%s: must be an object", elemPath))
						continue
					}
					prop.Items.validate(elemPath, obj, violations)
				}
			}

		case "boolean":
			if _, ok := v.(bool); !ok {
				*violations = append(*violations, fmt.Sprintf("%s: must be a boolean", fieldPath))
			}

		case "integer", "number":
			if _, ok := v.(float64); !ok {
				*violations = append(*violations, fmt.Sprintf("%s: must be a number", fieldPath))
			}
		}
	}

	// Reject fields the schema does not declare, so typos like "promt"
	// fail loudly instead of being silently dropped
	var unknown []string
	for name := range value {
		if _, ok := s.properties[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fieldPath := name
		if path != "" {
			fieldPath = path + "." + name
		}
		*violations = append(*violations, fmt.Sprintf("%s: unknown field", fieldPath))
	}
}

func intTag(field reflect.StructField, name string) (int, bool) {
	tag := field.Tag.Get(name)
	if tag == "" {
		return 0, false
	}
	v, err := strconv.Atoi(tag)
	if err != nil {
		return 0, false
	}
	return v, true
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// goTypeToJSONType maps Go types to JSON Schema types
func goTypeToJSONType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}
