package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// JSONSchema is the passthrough subset of a JSON Schema document this tool
// understands. Anything outside these keywords is ignored rather than
// rejected.
type JSONSchema struct {
	Title       string                 `json:"title,omitempty"`
	Type        string                 `json:"type,omitempty"`
	Format      string                 `json:"format,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
	Enum        []any                  `json:"enum,omitempty"`
	Minimum     *float64               `json:"minimum,omitempty"`
	Maximum     *float64               `json:"maximum,omitempty"`
	MinLength   *int                   `json:"minLength,omitempty"`
	MaxLength   *int                   `json:"maxLength,omitempty"`
	Pattern     string                 `json:"pattern,omitempty"`
	Nullable    bool                   `json:"nullable,omitempty"`
	Default     any                    `json:"default,omitempty"`
	Definitions map[string]*JSONSchema `json:"definitions,omitempty"`
	Defs        map[string]*JSONSchema `json:"$defs,omitempty"`
	Components  *jsonSchemaComponents  `json:"components,omitempty"`
}

type jsonSchemaComponents struct {
	Schemas map[string]*JSONSchema `json:"schemas,omitempty"`
}

// ParseJSONSchemaDocument decodes a JSON Schema document.
func ParseJSONSchemaDocument(data []byte, file string) (*JSONSchema, error) {
	var doc JSONSchema
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &SchemaError{File: file, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	return &doc, nil
}

// EntitySchemas returns the named object schemas a document declares, from
// definitions, $defs, or components.schemas, falling back to the document
// itself when it is a titled object schema. Names come back sorted so the
// extraction order is deterministic.
func (doc *JSONSchema) EntitySchemas() ([]string, map[string]*JSONSchema) {
	found := make(map[string]*JSONSchema)
	merge := func(src map[string]*JSONSchema) {
		for name, sub := range src {
			if sub != nil && len(sub.Properties) > 0 {
				found[name] = sub
			}
		}
	}
	merge(doc.Definitions)
	merge(doc.Defs)
	if doc.Components != nil {
		merge(doc.Components.Schemas)
	}
	if len(found) == 0 && len(doc.Properties) > 0 {
		name := doc.Title
		if name == "" {
			name = "Root"
		}
		found[name] = doc
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, found
}

// Lookup resolves an entity schema by name, case-insensitively.
func (doc *JSONSchema) Lookup(name string) *JSONSchema {
	names, schemas := doc.EntitySchemas()
	for _, candidate := range names {
		if strings.EqualFold(candidate, name) {
			return schemas[candidate]
		}
	}
	return nil
}

// entityFromJSONSchema normalizes one object schema into an entity
// definition. JSON objects carry no declaration order, so fields are sorted
// by property name to keep output stable.
func entityFromJSONSchema(name string, s *JSONSchema, file string) *EntityDefinition {
	entity := &EntityDefinition{Name: name, SourceFile: file}

	required := make(map[string]bool, len(s.Required))
	for _, r := range s.Required {
		required[r] = true
	}

	props := make([]string, 0, len(s.Properties))
	for prop := range s.Properties {
		props = append(props, prop)
	}
	sort.Strings(props)

	for _, prop := range props {
		sub := s.Properties[prop]
		field := FieldDefinition{
			Name:         prop,
			DeclaredType: sub.Type,
			Kind:         jsonSchemaKind(sub),
			Required:     required[prop],
			Nullable:     sub.Nullable || !required[prop],
			EnumLiterals: sub.Enum,
		}
		if sub.MaxLength != nil {
			field.MaxLength = *sub.MaxLength
		}
		if sub.Default != nil {
			field.DefaultValue = fmt.Sprintf("%v", sub.Default)
		}
		if field.Kind == KindArray && sub.Items != nil {
			field.ElementType = sub.Items.Type
			field.ElementKind = jsonSchemaKind(sub.Items)
		}
		entity.Fields = append(entity.Fields, field)
	}
	return entity
}

func jsonSchemaKind(s *JSONSchema) TypeKind {
	switch s.Type {
	case "string":
		switch s.Format {
		case "date-time":
			return KindDateTime
		case "date":
			return KindDate
		}
		return KindString
	case "integer":
		return KindInteger
	case "number":
		return KindNumber
	case "boolean":
		return KindBoolean
	case "array":
		return KindArray
	case "object":
		return KindObject
	}
	return KindObject
}

// ValidateRecord checks one decoded record against an object schema and
// returns every violation rather than stopping at the first.
func ValidateRecord(record map[string]any, s *JSONSchema) []error {
	var violations []error

	for _, req := range s.Required {
		if value, ok := record[req]; !ok || value == nil {
			violations = append(violations, fmt.Errorf("missing required property %q", req))
		}
	}

	props := make([]string, 0, len(record))
	for prop := range record {
		props = append(props, prop)
	}
	sort.Strings(props)

	for _, prop := range props {
		sub, known := s.Properties[prop]
		if !known || record[prop] == nil {
			continue
		}
		if err := validateValue(prop, record[prop], sub); err != nil {
			violations = append(violations, err)
		}
	}
	return violations
}

func validateValue(prop string, value any, s *JSONSchema) error {
	switch s.Type {
	case "string":
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("property %q: expected string, got %T", prop, value)
		}
		if s.MinLength != nil && len(text) < *s.MinLength {
			return fmt.Errorf("property %q: shorter than minLength %d", prop, *s.MinLength)
		}
		if s.MaxLength != nil && len(text) > *s.MaxLength {
			return fmt.Errorf("property %q: longer than maxLength %d", prop, *s.MaxLength)
		}
		if s.Pattern != "" {
			if re, err := regexp.Compile(s.Pattern); err == nil && !re.MatchString(text) {
				return fmt.Errorf("property %q: does not match pattern %s", prop, s.Pattern)
			}
		}
	case "integer", "number":
		num, ok := toFloat(value)
		if !ok {
			return fmt.Errorf("property %q: expected %s, got %T", prop, s.Type, value)
		}
		if s.Type == "integer" && num != float64(int64(num)) {
			return fmt.Errorf("property %q: expected integer, got %v", prop, value)
		}
		if s.Minimum != nil && num < *s.Minimum {
			return fmt.Errorf("property %q: below minimum %v", prop, *s.Minimum)
		}
		if s.Maximum != nil && num > *s.Maximum {
			return fmt.Errorf("property %q: above maximum %v", prop, *s.Maximum)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("property %q: expected boolean, got %T", prop, value)
		}
	case "array":
		items, ok := value.([]any)
		if !ok {
			return fmt.Errorf("property %q: expected array, got %T", prop, value)
		}
		if s.Items != nil {
			for i, item := range items {
				if item == nil {
					continue
				}
				if err := validateValue(fmt.Sprintf("%s[%d]", prop, i), item, s.Items); err != nil {
					return err
				}
			}
		}
	}

	if len(s.Enum) > 0 && !enumContains(s.Enum, value) {
		return fmt.Errorf("property %q: value %v not in enum", prop, value)
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

func enumContains(allowed []any, value any) bool {
	for _, member := range allowed {
		if fmt.Sprintf("%v", member) == fmt.Sprintf("%v", value) {
			return true
		}
	}
	return false
}
