package schema

import (
	"regexp"
	"strconv"
	"strings"
)

// TypeScript interface/class parsing. Same line-oriented contract as the
// C# scanner: decorators above a field are pending markers, optionality
// comes from the ? suffix, and nullability from ? or a |null union.

var (
	tsDeclRegex  = regexp.MustCompile(`(?:^|\s)(?:interface|class)\s+([A-Za-z_]\w*)`)
	tsAliasRegex = regexp.MustCompile(`(?:^|\s)type\s+([A-Za-z_]\w*)\s*=\s*\{`)
	tsEnumRegex  = regexp.MustCompile(`(?:^|\s)enum\s+([A-Za-z_]\w*)`)
	tsDecoRegex  = regexp.MustCompile(`^@([A-Za-z_]\w*)\s*(?:\(([^)]*)\))?\s*$`)
	tsFieldRegex = regexp.MustCompile(`^(?:public\s+|private\s+|protected\s+|readonly\s+|declare\s+)*([A-Za-z_]\w*)\s*([?!])?\s*:\s*([^;=]+?)\s*(?:=\s*([^;]+))?;?\s*$`)
	tsArrayRegex = regexp.MustCompile(`^Array<(.+)>$`)
)

func parseTypeScriptSource(src, file string) (*EntityDefinition, error) {
	entity := &EntityDefinition{Enums: make(map[string][]EnumMember), SourceFile: file}
	pending := csMarkers{}

	lines := strings.Split(src, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if idx := strings.Index(line, "//"); idx == 0 {
			pending = csMarkers{}
			continue
		}

		if m := tsDecoRegex.FindStringSubmatch(line); m != nil {
			applyTypeScriptDecorator(m[1], m[2], &pending)
			continue
		}

		if m := tsEnumRegex.FindStringSubmatch(line); m != nil {
			body, consumed := collectBracedBlock(lines, i)
			entity.Enums[m[1]] = parseEnumBody(body)
			i = consumed
			pending = csMarkers{}
			continue
		}

		if m := tsDeclRegex.FindStringSubmatch(line); m != nil {
			if entity.Name == "" {
				entity.Name = m[1]
			}
			pending = csMarkers{}
			continue
		}
		if m := tsAliasRegex.FindStringSubmatch(line); m != nil {
			if entity.Name == "" {
				entity.Name = m[1]
			}
			pending = csMarkers{}
			continue
		}

		if field, ok := parseTypeScriptField(line, pending); ok {
			entity.Fields = append(entity.Fields, field)
			pending = csMarkers{}
			continue
		}

		pending = csMarkers{}
	}

	if entity.Name == "" {
		return nil, &SchemaError{File: file, Err: ErrNoDeclaration}
	}
	return entity, nil
}

func applyTypeScriptDecorator(name, arg string, pending *csMarkers) {
	switch name {
	case "IsNotEmpty", "IsDefined", "Required":
		pending.required = true
	case "MaxLength", "Length":
		first := strings.TrimSpace(strings.Split(arg, ",")[0])
		if n, err := strconv.Atoi(first); err == nil && n > 0 {
			pending.maxLength = n
		}
	}
}

func parseTypeScriptField(line string, pending csMarkers) (FieldDefinition, bool) {
	m := tsFieldRegex.FindStringSubmatch(line)
	if m == nil {
		return FieldDefinition{}, false
	}

	name, modifier, rawType, dflt := m[1], m[2], strings.TrimSpace(m[3]), strings.TrimSpace(m[4])
	switch name {
	case "interface", "class", "enum", "type", "export", "import", "function", "constructor", "return":
		return FieldDefinition{}, false
	}

	optional := modifier == "?"
	field := FieldDefinition{
		Name:         name,
		DeclaredType: rawType,
		Required:     pending.required || !optional,
		Nullable:     optional,
		MaxLength:    pending.maxLength,
		DefaultValue: dflt,
	}

	baseType := rawType
	if stripped, nullable := stripNullUnion(baseType); nullable {
		field.Nullable = true
		baseType = stripped
	}

	classifyTypeScriptType(baseType, &field)
	return field, true
}

// stripNullUnion removes |null and |undefined members from a union type.
func stripNullUnion(token string) (string, bool) {
	if !strings.Contains(token, "|") {
		return token, false
	}
	var kept []string
	nullable := false
	for _, part := range strings.Split(token, "|") {
		part = strings.TrimSpace(part)
		if part == "null" || part == "undefined" {
			nullable = true
			continue
		}
		if part != "" {
			kept = append(kept, part)
		}
	}
	if len(kept) == 0 {
		return token, false
	}
	return strings.Join(kept, " | "), nullable
}

func classifyTypeScriptType(token string, field *FieldDefinition) {
	if elem, ok := typescriptElementType(token); ok {
		field.Kind = KindArray
		field.ElementType = elem
		if kind, primitive := typescriptPrimitiveKind(elem); primitive {
			field.ElementKind = kind
		} else {
			field.ElementKind = KindObject
			field.navCandidate = elem
		}
		return
	}

	if kind, primitive := typescriptPrimitiveKind(token); primitive {
		field.Kind = kind
		return
	}

	field.Kind = KindObject
	field.navCandidate = token
}

func typescriptElementType(token string) (string, bool) {
	if strings.HasSuffix(token, "[]") {
		return strings.TrimSuffix(token, "[]"), true
	}
	if m := tsArrayRegex.FindStringSubmatch(token); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

func typescriptPrimitiveKind(token string) (TypeKind, bool) {
	switch token {
	case "string":
		return KindString, true
	case "number", "bigint":
		return KindNumber, true
	case "boolean":
		return KindBoolean, true
	case "Date":
		return KindDateTime, true
	case "any", "unknown", "object", "Record<string, any>":
		return KindObject, true
	}
	return "", false
}
