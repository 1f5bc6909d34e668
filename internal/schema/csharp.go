package schema

import (
	"regexp"
	"strconv"
	"strings"
)

// C#-flavored class parsing. The scanner walks the file line by line,
// collecting attribute markers above a property and attaching them to the
// next property declaration. Markers reset after each field and on any
// non-blank line that is neither a marker nor a field.

var (
	csClassRegex = regexp.MustCompile(`(?:^|\s)(?:partial\s+)?class\s+([A-Za-z_]\w*)`)
	csEnumRegex  = regexp.MustCompile(`(?:^|\s)enum\s+([A-Za-z_]\w*)`)
	csAttrRegex  = regexp.MustCompile(`^\[\s*(.+?)\s*\]$`)
	csAttrItem   = regexp.MustCompile(`([A-Za-z_]\w*)\s*(?:\(([^)]*)\))?`)
	csPropRegex  = regexp.MustCompile(`^(?:public|internal|protected|private)\s+((?:static\s+|virtual\s+|override\s+|readonly\s+|required\s+)*)([A-Za-z_][\w.]*(?:<[^>]+>)?(?:\[\])?\??)\s+([A-Za-z_]\w*)\s*(\{.*\}.*|;.*|=.*)$`)
	csDfltRegex  = regexp.MustCompile(`=\s*(.+?);?\s*$`)
	csEnumMember = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?:=\s*(-?\d+))?$`)
)

// csMarkers is the pending attribute set above a property.
type csMarkers struct {
	required  bool
	maxLength int
}

func parseCSharpSource(src, file string) (*EntityDefinition, error) {
	entity := &EntityDefinition{Enums: make(map[string][]EnumMember), SourceFile: file}
	pending := csMarkers{}

	lines := strings.Split(src, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if m := csAttrRegex.FindStringSubmatch(line); m != nil {
			applyCSharpAttributes(m[1], &pending)
			continue
		}

		if m := csEnumRegex.FindStringSubmatch(line); m != nil {
			body, consumed := collectBracedBlock(lines, i)
			entity.Enums[m[1]] = parseEnumBody(body)
			i = consumed
			pending = csMarkers{}
			continue
		}

		if m := csClassRegex.FindStringSubmatch(line); m != nil {
			// First class declaration names the entity; nested classes are
			// scanned for fields but do not rename it.
			if entity.Name == "" {
				entity.Name = m[1]
			}
			pending = csMarkers{}
			continue
		}

		if field, ok := parseCSharpProperty(line, pending); ok {
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

func applyCSharpAttributes(body string, pending *csMarkers) {
	for _, m := range csAttrItem.FindAllStringSubmatch(body, -1) {
		name, arg := m[1], strings.TrimSpace(m[2])
		switch name {
		case "Required":
			pending.required = true
		case "MaxLength", "StringLength":
			first := strings.TrimSpace(strings.Split(arg, ",")[0])
			if n, err := strconv.Atoi(first); err == nil && n > 0 {
				pending.maxLength = n
			}
		}
	}
}

func parseCSharpProperty(line string, pending csMarkers) (FieldDefinition, bool) {
	m := csPropRegex.FindStringSubmatch(line)
	if m == nil {
		return FieldDefinition{}, false
	}

	modifiers, rawType, name, trailer := m[1], strings.TrimSpace(m[2]), m[3], m[4]

	// Keywords can be captured as the type when a declaration is not a
	// property at all; reject those outright.
	switch rawType {
	case "class", "enum", "namespace", "using", "return", "get", "set", "new":
		return FieldDefinition{}, false
	}

	field := FieldDefinition{
		Name:         name,
		DeclaredType: rawType,
		Required:     pending.required || strings.Contains(modifiers, "required"),
		MaxLength:    pending.maxLength,
	}

	baseType := rawType
	if strings.HasSuffix(baseType, "?") {
		field.Nullable = true
		baseType = strings.TrimSuffix(baseType, "?")
	}

	// Initializers appear either directly (= 5;) or after the accessor
	// block ({ get; set; } = "x";). Suppressed-null defaults are noise.
	if d := csDfltRegex.FindStringSubmatch(trailer); d != nil {
		value := strings.TrimSpace(d[1])
		if value != "null!" && value != "default" && value != "default!" && !strings.HasPrefix(value, "new") {
			field.DefaultValue = value
		}
	}

	classifyCSharpType(baseType, &field)
	return field, true
}

// classifyCSharpType maps a C# type token onto the coarse kind set. Unknown
// tokens become navigation candidates resolved during batch confirmation.
func classifyCSharpType(token string, field *FieldDefinition) {
	if elem, ok := csharpElementType(token); ok {
		field.Kind = KindArray
		field.ElementType = elem
		if kind, primitive := csharpPrimitiveKind(elem); primitive {
			field.ElementKind = kind
		} else {
			field.ElementKind = KindObject
			field.navCandidate = elem
		}
		return
	}

	if kind, primitive := csharpPrimitiveKind(token); primitive {
		field.Kind = kind
		return
	}

	field.Kind = KindObject
	field.navCandidate = token
}

// csharpElementType unwraps collection declarations like List<T>,
// ICollection<T>, IEnumerable<T>, HashSet<T>, and T[].
func csharpElementType(token string) (string, bool) {
	if strings.HasSuffix(token, "[]") {
		return strings.TrimSuffix(token, "[]"), true
	}
	open := strings.Index(token, "<")
	if open < 0 || !strings.HasSuffix(token, ">") {
		return "", false
	}
	outer := token[:open]
	switch outer {
	case "List", "IList", "ICollection", "IEnumerable", "IReadOnlyList",
		"IReadOnlyCollection", "HashSet", "ISet", "ObservableCollection":
		return strings.TrimSpace(token[open+1 : len(token)-1]), true
	}
	return "", false
}

func csharpPrimitiveKind(token string) (TypeKind, bool) {
	switch token {
	case "int", "long", "short", "byte", "sbyte", "uint", "ulong", "ushort", "Int32", "Int64":
		return KindInteger, true
	case "decimal", "double", "float", "Single", "Double", "Decimal":
		return KindNumber, true
	case "bool", "Boolean":
		return KindBoolean, true
	case "DateTime", "DateTimeOffset", "TimeSpan":
		return KindDateTime, true
	case "DateOnly":
		return KindDate, true
	case "string", "String", "char", "Guid", "object", "dynamic":
		return KindString, true
	}
	return "", false
}

// collectBracedBlock gathers the text between the first { at or after
// start and its matching }, returning the body and the index of the line
// holding the closing brace.
func collectBracedBlock(lines []string, start int) (string, int) {
	var body strings.Builder
	depth := 0
	opened := false
	for i := start; i < len(lines); i++ {
		for _, r := range lines[i] {
			switch r {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			default:
				if opened && depth > 0 {
					body.WriteRune(r)
				}
			}
			if opened && depth == 0 {
				return body.String(), i
			}
		}
		if opened {
			body.WriteRune('\n')
		}
	}
	return body.String(), len(lines) - 1
}

// parseEnumBody resolves member values: explicit assignments win, and
// unassigned members take their 0-based position among non-empty entries.
func parseEnumBody(body string) []EnumMember {
	var members []EnumMember
	position := 0
	for _, part := range strings.Split(body, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := csEnumMember.FindStringSubmatch(part)
		if m == nil {
			position++
			continue
		}
		value := position
		if m[2] != "" {
			if n, err := strconv.Atoi(m[2]); err == nil {
				value = n
			}
		}
		members = append(members, EnumMember{Name: m[1], Value: value})
		position++
	}
	return members
}
