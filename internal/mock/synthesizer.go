package mock

import (
	"strings"

	"github.com/fatih/color"

	"github.com/AliSafari-IT/setup-data/internal/schema"
)

// Options tune value synthesis. Zero values fall back to the defaults
// below.
type Options struct {
	// NullChance is the probability a nullable, non-required field resolves
	// to null before any other rule runs. Nil applies the default; an
	// explicit zero disables nulls entirely.
	NullChance *float64
	// ArrayMinItems and ArrayMaxItems bound the element count drawn for
	// array fields.
	ArrayMinItems int
	ArrayMaxItems int
	// Overrides maps a field name to a named generator that takes
	// precedence over every heuristic.
	Overrides map[string]string
}

const (
	defaultNullChance    = 0.2
	defaultArrayMaxItems = 5
)

// Synthesizer resolves one field at a time against the rule pipeline:
// null chance, foreign-key sampling, configured override, enum lookup,
// array expansion, name-pattern rules, then the coarse type fallback.
type Synthesizer struct {
	stream     *Stream
	opts       Options
	nullChance float64

	enums     map[string][]schema.EnumMember
	parentIDs map[string][]any
	warned    map[string]bool
}

// NewSynthesizer builds a synthesizer over one parse batch. Enums from
// every entity are merged into a single registry so a field can reference
// an enum declared in a sibling source file.
func NewSynthesizer(stream *Stream, batch *schema.Batch, opts Options) *Synthesizer {
	nullChance := defaultNullChance
	if opts.NullChance != nil {
		nullChance = *opts.NullChance
		if nullChance < 0 {
			nullChance = 0
		}
	}
	if opts.ArrayMaxItems <= 0 {
		opts.ArrayMaxItems = defaultArrayMaxItems
	}
	if opts.ArrayMinItems < 0 {
		opts.ArrayMinItems = 0
	}
	if opts.ArrayMaxItems < opts.ArrayMinItems {
		opts.ArrayMaxItems = opts.ArrayMinItems
	}

	s := &Synthesizer{
		stream:     stream,
		opts:       opts,
		nullChance: nullChance,
		enums:      make(map[string][]schema.EnumMember),
		parentIDs:  make(map[string][]any),
		warned:     make(map[string]bool),
	}
	if batch != nil {
		for _, name := range batch.Order {
			for enumName, members := range batch.Entities[name].Enums {
				if _, exists := s.enums[enumName]; !exists && len(members) > 0 {
					s.enums[enumName] = members
				}
			}
		}
	}
	return s
}

// RegisterParentIDs records the identifiers of a completed entity so its
// dependents can sample foreign keys. Records whose Id stayed a null
// placeholder contribute their 1-based position, matching what sequential
// storage assignment will produce.
func (s *Synthesizer) RegisterParentIDs(entity string, records []map[string]any) {
	ids := make([]any, 0, len(records))
	for i, record := range records {
		id, ok := record["Id"]
		if !ok {
			id = record["id"]
		}
		if id == nil {
			id = i + 1
		}
		ids = append(ids, id)
	}
	s.parentIDs[entity] = ids
}

// SetParentIDs replaces the recorded identifiers for an entity with
// storage-assigned values.
func (s *Synthesizer) SetParentIDs(entity string, ids []any) {
	s.parentIDs[entity] = ids
}

// ParentIDs exposes the recorded identifiers for an entity.
func (s *Synthesizer) ParentIDs(entity string) []any {
	return s.parentIDs[entity]
}

// SynthesizeRecord builds one flat record in field-declaration order.
// Navigation fields describe relationships, not columns, and are skipped.
func (s *Synthesizer) SynthesizeRecord(entity *schema.EntityDefinition, recordIndex int) map[string]any {
	record := make(map[string]any, len(entity.Fields))
	for i := range entity.Fields {
		field := &entity.Fields[i]
		if field.IsNavigation || field.IsArrayOfEntities {
			continue
		}
		record[field.Name] = s.Synthesize(entity, field, recordIndex)
	}
	return record
}

// Synthesize resolves a single field value.
func (s *Synthesizer) Synthesize(entity *schema.EntityDefinition, field *schema.FieldDefinition, recordIndex int) any {
	if field.Nullable && !field.Required && s.stream.Chance(s.nullChance) {
		return nil
	}

	if target, ok := s.foreignKeyTarget(entity, field); ok {
		return s.sampleParent(target)
	}

	if name, ok := s.opts.Overrides[field.Name]; ok {
		if generate, known := LookupGenerator(name); known {
			return generate(s.stream)
		}
		s.warnUnknownOverride(name, field.Name)
	}

	if value, ok := s.resolveEnum(field); ok {
		return value
	}

	if field.Kind == schema.KindArray {
		return s.synthesizeArray(entity, field, recordIndex)
	}

	if rule, ok := matchNameRule(field); ok {
		return rule.generate(s.stream, field)
	}

	return s.fallbackForKind(field)
}

func (s *Synthesizer) warnUnknownOverride(name, fieldName string) {
	key := fieldName + ":" + name
	if s.warned[key] {
		return
	}
	s.warned[key] = true
	color.Yellow("⚠️  Unknown generator %q for field %s, using default rules", name, fieldName)
	color.Yellow("    Available generators: %s", strings.Join(GeneratorNames(), ", "))
}

// foreignKeyTarget reports the parent entity a field samples from. Derived
// many-to-one relationships always qualify; otherwise an <Entity>Id name
// qualifies when that entity has already been generated.
func (s *Synthesizer) foreignKeyTarget(entity *schema.EntityDefinition, field *schema.FieldDefinition) (string, bool) {
	if entity != nil {
		for _, rel := range entity.Relationships {
			if rel.FieldName == field.Name && rel.Kind == schema.ManyToOne {
				return rel.TargetEntity, true
			}
		}
	}
	if len(field.Name) > 2 && strings.HasSuffix(field.Name, "Id") {
		base := strings.TrimSuffix(field.Name, "Id")
		if _, ok := s.parentIDs[base]; ok {
			return base, true
		}
		for name := range s.parentIDs {
			if strings.EqualFold(name, base) {
				return name, true
			}
		}
	}
	return "", false
}

// sampleParent draws uniformly from a parent's identifier set, or resolves
// to null when no parent records exist yet.
func (s *Synthesizer) sampleParent(target string) any {
	ids := s.parentIDs[target]
	if len(ids) == 0 {
		return nil
	}
	return ids[s.stream.Intn(len(ids))]
}

// resolveEnum emits a uniformly drawn member value when the field's base
// type names a declared enum, or one of the schema's literal values for
// JSON Schema enums.
func (s *Synthesizer) resolveEnum(field *schema.FieldDefinition) (any, bool) {
	if members, ok := s.enums[baseTypeToken(field.DeclaredType)]; ok {
		return members[s.stream.Intn(len(members))].Value, true
	}
	if len(field.EnumLiterals) > 0 {
		return field.EnumLiterals[s.stream.Intn(len(field.EnumLiterals))], true
	}
	return nil, false
}

// synthesizeArray draws an element count and synthesizes each element
// through the full pipeline at its own position.
func (s *Synthesizer) synthesizeArray(entity *schema.EntityDefinition, field *schema.FieldDefinition, recordIndex int) any {
	count := s.stream.IntBetween(s.opts.ArrayMinItems, s.opts.ArrayMaxItems)
	element := schema.FieldDefinition{
		Name:         field.Name,
		DeclaredType: field.ElementType,
		Kind:         field.ElementKind,
		Required:     true,
		MaxLength:    field.MaxLength,
	}
	values := make([]any, count)
	for i := 0; i < count; i++ {
		values[i] = s.Synthesize(entity, &element, recordIndex*(s.opts.ArrayMaxItems+1)+i)
	}
	return values
}

func (s *Synthesizer) fallbackForKind(field *schema.FieldDefinition) any {
	if isGUIDType(field.DeclaredType) {
		return s.stream.UUID()
	}

	switch field.Kind {
	case schema.KindInteger:
		return generateInteger(s.stream)
	case schema.KindNumber:
		return generateNumber(s.stream)
	case schema.KindBoolean:
		return generateBoolean(s.stream)
	case schema.KindDateTime:
		return generatePastTimestamp(s.stream)
	case schema.KindDate:
		return generatePastDate(s.stream)
	case schema.KindString, schema.KindObject:
		return clipString(generateWord(s.stream), field.MaxLength)
	}
	return clipString(generateWord(s.stream), field.MaxLength)
}

func isGUIDType(declared string) bool {
	lower := strings.ToLower(declared)
	return strings.Contains(lower, "guid") || strings.Contains(lower, "uuid")
}

// baseTypeToken reduces a declared type to its bare name: nullability
// markers, null unions, and namespace qualifiers are stripped.
func baseTypeToken(declared string) string {
	token := strings.TrimSpace(declared)
	if idx := strings.Index(token, "|"); idx >= 0 {
		for _, part := range strings.Split(token, "|") {
			part = strings.TrimSpace(part)
			if part != "" && part != "null" && part != "undefined" {
				token = part
				break
			}
		}
	}
	token = strings.TrimSuffix(token, "?")
	if idx := strings.LastIndex(token, "."); idx >= 0 {
		token = token[idx+1:]
	}
	return token
}
