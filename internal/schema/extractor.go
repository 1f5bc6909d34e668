package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Batch is the result of extracting a directory of schema sources. Order
// preserves file encounter order and drives every downstream traversal.
type Batch struct {
	Entities map[string]*EntityDefinition
	Order    []string
}

// Entity returns the named entity, trying an exact match first and a
// case-insensitive one second.
func (b *Batch) Entity(name string) *EntityDefinition {
	if e, ok := b.Entities[name]; ok {
		return e
	}
	for _, candidate := range b.Order {
		if strings.EqualFold(candidate, name) {
			return b.Entities[candidate]
		}
	}
	return nil
}

// DetectSourceKind maps a file extension onto the dialect enum.
func DetectSourceKind(path string) (SourceKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cs":
		return SourceCSharp, nil
	case ".ts":
		return SourceTypeScript, nil
	case ".json":
		return SourceJSONSchema, nil
	}
	return SourceUnknown, &SchemaError{File: path, Err: ErrUnsupportedExtension}
}

// ExtractFile parses one schema source file. JSON Schema documents may
// declare several entities; the class dialects always declare one.
func ExtractFile(path string) ([]*EntityDefinition, error) {
	kind, err := DetectSourceKind(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SchemaError{File: path, Err: err}
	}
	return ExtractSource(data, kind, path)
}

// ExtractSource parses schema source text in the given dialect.
func ExtractSource(data []byte, kind SourceKind, file string) ([]*EntityDefinition, error) {
	switch kind {
	case SourceCSharp:
		entity, err := parseCSharpSource(string(data), file)
		if err != nil {
			return nil, err
		}
		return []*EntityDefinition{entity}, nil
	case SourceTypeScript:
		entity, err := parseTypeScriptSource(string(data), file)
		if err != nil {
			return nil, err
		}
		return []*EntityDefinition{entity}, nil
	case SourceJSONSchema:
		doc, err := ParseJSONSchemaDocument(data, file)
		if err != nil {
			return nil, err
		}
		names, schemas := doc.EntitySchemas()
		if len(names) == 0 {
			return nil, &SchemaError{File: file, Err: ErrNoDeclaration}
		}
		entities := make([]*EntityDefinition, 0, len(names))
		for _, name := range names {
			entities = append(entities, entityFromJSONSchema(name, schemas[name], file))
		}
		return entities, nil
	}
	return nil, &SchemaError{File: file, Err: ErrUnsupportedExtension}
}

// ExtractDir parses every schema source in a directory. Files that fail to
// parse are skipped with a warning so one bad source never sinks the batch.
// Navigation targets are confirmed and relationships derived once the whole
// batch is known.
func ExtractDir(dir string) (*Batch, error) {
	return extractDir(dir, SourceUnknown)
}

// ExtractDirKind restricts extraction to a single dialect. SourceUnknown
// keeps every known dialect, matching ExtractDir.
func ExtractDirKind(dir string, only SourceKind) (*Batch, error) {
	return extractDir(dir, only)
}

func extractDir(dir string, only SourceKind) (*Batch, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	batch := &Batch{Entities: make(map[string]*EntityDefinition)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		kind, _ := DetectSourceKind(path)
		if kind == SourceUnknown || (only != SourceUnknown && kind != only) {
			continue
		}

		entities, err := ExtractFile(path)
		if err != nil {
			color.Yellow("⚠️  Skipping %s: %v", entry.Name(), err)
			continue
		}
		for _, entity := range entities {
			if _, dup := batch.Entities[entity.Name]; dup {
				color.Yellow("⚠️  Duplicate entity %s in %s, keeping first declaration", entity.Name, entry.Name())
				continue
			}
			batch.Entities[entity.Name] = entity
			batch.Order = append(batch.Order, entity.Name)
		}
	}

	if len(batch.Order) == 0 {
		return nil, fmt.Errorf("no entities found in %s", dir)
	}

	ConfirmNavigation(batch)
	DeriveRelationships(batch)
	return batch, nil
}

// FinalizeBatch runs navigation confirmation and relationship derivation
// over entities assembled outside ExtractDir (tests, single-file flows).
func FinalizeBatch(entities []*EntityDefinition) *Batch {
	batch := &Batch{Entities: make(map[string]*EntityDefinition, len(entities))}
	for _, entity := range entities {
		if _, dup := batch.Entities[entity.Name]; dup {
			continue
		}
		batch.Entities[entity.Name] = entity
		batch.Order = append(batch.Order, entity.Name)
	}
	ConfirmNavigation(batch)
	DeriveRelationships(batch)
	return batch
}

// ConfirmNavigation resolves pending navigation candidates against the
// declared entities of the batch. A candidate naming a declared entity
// becomes a navigation; one naming a declared enum becomes an integer
// field; everything else degrades to a generic object.
func ConfirmNavigation(batch *Batch) {
	enums := make(map[string]bool)
	for _, entity := range batch.Entities {
		for name := range entity.Enums {
			enums[name] = true
		}
	}

	for _, name := range batch.Order {
		entity := batch.Entities[name]
		for i := range entity.Fields {
			field := &entity.Fields[i]
			if field.navCandidate == "" {
				continue
			}
			candidate := field.navCandidate
			field.navCandidate = ""

			if _, declared := batch.Entities[candidate]; declared {
				field.TargetEntity = candidate
				if field.Kind == KindArray {
					field.IsArrayOfEntities = true
				} else {
					field.IsNavigation = true
				}
				continue
			}
			if enums[candidate] {
				if field.Kind == KindArray {
					field.ElementKind = KindInteger
				} else {
					field.Kind = KindInteger
				}
			}
		}
	}
}

// DeriveRelationships classifies entity links:
//   - a collection of a declared entity is one-to-many
//   - a scalar navigation to a declared entity is one-to-one
//   - a non-navigation integer field named <Entity>Id is many-to-one
func DeriveRelationships(batch *Batch) {
	for _, name := range batch.Order {
		entity := batch.Entities[name]
		entity.Relationships = nil
		for i := range entity.Fields {
			field := &entity.Fields[i]
			switch {
			case field.IsArrayOfEntities:
				entity.Relationships = append(entity.Relationships, Relationship{
					FieldName:    field.Name,
					TargetEntity: field.TargetEntity,
					Kind:         OneToMany,
				})
			case field.IsNavigation:
				entity.Relationships = append(entity.Relationships, Relationship{
					FieldName:    field.Name,
					TargetEntity: field.TargetEntity,
					Kind:         OneToOne,
				})
			default:
				if target, ok := foreignKeyTarget(batch, field); ok {
					entity.Relationships = append(entity.Relationships, Relationship{
						FieldName:    field.Name,
						TargetEntity: target,
						Kind:         ManyToOne,
					})
				}
			}
		}
	}
}

// foreignKeyTarget recognizes <Entity>Id fields of integer shape whose
// prefix names a declared entity.
func foreignKeyTarget(batch *Batch, field *FieldDefinition) (string, bool) {
	if field.Kind != KindInteger && field.Kind != KindNumber {
		return "", false
	}
	if len(field.Name) <= 2 || !strings.HasSuffix(field.Name, "Id") {
		return "", false
	}
	base := strings.TrimSuffix(field.Name, "Id")
	if _, ok := batch.Entities[base]; ok {
		return base, true
	}
	for _, candidate := range batch.Order {
		if strings.EqualFold(candidate, base) {
			return candidate, true
		}
	}
	return "", false
}
