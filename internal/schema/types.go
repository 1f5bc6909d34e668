// Package schema turns loosely structured entity descriptions (C#-flavored
// classes, TypeScript interfaces, or JSON Schema documents) into normalized
// entity definitions with typed fields, enums, and derived relationships.
// Parsing is heuristic and line-oriented: content it cannot classify degrades
// to generic object fields instead of failing the extraction.
package schema

import (
	"errors"
	"fmt"
)

// TypeKind is the coarse type a declared source type maps onto.
type TypeKind string

const (
	KindString   TypeKind = "string"
	KindInteger  TypeKind = "integer"
	KindNumber   TypeKind = "number"
	KindBoolean  TypeKind = "boolean"
	KindDateTime TypeKind = "date-time"
	KindDate     TypeKind = "date"
	KindArray    TypeKind = "array"
	KindObject   TypeKind = "object"
)

// SourceKind identifies the schema dialect of an input file. The set is
// closed: dispatch happens over these three variants, never over raw
// extension strings.
type SourceKind int

const (
	SourceUnknown SourceKind = iota
	SourceCSharp
	SourceTypeScript
	SourceJSONSchema
)

func (k SourceKind) String() string {
	switch k {
	case SourceCSharp:
		return "csharp"
	case SourceTypeScript:
		return "typescript"
	case SourceJSONSchema:
		return "jsonschema"
	}
	return "unknown"
}

// ParseSourceKind maps a config token to a SourceKind.
func ParseSourceKind(token string) (SourceKind, bool) {
	switch token {
	case "csharp", "cs", "c#":
		return SourceCSharp, true
	case "typescript", "ts":
		return SourceTypeScript, true
	case "jsonschema", "json", "json-schema":
		return SourceJSONSchema, true
	}
	return SourceUnknown, false
}

// RelationKind classifies a derived relationship.
type RelationKind string

const (
	OneToOne  RelationKind = "one-to-one"
	OneToMany RelationKind = "one-to-many"
	ManyToOne RelationKind = "many-to-one"
)

// Relationship links a field on the owning entity to a target entity.
type Relationship struct {
	FieldName    string       `json:"field"`
	TargetEntity string       `json:"target"`
	Kind         RelationKind `json:"kind"`
}

// EnumMember is one named enum entry with its resolved integer value.
// Unassigned members take their 0-based position among non-empty entries.
type EnumMember struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// FieldDefinition is one normalized schema field. Exactly one of
// {primitive scalar, array, navigation-to-entity} classifies a field;
// IsNavigation and TargetEntity are only set once the target is confirmed
// to be a declared entity in the same parse batch.
type FieldDefinition struct {
	Name         string   `json:"name"`
	DeclaredType string   `json:"declaredType"`
	Kind         TypeKind `json:"kind"`
	ElementType  string   `json:"elementType,omitempty"` // raw element type for arrays
	ElementKind  TypeKind `json:"elementKind,omitempty"`
	Nullable     bool     `json:"nullable"`
	Required     bool     `json:"required"`
	MaxLength    int      `json:"maxLength,omitempty"` // 0 means no constraint
	DefaultValue string   `json:"default,omitempty"`   // literal source text
	EnumLiterals []any    `json:"enumLiterals,omitempty"`

	IsNavigation      bool   `json:"isNavigation"`
	IsArrayOfEntities bool   `json:"isArrayOfEntities"`
	TargetEntity      string `json:"targetEntity,omitempty"`

	// navCandidate marks an unresolved non-primitive type token; the batch
	// confirmation pass either promotes it to a navigation or demotes the
	// field to a generic object.
	navCandidate string
}

// EntityDefinition is one parsed class or interface. Field order is
// declaration order and is part of the deterministic-output contract.
type EntityDefinition struct {
	Name          string                  `json:"name"`
	Fields        []FieldDefinition       `json:"fields"`
	Enums         map[string][]EnumMember `json:"enums,omitempty"`
	Relationships []Relationship          `json:"relationships,omitempty"`
	SourceFile    string                  `json:"sourceFile,omitempty"`
}

// Field returns the named field, or nil.
func (e *EntityDefinition) Field(name string) *FieldDefinition {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i]
		}
	}
	return nil
}

// DependsOn lists the distinct many-to-one target entities, in relationship
// order.
func (e *EntityDefinition) DependsOn() []string {
	var deps []string
	seen := make(map[string]bool)
	for _, rel := range e.Relationships {
		if rel.Kind != ManyToOne || seen[rel.TargetEntity] {
			continue
		}
		seen[rel.TargetEntity] = true
		deps = append(deps, rel.TargetEntity)
	}
	return deps
}

var (
	// ErrNoDeclaration means no class/interface/enum boundary was found.
	ErrNoDeclaration = errors.New("no class or interface declaration found")
	// ErrUnsupportedExtension means the file extension maps to no dialect.
	ErrUnsupportedExtension = errors.New("unsupported schema file extension")
)

// SchemaError is the fatal extraction error for a single source file. In
// batch mode the file is skipped with a warning; in single-file mode it
// fails the operation.
type SchemaError struct {
	File string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: %v", e.File, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
