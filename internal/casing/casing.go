// Package casing normalizes record key casing across the import and
// generation paths. Styles map onto strcase, with one domain rule layered on
// top: keys ending in "id" keep a literal "Id" suffix in pascal and camel
// output so foreign-key names round-trip (userId -> UserId, never UserID).
package casing

import (
	"strings"

	"github.com/iancoleman/strcase"
)

type Style string

const (
	Pascal Style = "pascal"
	Camel  Style = "camel"
	Snake  Style = "snake"
	Kebab  Style = "kebab"
)

// ParseStyle maps a config token to a Style. Unknown tokens return ok=false;
// callers treat that as the identity transform, not an error.
func ParseStyle(token string) (Style, bool) {
	switch Style(strings.ToLower(strings.TrimSpace(token))) {
	case Pascal:
		return Pascal, true
	case Camel:
		return Camel, true
	case Snake:
		return Snake, true
	case Kebab:
		return Kebab, true
	}
	return "", false
}

// Key recases a single mapping key. The Id-suffix rule takes precedence over
// the generic word splitting for pascal and camel; snake and kebab already
// treat a trailing Id/ID as its own segment (user_id), so they go through
// strcase unchanged.
func Key(key string, style Style) string {
	switch style {
	case Pascal:
		if prefix, ok := splitIDSuffix(key); ok {
			return strcase.ToCamel(prefix) + "Id"
		}
		return strcase.ToCamel(key)
	case Camel:
		if prefix, ok := splitIDSuffix(key); ok {
			return strcase.ToLowerCamel(prefix) + "Id"
		}
		return strcase.ToLowerCamel(key)
	case Snake:
		return strcase.ToSnake(key)
	case Kebab:
		return strcase.ToKebab(key)
	}
	return key
}

// splitIDSuffix reports whether key ends in "id" (any casing) and returns the
// part before it. A bare "id" has no prefix to recase and falls through to
// the generic path.
func splitIDSuffix(key string) (string, bool) {
	if len(key) <= 2 || !strings.EqualFold(key[len(key)-2:], "id") {
		return "", false
	}
	prefix := key[:len(key)-2]
	prefix = strings.TrimRight(prefix, "_-")
	if prefix == "" {
		return "", false
	}
	return prefix, true
}

// Transform rewrites every mapping key in v to the requested style,
// descending into nested maps and arrays. Scalar leaves pass through
// untouched, as does everything when the style is unrecognized.
func Transform(v any, style Style) any {
	switch style {
	case Pascal, Camel, Snake, Kebab:
	default:
		return v
	}
	return transform(v, style)
}

func transform(v any, style Style) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[Key(k, style)] = transform(inner, style)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = transform(inner, style)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, inner := range val {
			out[i] = transform(inner, style).(map[string]any)
		}
		return out
	default:
		return v
	}
}

// TransformRecords applies Transform to a record batch, preserving order.
func TransformRecords(records []map[string]any, style Style) []map[string]any {
	if _, ok := ParseStyle(string(style)); !ok {
		return records
	}
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		out[i] = transform(rec, style).(map[string]any)
	}
	return out
}
