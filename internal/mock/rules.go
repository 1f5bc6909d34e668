package mock

import (
	"strings"

	"github.com/AliSafari-IT/setup-data/internal/schema"
)

// nameRule pairs a field predicate with the value family it routes to.
// Rules are evaluated in table order and the first match wins, so the
// table IS the precedence policy.
type nameRule struct {
	name     string
	matches  func(field *schema.FieldDefinition) bool
	generate func(s *Stream, field *schema.FieldDefinition) any
}

// nameRules routes fields to realistic value families by naming
// convention. Identifier fields named exactly Id stay null so storage can
// assign them. Predicates also check the field kind so that, say, a
// boolean EmailVerified never routes to the email family.
var nameRules = []nameRule{
	{
		name:     "identity",
		matches:  func(f *schema.FieldDefinition) bool { return f.Name == "Id" || f.Name == "id" },
		generate: func(s *Stream, f *schema.FieldDefinition) any { return nil },
	},
	{
		name:     "email",
		matches:  and(stringish, nameContainsAny("email")),
		generate: func(s *Stream, f *schema.FieldDefinition) any { return clipString(generateEmail(s), f.MaxLength) },
	},
	{
		name:     "phone",
		matches:  and(stringish, nameContainsAny("phone")),
		generate: func(s *Stream, f *schema.FieldDefinition) any { return clipString(generatePhone(s), f.MaxLength) },
	},
	{
		name:     "address",
		matches:  and(stringish, nameContainsAny("address")),
		generate: func(s *Stream, f *schema.FieldDefinition) any { return clipString(generateAddress(s), f.MaxLength) },
	},
	{
		name:     "money",
		matches:  and(numberish, nameContainsAny("price", "cost", "amount", "total", "salary", "balance")),
		generate: func(s *Stream, f *schema.FieldDefinition) any { return generatePrice(s) },
	},
	{
		name:     "quantity",
		matches:  and(numberish, nameContainsAny("quantity", "stock", "count")),
		generate: func(s *Stream, f *schema.FieldDefinition) any { return generateQuantity(s) },
	},
	{
		name: "flag",
		matches: func(f *schema.FieldDefinition) bool {
			return f.Kind == schema.KindBoolean || hasBoolPrefix(f.Name)
		},
		generate: func(s *Stream, f *schema.FieldDefinition) any { return generateBoolean(s) },
	},
	{
		name:     "auditTimestamp",
		matches:  nameContainsAny("createdat", "updatedat", "modifiedat", "deletedat", "created_at", "updated_at"),
		generate: func(s *Stream, f *schema.FieldDefinition) any { return generatePastTimestamp(s) },
	},
	{
		name:     "birthDate",
		matches:  nameContainsAny("birth", "dob"),
		generate: func(s *Stream, f *schema.FieldDefinition) any { return generateBirthDate(s) },
	},
	{
		name:     "expiryDate",
		matches:  nameContainsAny("expiry", "expires", "expiration", "validuntil"),
		generate: func(s *Stream, f *schema.FieldDefinition) any { return generateFutureDate(s) },
	},
	{
		name: "personName",
		matches: and(stringish, func(f *schema.FieldDefinition) bool {
			lower := strings.ToLower(f.Name)
			return strings.Contains(lower, "name") && !strings.Contains(lower, "file") && !strings.Contains(lower, "user")
		}),
		generate: func(s *Stream, f *schema.FieldDefinition) any { return clipString(generateFullName(s), f.MaxLength) },
	},
	{
		name:     "title",
		matches:  and(stringish, nameContainsAny("title")),
		generate: func(s *Stream, f *schema.FieldDefinition) any { return clipString(generateTitle(s), f.MaxLength) },
	},
	{
		name:     "prose",
		matches:  and(stringish, nameContainsAny("description", "content", "comment", "note", "summary")),
		generate: func(s *Stream, f *schema.FieldDefinition) any { return clipString(generateSentence(s), f.MaxLength) },
	},
	{
		name:     "url",
		matches:  and(stringish, nameContainsAny("url", "link", "website")),
		generate: func(s *Stream, f *schema.FieldDefinition) any { return clipString(generateURL(s), f.MaxLength) },
	},
}

func and(predicates ...func(*schema.FieldDefinition) bool) func(*schema.FieldDefinition) bool {
	return func(f *schema.FieldDefinition) bool {
		for _, p := range predicates {
			if !p(f) {
				return false
			}
		}
		return true
	}
}

func stringish(f *schema.FieldDefinition) bool {
	return f.Kind == schema.KindString || f.Kind == schema.KindObject || f.Kind == ""
}

func numberish(f *schema.FieldDefinition) bool {
	return f.Kind == schema.KindInteger || f.Kind == schema.KindNumber || f.Kind == ""
}

func nameContainsAny(fragments ...string) func(*schema.FieldDefinition) bool {
	return func(f *schema.FieldDefinition) bool {
		lower := strings.ToLower(f.Name)
		for _, fragment := range fragments {
			if strings.Contains(lower, fragment) {
				return true
			}
		}
		return false
	}
}

func hasBoolPrefix(name string) bool {
	for _, prefix := range []string{"Is", "Has", "Requires", "Can", "Should"} {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			next := name[len(prefix)]
			if next >= 'A' && next <= 'Z' {
				return true
			}
		}
	}
	return false
}

// clipString enforces a max-length constraint on generated text.
func clipString(value string, maxLength int) string {
	if maxLength > 0 && len(value) > maxLength {
		return value[:maxLength]
	}
	return value
}

// matchNameRule returns the first matching rule for a field, if any.
func matchNameRule(field *schema.FieldDefinition) (nameRule, bool) {
	for _, rule := range nameRules {
		if rule.matches(field) {
			return rule, true
		}
	}
	return nameRule{}, false
}
