package mock

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliSafari-IT/setup-data/internal/schema"
)

func nullChance(v float64) *float64 {
	return &v
}

func patientBatch() *schema.Batch {
	return schema.FinalizeBatch([]*schema.EntityDefinition{
		{
			Name: "Doctor",
			Fields: []schema.FieldDefinition{
				{Name: "Id", Kind: schema.KindInteger},
				{Name: "FullName", Kind: schema.KindString, Required: true},
			},
		},
		{
			Name: "Patient",
			Fields: []schema.FieldDefinition{
				{Name: "Id", Kind: schema.KindInteger},
				{Name: "FullName", Kind: schema.KindString, Required: true, MaxLength: 100},
				{Name: "Email", Kind: schema.KindString},
				{Name: "Phone", Kind: schema.KindString},
				{Name: "IsActive", Kind: schema.KindBoolean},
				{Name: "Balance", Kind: schema.KindNumber},
				{Name: "CreatedAt", Kind: schema.KindDateTime},
				{Name: "DoctorId", Kind: schema.KindInteger},
				{Name: "Role", DeclaredType: "Role", Kind: schema.KindInteger},
			},
			Enums: map[string][]schema.EnumMember{
				"Role": {
					{Name: "Admin", Value: 0},
					{Name: "Manager", Value: 1},
					{Name: "Pharmacist", Value: 2},
				},
			},
		},
	})
}

func TestSynthesizeIdentityStaysNull(t *testing.T) {
	batch := patientBatch()
	syn := NewSynthesizer(NewStream(1), batch, Options{})

	entity := batch.Entity("Patient")
	assert.Nil(t, syn.Synthesize(entity, entity.Field("Id"), 0), "Expected Id to stay a storage-assigned placeholder")
}

func TestSynthesizeNameRuleFamilies(t *testing.T) {
	batch := patientBatch()
	syn := NewSynthesizer(NewStream(7), batch, Options{})
	entity := batch.Entity("Patient")

	email, ok := syn.Synthesize(entity, entity.Field("Email"), 0).(string)
	require.True(t, ok)
	assert.Contains(t, email, "@")

	phone, ok := syn.Synthesize(entity, entity.Field("Phone"), 0).(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(phone, "+1-"), "Expected phone format, got %s", phone)

	_, ok = syn.Synthesize(entity, entity.Field("IsActive"), 0).(bool)
	assert.True(t, ok, "Expected boolean for Is-prefixed field")

	balance, ok := syn.Synthesize(entity, entity.Field("Balance"), 0).(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, balance, 0.0)

	created, ok := syn.Synthesize(entity, entity.Field("CreatedAt"), 0).(string)
	require.True(t, ok)
	assert.Contains(t, created, "T", "Expected RFC3339 timestamp, got %s", created)
}

func TestSynthesizeEnumMembership(t *testing.T) {
	batch := patientBatch()
	syn := NewSynthesizer(NewStream(99), batch, Options{})
	entity := batch.Entity("Patient")
	role := entity.Field("Role")

	for i := 0; i < 50; i++ {
		value := syn.Synthesize(entity, role, i)
		number, ok := value.(int)
		require.True(t, ok, "Expected integer enum value, got %T", value)
		assert.Contains(t, []int{0, 1, 2}, number)
	}
}

func TestSynthesizeRequiredNeverNull(t *testing.T) {
	batch := patientBatch()
	syn := NewSynthesizer(NewStream(3), batch, Options{NullChance: nullChance(0.9)})
	entity := batch.Entity("Patient")

	name := entity.Field("FullName")
	name.Nullable = true
	for i := 0; i < 100; i++ {
		assert.NotNil(t, syn.Synthesize(entity, name, i), "Expected required field to never resolve null")
	}
}

func TestSynthesizeNullChance(t *testing.T) {
	batch := patientBatch()
	syn := NewSynthesizer(NewStream(5), batch, Options{NullChance: nullChance(1.0)})
	entity := batch.Entity("Patient")

	email := entity.Field("Email")
	email.Nullable = true
	for i := 0; i < 10; i++ {
		assert.Nil(t, syn.Synthesize(entity, email, i), "Expected certain null chance to always yield null")
	}
}

func TestSynthesizeExplicitZeroNullChance(t *testing.T) {
	batch := patientBatch()
	syn := NewSynthesizer(NewStream(29), batch, Options{NullChance: nullChance(0)})
	entity := batch.Entity("Patient")

	email := entity.Field("Email")
	email.Nullable = true
	for i := 0; i < 400; i++ {
		assert.NotNil(t, syn.Synthesize(entity, email, i), "Expected zero null chance to never yield null")
	}
}

func TestSynthesizeForeignKeySampling(t *testing.T) {
	batch := patientBatch()
	syn := NewSynthesizer(NewStream(11), batch, Options{})
	entity := batch.Entity("Patient")
	doctorID := entity.Field("DoctorId")

	// No doctors generated yet: the empty parent set resolves null.
	assert.Nil(t, syn.Synthesize(entity, doctorID, 0))

	syn.RegisterParentIDs("Doctor", []map[string]any{
		{"Id": nil}, {"Id": nil}, {"Id": 42},
	})
	assert.Equal(t, []any{1, 2, 42}, syn.ParentIDs("Doctor"), "Expected null placeholders to take their 1-based position")

	for i := 0; i < 50; i++ {
		value := syn.Synthesize(entity, doctorID, i)
		require.NotNil(t, value)
		assert.Contains(t, []any{1, 2, 42}, value)
	}
}

func TestSynthesizeOverride(t *testing.T) {
	batch := patientBatch()
	syn := NewSynthesizer(NewStream(13), batch, Options{
		Overrides: map[string]string{"FullName": "email", "Phone": "no-such-generator"},
	})
	entity := batch.Entity("Patient")

	value, ok := syn.Synthesize(entity, entity.Field("FullName"), 0).(string)
	require.True(t, ok)
	assert.Contains(t, value, "@", "Expected override to route FullName to the email family")

	phone, ok := syn.Synthesize(entity, entity.Field("Phone"), 0).(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(phone, "+1-"), "Expected unknown override to fall back to name rules")
}

func TestSynthesizeArrayBounds(t *testing.T) {
	batch := patientBatch()
	syn := NewSynthesizer(NewStream(17), batch, Options{ArrayMinItems: 2, ArrayMaxItems: 4})
	entity := batch.Entity("Patient")

	tags := &schema.FieldDefinition{
		Name:        "Tags",
		Kind:        schema.KindArray,
		ElementKind: schema.KindString,
		Required:    true,
	}
	for i := 0; i < 20; i++ {
		value := syn.Synthesize(entity, tags, i)
		elements, ok := value.([]any)
		require.True(t, ok, "Expected array value, got %T", value)
		assert.GreaterOrEqual(t, len(elements), 2)
		assert.LessOrEqual(t, len(elements), 4)
		for _, element := range elements {
			_, isString := element.(string)
			assert.True(t, isString)
		}
	}
}

func TestSynthesizeMaxLengthClips(t *testing.T) {
	batch := patientBatch()
	syn := NewSynthesizer(NewStream(19), batch, Options{})
	entity := batch.Entity("Patient")

	short := &schema.FieldDefinition{Name: "Nickname", Kind: schema.KindString, Required: true, MaxLength: 4}
	for i := 0; i < 20; i++ {
		value, ok := syn.Synthesize(entity, short, i).(string)
		require.True(t, ok)
		assert.LessOrEqual(t, len(value), 4)
	}
}

func TestSynthesizeGUIDFallback(t *testing.T) {
	batch := patientBatch()
	syn := NewSynthesizer(NewStream(23), batch, Options{})
	entity := batch.Entity("Patient")

	guid := &schema.FieldDefinition{Name: "ExternalRef", DeclaredType: "Guid", Kind: schema.KindString, Required: true}
	value, ok := syn.Synthesize(entity, guid, 0).(string)
	require.True(t, ok)
	assert.Len(t, value, 36)
	assert.Equal(t, byte('4'), value[14], "Expected a version 4 UUID")
}

func TestStreamUUIDIsDeterministic(t *testing.T) {
	a := NewStream(123)
	b := NewStream(123)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.UUID(), b.UUID())
	}
}

func TestBaseTypeToken(t *testing.T) {
	cases := map[string]string{
		"Role":                "Role",
		"Role?":               "Role",
		"Models.Role":         "Role",
		"Availability | null": "Availability",
		"null | Availability": "Availability",
	}
	for declared, want := range cases {
		assert.Equal(t, want, baseTypeToken(declared), "declared type %s", declared)
	}
}
