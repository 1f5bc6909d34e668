package mock

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliSafari-IT/setup-data/internal/schema"
)

func catalogBatch() *schema.Batch {
	return schema.FinalizeBatch([]*schema.EntityDefinition{
		{
			Name: "Category",
			Fields: []schema.FieldDefinition{
				{Name: "Id", Kind: schema.KindInteger},
				{Name: "Name", Kind: schema.KindString, Required: true},
			},
		},
		{
			Name: "Product",
			Fields: []schema.FieldDefinition{
				{Name: "Id", Kind: schema.KindInteger},
				{Name: "Name", Kind: schema.KindString, Required: true},
				{Name: "CategoryId", Kind: schema.KindInteger},
			},
		},
	})
}

func TestGenerateAllScenario(t *testing.T) {
	batch := catalogBatch()
	dir := t.TempDir()

	result, err := GenerateAll(batch, []string{"Category", "Product"}, BatchConfig{
		Seed:      123,
		Counts:    map[string]int{"Category": 3, "Product": 5},
		OutputDir: dir,
	})
	require.NoError(t, err)

	require.Len(t, result.Records["Category"], 3)
	require.Len(t, result.Records["Product"], 5)

	for _, product := range result.Records["Product"] {
		categoryID := product["CategoryId"]
		require.NotNil(t, categoryID, "Expected CategoryId to sample an existing parent")
		assert.Contains(t, []any{1, 2, 3}, categoryID, "Expected CategoryId drawn from the generated Category ids")
	}
}

func TestGenerateAllIsDeterministic(t *testing.T) {
	run := func(dir string) *Result {
		result, err := GenerateAll(catalogBatch(), []string{"Category", "Product"}, BatchConfig{
			Seed:      123,
			Counts:    map[string]int{"Category": 3, "Product": 5},
			OutputDir: dir,
		})
		require.NoError(t, err)
		return result
	}

	dirA, dirB := t.TempDir(), t.TempDir()
	first := run(dirA)
	second := run(dirB)

	require.True(t, reflect.DeepEqual(first.Records, second.Records), "Expected identical records for identical seeds")

	for _, name := range []string{"category-generated.json", "product-generated.json", "import-order.sh"} {
		a, err := os.ReadFile(filepath.Join(dirA, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(dirB, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, "Expected byte-identical %s across runs", name)
	}
}

func TestGenerateAllSeedChangesOutput(t *testing.T) {
	resultA, err := GenerateAll(catalogBatch(), []string{"Category", "Product"}, BatchConfig{Seed: 123, Count: 4})
	require.NoError(t, err)
	resultB, err := GenerateAll(catalogBatch(), []string{"Category", "Product"}, BatchConfig{Seed: 124, Count: 4})
	require.NoError(t, err)

	assert.False(t, reflect.DeepEqual(resultA.Records, resultB.Records), "Expected different seeds to change output")
}

func TestGenerateAllWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	result, err := GenerateAll(catalogBatch(), []string{"Category", "Product"}, BatchConfig{
		Seed:      1,
		Count:     2,
		OutputDir: dir,
	})
	require.NoError(t, err)
	require.Len(t, result.Artifacts, 2)

	data, err := os.ReadFile(filepath.Join(dir, "category-generated.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Contains(t, records[0], "Name")
}

func TestGenerateAllImportScript(t *testing.T) {
	dir := t.TempDir()
	result, err := GenerateAll(catalogBatch(), []string{"Category", "Product"}, BatchConfig{
		Seed:      1,
		Count:     1,
		OutputDir: dir,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Script)

	info, err := os.Stat(result.Script)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), "Expected the import script to be executable")

	data, err := os.ReadFile(result.Script)
	require.NoError(t, err)
	script := string(data)
	assert.True(t, strings.HasPrefix(script, "#!/bin/sh\n"))

	categoryLine := strings.Index(script, "setup-data load --entity Category --file category-generated.json")
	productLine := strings.Index(script, "setup-data load --entity Product --file product-generated.json")
	require.GreaterOrEqual(t, categoryLine, 0)
	require.GreaterOrEqual(t, productLine, 0)
	assert.Less(t, categoryLine, productLine, "Expected script lines in dependency order")
}

func TestGenerateAllAppliesCaseStyle(t *testing.T) {
	dir := t.TempDir()
	result, err := GenerateAll(catalogBatch(), []string{"Category", "Product"}, BatchConfig{
		Seed:      9,
		Count:     2,
		OutputDir: dir,
		CaseStyle: "snake",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "product-generated.json"))
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(data, &records))
	require.NotEmpty(t, records)
	assert.Contains(t, records[0], "category_id", "Expected snake_case keys in artifacts")
	assert.NotContains(t, records[0], "CategoryId")

	assert.Contains(t, result.Records["Product"][0], "CategoryId", "Expected in-memory records to keep original names")
}

func TestGenerateAllSkipsUnknownEntity(t *testing.T) {
	result, err := GenerateAll(catalogBatch(), []string{"Category", "Ghost"}, BatchConfig{Seed: 2, Count: 1})
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)
	assert.NotContains(t, result.Records, "Ghost")
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "orderitem-generated.json", ArtifactName("OrderItem"))
}
