package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliSafari-IT/setup-data/internal/schema"
)

func TestGetConfigCarriesProvider(t *testing.T) {
	for _, dbType := range []DatabaseType{SQLite, MySQL, PostgreSQL} {
		cfg := NewProjectTemplate(dbType).GetConfig()
		assert.Contains(t, cfg, "provider: "+string(dbType), "Expected a provider line for %s", dbType)
		assert.Contains(t, cfg, "schema_dir: schemas")
		assert.Contains(t, cfg, "url_env: DATABASE_URL")
	}
}

func TestEnvTemplateMatchesProvider(t *testing.T) {
	env := NewProjectTemplate(MySQL).GetEnvTemplate()
	assert.Contains(t, env, "DATABASE_URL=mysql://", "Expected a MySQL connection example")
}

func TestSampleSourcesParse(t *testing.T) {
	tmpl := NewProjectTemplate(PostgreSQL)

	categories, err := schema.ExtractSource([]byte(tmpl.GetCategorySource()), schema.SourceCSharp, "Category.cs")
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Category", categories[0].Name)

	products, err := schema.ExtractSource([]byte(tmpl.GetProductSource()), schema.SourceCSharp, "Product.cs")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Product", products[0].Name)
	require.Contains(t, products[0].Enums, "ProductStatus", "Expected the enum declared alongside the class")
	assert.Len(t, products[0].Enums["ProductStatus"], 3)

	title := products[0].Field("Title")
	require.NotNil(t, title)
	assert.True(t, title.Required, "Expected the Required attribute applied")
	assert.Equal(t, 120, title.MaxLength)

	reviews, err := schema.ExtractSource([]byte(tmpl.GetReviewSource()), schema.SourceTypeScript, "Review.ts")
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Review", reviews[0].Name)

	batch := schema.FinalizeBatch([]*schema.EntityDefinition{categories[0], products[0], reviews[0]})
	assert.Equal(t, []string{"Category"}, batch.Entity("Product").DependsOn(),
		"Expected the CategoryId foreign key recognized")
	assert.Equal(t, []string{"Product"}, batch.Entity("Review").DependsOn(),
		"Expected the productId foreign key recognized")
}

func TestValidateDatabaseType(t *testing.T) {
	assert.Equal(t, SQLite, ValidateDatabaseType("sqlite3"))
	assert.Equal(t, PostgreSQL, ValidateDatabaseType("postgres"))
	assert.Equal(t, MySQL, ValidateDatabaseType("mysql"))
	assert.Equal(t, PostgreSQL, ValidateDatabaseType("oracle"),
		"Expected unknown types to default to PostgreSQL")
}
