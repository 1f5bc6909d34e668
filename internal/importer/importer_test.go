package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliSafari-IT/setup-data/internal/config"
	"github.com/AliSafari-IT/setup-data/internal/database"
	"github.com/AliSafari-IT/setup-data/internal/mock"
	"github.com/AliSafari-IT/setup-data/internal/schema"
)

type fakeAdapter struct {
	provider   string
	tables     map[string][]database.ColumnSpec
	truncated  []string
	inserted   map[string][]map[string]any
	columns    map[string][]string
	statements []string
	nextID     int64
	failTable  string
}

func newFakeAdapter(firstID int64) *fakeAdapter {
	return &fakeAdapter{
		provider: "sqlite",
		tables:   make(map[string][]database.ColumnSpec),
		inserted: make(map[string][]map[string]any),
		columns:  make(map[string][]string),
		nextID:   firstID,
	}
}

func (f *fakeAdapter) Connect(ctx context.Context, url string) error { return nil }
func (f *fakeAdapter) Close() error                                  { return nil }
func (f *fakeAdapter) Ping(ctx context.Context) error                { return nil }
func (f *fakeAdapter) Provider() string                              { return f.provider }

func (f *fakeAdapter) Exec(ctx context.Context, query string) error {
	f.statements = append(f.statements, query)
	return nil
}

func (f *fakeAdapter) EnsureTable(ctx context.Context, table string, columns []database.ColumnSpec) error {
	f.tables[table] = columns
	return nil
}

func (f *fakeAdapter) Truncate(ctx context.Context, table string) error {
	f.truncated = append(f.truncated, table)
	return nil
}

func (f *fakeAdapter) InsertRecords(ctx context.Context, table string, columns []string, records []map[string]any) ([]any, error) {
	if table == f.failTable {
		return nil, fmt.Errorf("forced failure on %s", table)
	}
	f.columns[table] = columns
	ids := make([]any, 0, len(records))
	for _, record := range records {
		f.inserted[table] = append(f.inserted[table], record)
		f.nextID++
		ids = append(ids, f.nextID)
	}
	return ids, nil
}

func catalogBatch(t *testing.T) *schema.Batch {
	t.Helper()

	category := &schema.EntityDefinition{
		Name: "Category",
		Fields: []schema.FieldDefinition{
			{Name: "Id", DeclaredType: "int", Kind: schema.KindInteger, Required: true},
			{Name: "Name", DeclaredType: "string", Kind: schema.KindString, Required: true, MaxLength: 50},
			{Name: "Products", DeclaredType: "List<Product>", Kind: schema.KindArray, ElementType: "Product", IsArrayOfEntities: true, TargetEntity: "Product"},
		},
	}
	product := &schema.EntityDefinition{
		Name: "Product",
		Fields: []schema.FieldDefinition{
			{Name: "Id", DeclaredType: "int", Kind: schema.KindInteger, Required: true},
			{Name: "Title", DeclaredType: "string", Kind: schema.KindString, Required: true},
			{Name: "Price", DeclaredType: "decimal", Kind: schema.KindNumber, Required: true},
			{Name: "CategoryId", DeclaredType: "int", Kind: schema.KindInteger, Required: true},
		},
	}

	batch := schema.FinalizeBatch([]*schema.EntityDefinition{category, product})
	return batch
}

func testConfig(style string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Generation.CaseStyle = style
	return cfg
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "categories", TableName("Category"), "Expected pluralized snake table name")
	assert.Equal(t, "order_items", TableName("OrderItem"), "Expected order_items, got something else")
	assert.Equal(t, "people", TableName("Person"), "Expected irregular plural people")
}

func TestLoadRecordFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	content := `[{"Title": "Widget", "Price": 9.99}, {"Title": "Gadget", "Price": 19.5}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := LoadRecordFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2, "Expected 2 records, got %d", len(records))
	assert.Equal(t, "Widget", records[0]["Title"])

	single := filepath.Join(dir, "one.json")
	require.NoError(t, os.WriteFile(single, []byte(`{"Title": "Solo"}`), 0644))
	records, err = LoadRecordFile(single)
	require.NoError(t, err)
	require.Len(t, records, 1, "Expected a single object to become a one-record batch")
}

func TestLoadRecordFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	content := "- Name: Books\n  Meta:\n    featured: true\n- Name: Games\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := LoadRecordFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Books", records[0]["Name"])
	meta, ok := records[0]["Meta"].(map[string]any)
	require.True(t, ok, "Expected nested mapping decoded as map[string]any")
	assert.Equal(t, true, meta["featured"])
}

func TestLoadRecordFileRejectsUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.txt")
	require.NoError(t, os.WriteFile(path, []byte("Name,Price"), 0644))

	_, err := LoadRecordFile(path)
	require.Error(t, err, "Expected an error for a .txt record file")
	assert.Contains(t, err.Error(), "unsupported record file")
}

func TestLoadGenerated(t *testing.T) {
	dir := t.TempDir()
	records := []map[string]any{{"Id": nil, "Name": "Books"}}
	require.NoError(t, mock.WriteArtifact(filepath.Join(dir, mock.ArtifactName("Category")), records))

	byEntity, err := LoadGenerated(dir, []string{"Category", "Product"})
	require.NoError(t, err)
	require.Len(t, byEntity, 1, "Expected only the entity with an artifact present")
	require.Len(t, byEntity["Category"], 1)
	assert.Equal(t, "Books", byEntity["Category"][0]["Name"])
}

func TestColumnsSkipsNavigationAndFlagsPrimaryKey(t *testing.T) {
	batch := catalogBatch(t)
	imp := newImporter(testConfig(""), newFakeAdapter(0), batch, batch.Order)

	columns := imp.Columns(batch.Entity("Category"))
	require.Len(t, columns, 2, "Expected navigation field to be skipped")
	assert.Equal(t, "Id", columns[0].Name)
	assert.True(t, columns[0].PrimaryKey, "Expected Id flagged as primary key")
	assert.Equal(t, "Name", columns[1].Name)
	assert.Equal(t, 50, columns[1].MaxLength)
	assert.True(t, columns[1].Required)
}

func TestColumnsInjectsMissingPrimaryKey(t *testing.T) {
	entity := &schema.EntityDefinition{
		Name: "AuditLog",
		Fields: []schema.FieldDefinition{
			{Name: "Message", Kind: schema.KindString, Required: true},
		},
	}
	batch := schema.FinalizeBatch([]*schema.EntityDefinition{entity})
	imp := newImporter(testConfig("snake"), newFakeAdapter(0), batch, batch.Order)

	columns := imp.Columns(entity)
	require.Len(t, columns, 2)
	assert.Equal(t, "id", columns[0].Name, "Expected injected primary key in the configured case style")
	assert.True(t, columns[0].PrimaryKey)
	assert.Equal(t, "message", columns[1].Name)
}

func TestInsertColumnsDropsAbsentPrimaryKey(t *testing.T) {
	columns := []database.ColumnSpec{
		{Name: "Id", PrimaryKey: true},
		{Name: "Name"},
	}
	records := []map[string]any{{"Id": nil, "Name": "Books"}, {"Name": "Games"}}
	assert.Equal(t, []string{"Name"}, insertColumns(columns, records),
		"Expected primary key dropped when every record leaves it null")

	withID := []map[string]any{{"Id": 7, "Name": "Books"}}
	assert.Equal(t, []string{"Id", "Name"}, insertColumns(columns, withID),
		"Expected primary key kept when a record carries a concrete id")
}

func TestRunImportsInOrderAndRemapsForeignKeys(t *testing.T) {
	batch := catalogBatch(t)
	adapter := newFakeAdapter(100)
	imp := newImporter(testConfig(""), adapter, batch, batch.Order)

	records := map[string][]map[string]any{
		"Category": {
			{"Id": nil, "Name": "Books"},
			{"Id": nil, "Name": "Games"},
		},
		"Product": {
			{"Id": nil, "Title": "Widget", "Price": 9.99, "CategoryId": 1},
			{"Id": nil, "Title": "Gadget", "Price": 19.5, "CategoryId": 2},
			{"Id": nil, "Title": "Gizmo", "Price": 4.25, "CategoryId": 1},
		},
	}

	require.NoError(t, imp.Run(context.Background(), records, Options{Truncate: true}))

	assert.Equal(t, []string{"products", "categories"}, adapter.truncated,
		"Expected truncation in reverse dependency order")
	assert.Equal(t, []any{int64(101), int64(102)}, imp.InsertedIDs("Category"))

	products := adapter.inserted["products"]
	require.Len(t, products, 3)
	assert.Equal(t, int64(101), products[0]["CategoryId"], "Expected positional FK remapped to assigned id")
	assert.Equal(t, int64(102), products[1]["CategoryId"])
	assert.Equal(t, int64(101), products[2]["CategoryId"])

	assert.NotContains(t, adapter.columns["categories"], "Id",
		"Expected null ids excluded from the insert columns")
	assert.Equal(t, []string{"BEGIN", "COMMIT"}, adapter.statements)
}

func TestRunRemapsForeignKeysInStyledArtifacts(t *testing.T) {
	batch := catalogBatch(t)
	dir := t.TempDir()

	result, err := mock.GenerateAll(batch, batch.Order, mock.BatchConfig{
		Seed:      123,
		Count:     2,
		Counts:    map[string]int{"Product": 3},
		OutputDir: dir,
		CaseStyle: "camel",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Category", "Product"}, result.Order)

	records, err := LoadGenerated(dir, result.Order)
	require.NoError(t, err)
	require.Contains(t, records["Product"][0], "categoryId",
		"Expected artifact keys in the configured camel style")

	adapter := newFakeAdapter(100)
	imp := newImporter(testConfig("camel"), adapter, batch, batch.Order)
	require.NoError(t, imp.Run(context.Background(), records, Options{NoTransaction: true}))

	assert.Equal(t, []any{int64(101), int64(102)}, imp.InsertedIDs("Category"))
	products := adapter.inserted["products"]
	require.Len(t, products, 3)
	for i, record := range products {
		assert.Contains(t, []any{int64(101), int64(102)}, record["categoryId"],
			"Expected product %d foreign key remapped to an assigned category id", i)
	}
}

func TestRunRollsBackOnFailure(t *testing.T) {
	batch := catalogBatch(t)
	adapter := newFakeAdapter(0)
	adapter.failTable = "products"
	imp := newImporter(testConfig(""), adapter, batch, batch.Order)

	records := map[string][]map[string]any{
		"Category": {{"Name": "Books"}},
		"Product":  {{"Title": "Widget", "Price": 1.0, "CategoryId": 1}},
	}

	err := imp.Run(context.Background(), records, Options{})
	require.Error(t, err, "Expected the failing entity to abort the run")
	assert.Contains(t, err.Error(), "Product")
	assert.Equal(t, []string{"BEGIN", "ROLLBACK"}, adapter.statements,
		"Expected rollback instead of commit after a failure")
}

func TestRunAppliesCaseStyle(t *testing.T) {
	batch := catalogBatch(t)
	adapter := newFakeAdapter(0)
	imp := newImporter(testConfig("snake"), adapter, batch, batch.Order)

	records := map[string][]map[string]any{
		"Category": {{"Name": "Books"}},
	}

	require.NoError(t, imp.Run(context.Background(), records, Options{NoTransaction: true}))

	require.Len(t, adapter.inserted["categories"], 1)
	assert.Equal(t, "Books", adapter.inserted["categories"][0]["name"],
		"Expected record keys transformed to snake_case before insert")
	assert.Contains(t, adapter.columns["categories"], "name")
	assert.Empty(t, adapter.statements, "Expected no transaction statements with NoTransaction")
}

func TestSeedFeedsAssignedIdentifiers(t *testing.T) {
	batch := catalogBatch(t)
	adapter := newFakeAdapter(500)
	imp := newImporter(testConfig(""), adapter, batch, batch.Order)

	synth := mock.NewSynthesizer(mock.NewStream(42), batch, mock.Options{})
	require.NoError(t, imp.Seed(context.Background(), synth, 3, map[string]int{"Product": 5}, Options{}))

	parents := synth.ParentIDs("Category")
	assert.Equal(t, []any{int64(501), int64(502), int64(503)}, parents,
		"Expected assigned ids fed back into foreign-key sampling")

	products := adapter.inserted["products"]
	require.Len(t, products, 5, "Expected the per-entity count override to apply")
	for i, record := range products {
		assert.Contains(t, parents, record["CategoryId"],
			"Expected product %d to reference an assigned category id", i)
	}
}

func TestValidateRecords(t *testing.T) {
	doc := []byte(`{
		"title": "Category",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string", "maxLength": 5}
		}
	}`)
	parsed, err := schema.ParseJSONSchemaDocument(doc, "category.schema.json")
	require.NoError(t, err)

	violations := ValidateRecords([]map[string]any{
		{"name": "Books"},
		{"name": "Electronics"},
		{},
	}, parsed)
	require.Len(t, violations, 2, "Expected 2 violations, got %d", len(violations))
	assert.Contains(t, violations[0].Error(), "record 1:")
	assert.Contains(t, violations[1].Error(), "record 2:")
}
