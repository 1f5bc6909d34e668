// Package importer populates database tables with generated or supplied
// records, walking entities in resolved dependency order and capturing
// the identifiers the database assigns along the way.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"

	"github.com/AliSafari-IT/setup-data/internal/casing"
	"github.com/AliSafari-IT/setup-data/internal/config"
	"github.com/AliSafari-IT/setup-data/internal/database"
	"github.com/AliSafari-IT/setup-data/internal/mock"
	"github.com/AliSafari-IT/setup-data/internal/schema"
)

// Options controls a single import or seed run.
type Options struct {
	Truncate      bool
	Force         bool
	NoTransaction bool
}

type Importer struct {
	cfg         *config.Config
	adapter     database.Adapter
	batch       *schema.Batch
	order       []string
	style       casing.Style
	insertedIDs map[string][]any
}

// New connects the configured database adapter and prepares an importer
// for the given parse batch and dependency order.
func New(ctx context.Context, cfg *config.Config, batch *schema.Batch, order []string) (*Importer, error) {
	adapter := database.NewAdapter(cfg.Database.Provider)

	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, fmt.Errorf("failed to get database URL: %w", err)
	}

	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return newImporter(cfg, adapter, batch, order), nil
}

func newImporter(cfg *config.Config, adapter database.Adapter, batch *schema.Batch, order []string) *Importer {
	style, _ := casing.ParseStyle(cfg.Generation.CaseStyle)
	return &Importer{
		cfg:         cfg,
		adapter:     adapter,
		batch:       batch,
		order:       order,
		style:       style,
		insertedIDs: make(map[string][]any),
	}
}

func (imp *Importer) Close() error {
	return imp.adapter.Close()
}

// InsertedIDs exposes the identifiers captured for an entity during the
// current run.
func (imp *Importer) InsertedIDs(entity string) []any {
	return imp.insertedIDs[entity]
}

// TableName derives the storage table for an entity: pluralized, then
// snake-cased (Category -> categories, OrderItem -> order_items).
func TableName(entity string) string {
	return strcase.ToSnake(inflection.Plural(entity))
}

// Columns maps an entity's scalar fields onto column specs, injecting a
// primary key when the source never declared one. Navigation fields
// describe relationships, not columns, and are skipped.
func (imp *Importer) Columns(entity *schema.EntityDefinition) []database.ColumnSpec {
	specs := make([]database.ColumnSpec, 0, len(entity.Fields)+1)
	hasID := false
	for i := range entity.Fields {
		field := &entity.Fields[i]
		if field.IsNavigation || field.IsArrayOfEntities {
			continue
		}
		spec := database.ColumnSpec{
			Name:      casing.Key(field.Name, imp.style),
			Kind:      field.Kind,
			MaxLength: field.MaxLength,
			Required:  field.Required && !field.Nullable,
		}
		if strings.EqualFold(field.Name, "id") {
			spec.PrimaryKey = true
			spec.Required = false
			hasID = true
		}
		specs = append(specs, spec)
	}
	if !hasID {
		pk := database.ColumnSpec{Name: casing.Key("Id", imp.style), Kind: schema.KindInteger, PrimaryKey: true}
		specs = append([]database.ColumnSpec{pk}, specs...)
	}
	return specs
}

// Run imports supplied records entity by entity in dependency order.
// Positional foreign keys are remapped to the identifiers assigned for
// parents imported earlier in the same run.
func (imp *Importer) Run(ctx context.Context, records map[string][]map[string]any, opts Options) error {
	color.Cyan("🌱 Starting data import...")

	present := make([]string, 0, len(records))
	for _, name := range imp.order {
		if len(records[name]) > 0 {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		color.Yellow("⚠️  No records to import")
		return nil
	}

	color.Green("📊 Found %d entities with records", len(present))
	color.Cyan("📋 Import order: %s", strings.Join(present, " → "))
	fmt.Println()

	if opts.Truncate {
		if err := imp.truncateAll(ctx); err != nil {
			if !opts.Force {
				return fmt.Errorf("failed to truncate tables: %w (use --force to continue)", err)
			}
			color.Yellow("⚠️  Truncate failed but continuing with --force: %v", err)
		}
	}

	inTransaction := imp.beginOptional(ctx, opts)

	var runErr error
	total := 0
	for _, name := range present {
		entity := imp.batch.Entity(name)
		if entity == nil {
			color.Yellow("⚠️  No schema for %s, skipping", name)
			continue
		}

		ids, err := imp.importEntity(ctx, entity, records[name], true)
		if err != nil {
			if !opts.Force {
				runErr = fmt.Errorf("failed to import %s: %w", name, err)
				break
			}
			color.Yellow("⚠️  Failed to import %s but continuing with --force: %v", name, err)
			continue
		}
		total += len(ids)
		color.Green("✅ Imported %s (%d records)", name, len(ids))
	}

	if err := imp.finish(ctx, inTransaction, runErr); err != nil {
		return err
	}

	color.Green("\n✅ Imported %d records across %d entities", total, len(present))
	return nil
}

// Seed synthesizes records entity by entity and inserts them directly,
// feeding the assigned identifiers back into foreign-key sampling so
// children reference rows that really exist.
func (imp *Importer) Seed(ctx context.Context, synth *mock.Synthesizer, count int, counts map[string]int, opts Options) error {
	color.Cyan("🌱 Starting database seeding...")

	if len(imp.order) == 0 {
		color.Yellow("⚠️  No entities to seed")
		return nil
	}

	color.Green("📊 Found %d entities", len(imp.order))
	color.Cyan("📋 Insertion order: %s", strings.Join(imp.order, " → "))
	fmt.Println()

	if opts.Truncate {
		if err := imp.truncateAll(ctx); err != nil {
			if !opts.Force {
				return fmt.Errorf("failed to truncate tables: %w (use --force to continue)", err)
			}
			color.Yellow("⚠️  Truncate failed but continuing with --force: %v", err)
		}
	}

	inTransaction := imp.beginOptional(ctx, opts)

	var runErr error
	total := 0
	for _, name := range imp.order {
		entity := imp.batch.Entity(name)
		if entity == nil {
			color.Yellow("⚠️  Unknown entity %s in dependency order, skipping", name)
			continue
		}

		n := count
		if override, ok := counts[name]; ok {
			n = override
		}

		batch := make([]map[string]any, 0, n)
		for i := 0; i < n; i++ {
			batch = append(batch, synth.SynthesizeRecord(entity, i))
		}

		ids, err := imp.importEntity(ctx, entity, batch, false)
		if err != nil {
			if !opts.Force {
				runErr = fmt.Errorf("failed to seed %s: %w", name, err)
				break
			}
			color.Yellow("⚠️  Failed to seed %s but continuing with --force: %v", name, err)
			continue
		}
		synth.SetParentIDs(name, ids)
		total += len(ids)
		color.Green("✅ Seeded %s (%d records)", name, len(ids))
	}

	if err := imp.finish(ctx, inTransaction, runErr); err != nil {
		return err
	}

	color.Green("\n✅ Seeded %d records across %d entities", total, len(imp.order))
	return nil
}

func (imp *Importer) importEntity(ctx context.Context, entity *schema.EntityDefinition, records []map[string]any, remap bool) ([]any, error) {
	if remap {
		imp.remapForeignKeys(entity, records)
	}
	styled := casing.TransformRecords(records, imp.style)

	table := TableName(entity.Name)
	columns := imp.Columns(entity)
	if err := imp.adapter.EnsureTable(ctx, table, columns); err != nil {
		return nil, err
	}

	ids, err := imp.adapter.InsertRecords(ctx, table, insertColumns(columns, styled), styled)
	if err != nil {
		return ids, err
	}
	imp.insertedIDs[entity.Name] = ids
	return ids, nil
}

// remapForeignKeys rewrites positional foreign keys to the identifiers
// the database actually assigned. Generated records reference parents by
// 1-based position; once real ids exist the positions resolve to them.
// Records loaded from generated artifacts carry keys in the configured
// case style, so the lookup falls back to the styled key when the
// declared field name misses. Entities whose parents were not captured
// in this run keep their values.
func (imp *Importer) remapForeignKeys(entity *schema.EntityDefinition, records []map[string]any) {
	for _, rel := range entity.Relationships {
		if rel.Kind != schema.ManyToOne {
			continue
		}
		parents := imp.insertedIDs[rel.TargetEntity]
		if len(parents) == 0 {
			continue
		}
		for _, record := range records {
			key := rel.FieldName
			if _, ok := record[key]; !ok {
				key = casing.Key(rel.FieldName, imp.style)
			}
			pos, ok := positionValue(record[key])
			if !ok || pos < 1 || pos > len(parents) {
				continue
			}
			record[key] = parents[pos-1]
		}
	}
}

func positionValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int64(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// insertColumns picks the columns that receive values. The primary key
// is skipped when no record carries a concrete id, letting the database
// assign the sequence.
func insertColumns(columns []database.ColumnSpec, records []map[string]any) []string {
	names := make([]string, 0, len(columns))
	for _, col := range columns {
		if col.PrimaryKey && !anyRecordHasValue(records, col.Name) {
			continue
		}
		names = append(names, col.Name)
	}
	return names
}

func anyRecordHasValue(records []map[string]any, column string) bool {
	for _, record := range records {
		if v, ok := record[column]; ok && v != nil {
			return true
		}
	}
	return false
}

func (imp *Importer) truncateAll(ctx context.Context) error {
	color.Yellow("🗑️  Truncating tables in reverse order...")
	for i := len(imp.order) - 1; i >= 0; i-- {
		if err := imp.adapter.Truncate(ctx, TableName(imp.order[i])); err != nil {
			return err
		}
	}
	return nil
}

func (imp *Importer) beginOptional(ctx context.Context, opts Options) bool {
	if opts.NoTransaction {
		return false
	}
	if err := imp.begin(ctx); err != nil {
		color.Yellow("⚠️  Could not start transaction: %v (continuing without transaction)", err)
		return false
	}
	color.Cyan("🔒 Transaction started")
	return true
}

func (imp *Importer) finish(ctx context.Context, inTransaction bool, runErr error) error {
	if !inTransaction {
		return runErr
	}
	if runErr != nil {
		color.Yellow("🔄 Rolling back transaction due to error...")
		if rbErr := imp.rollback(ctx); rbErr != nil {
			return fmt.Errorf("import failed and rollback failed: %v (original: %w)", rbErr, runErr)
		}
		color.Yellow("✅ Transaction rolled back")
		return runErr
	}
	if err := imp.commit(ctx); err != nil {
		imp.rollback(ctx)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	color.Cyan("🔓 Transaction committed")
	return nil
}

func (imp *Importer) begin(ctx context.Context) error {
	query := "BEGIN"
	if imp.adapter.Provider() == "mysql" {
		query = "START TRANSACTION"
	}
	return imp.adapter.Exec(ctx, query)
}

func (imp *Importer) commit(ctx context.Context) error {
	return imp.adapter.Exec(ctx, "COMMIT")
}

func (imp *Importer) rollback(ctx context.Context) error {
	return imp.adapter.Exec(ctx, "ROLLBACK")
}
