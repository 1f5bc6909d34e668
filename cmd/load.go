package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AliSafari-IT/setup-data/internal/importer"
	"github.com/AliSafari-IT/setup-data/internal/schema"
)

var (
	loadEntity   string
	loadFile     string
	loadSchema   string
	loadTruncate bool
	loadForce    bool
	loadNoTx     bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Import record files into the database",
	Long: `Imports a supplied JSON or YAML record file for one entity, or every
generated artifact from the output directory, in dependency order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		batch, err := extractBatch(cfg)
		if err != nil {
			return err
		}

		_, order := resolveOrder(batch)

		var records map[string][]map[string]any
		if loadFile != "" {
			if loadEntity == "" {
				return fmt.Errorf("--entity is required with --file")
			}
			entity := batch.Entity(loadEntity)
			if entity == nil {
				return fmt.Errorf("unknown entity %s", loadEntity)
			}
			supplied, err := importer.LoadRecordFile(loadFile)
			if err != nil {
				return err
			}
			records = map[string][]map[string]any{entity.Name: supplied}
		} else {
			records, err = importer.LoadGenerated(cfg.OutputDir, order)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("no generated artifacts in %s (run setup-data generate first)", cfg.OutputDir)
			}
		}

		if loadSchema != "" {
			if err := validateAgainstSchema(loadSchema, records); err != nil {
				return err
			}
		}

		ctx := context.Background()
		imp, err := importer.New(ctx, cfg, batch, order)
		if err != nil {
			return err
		}
		defer imp.Close()

		return imp.Run(ctx, records, importer.Options{
			Truncate:      loadTruncate,
			Force:         loadForce,
			NoTransaction: loadNoTx,
		})
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&loadEntity, "entity", "", "Entity the supplied file belongs to")
	loadCmd.Flags().StringVar(&loadFile, "file", "", "JSON or YAML record file to import")
	loadCmd.Flags().StringVar(&loadSchema, "schema", "", "JSON Schema document to validate records against")
	loadCmd.Flags().BoolVar(&loadTruncate, "truncate", false, "Truncate tables in reverse order first")
	loadCmd.Flags().BoolVar(&loadForce, "force", false, "Continue past per-entity failures")
	loadCmd.Flags().BoolVar(&loadNoTx, "no-transaction", false, "Run without a wrapping transaction")
}

func validateAgainstSchema(path string, records map[string][]map[string]any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := schema.ParseJSONSchemaDocument(data, path)
	if err != nil {
		return err
	}

	entities := make([]string, 0, len(records))
	for entity := range records {
		entities = append(entities, entity)
	}
	sort.Strings(entities)

	total := 0
	for _, entity := range entities {
		target := doc.Lookup(entity)
		if target == nil {
			continue
		}
		for _, violation := range importer.ValidateRecords(records[entity], target) {
			color.Red("❌ %s %v", entity, violation)
			total++
		}
	}

	if total > 0 {
		return fmt.Errorf("validation failed with %d violations", total)
	}
	color.Green("✅ Records validated against %s", filepath.Base(path))
	return nil
}
