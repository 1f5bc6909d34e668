package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AliSafari-IT/setup-data/internal/schema"
)

var (
	parseJSON bool
	parseFile string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse entity sources and show what was extracted",
	Long: `Parses every entity source in the schema directory and prints the
extracted fields, enums and relationships. With --file a single source is
parsed instead; unlike the directory scan, a broken file is then an error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var batch *schema.Batch
		var source string

		if parseFile != "" {
			entities, err := schema.ExtractFile(parseFile)
			if err != nil {
				return err
			}
			batch = schema.FinalizeBatch(entities)
			source = parseFile
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			batch, err = extractBatch(cfg)
			if err != nil {
				return err
			}
			source = cfg.SchemaDir
		}

		if parseJSON {
			data, err := json.MarshalIndent(batch.Entities, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode entities: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		color.Green("📊 Parsed %d entities from %s", len(batch.Order), source)
		for _, name := range batch.Order {
			entity := batch.Entities[name]
			fmt.Println()
			color.Cyan("📋 %s (%s)", name, filepath.Base(entity.SourceFile))
			for i := range entity.Fields {
				field := &entity.Fields[i]
				fmt.Printf("   %-20s %s\n", field.Name, describeField(field))
			}
			for _, rel := range entity.Relationships {
				fmt.Printf("   %-20s %s %s\n", "", rel.Kind, rel.TargetEntity)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Print the parsed entities as JSON")
	parseCmd.Flags().StringVar(&parseFile, "file", "", "Parse a single schema file instead of the schema directory")
}

func describeField(field *schema.FieldDefinition) string {
	if field.IsNavigation {
		return fmt.Sprintf("navigation → %s", field.TargetEntity)
	}
	if field.IsArrayOfEntities {
		return fmt.Sprintf("collection of %s", field.TargetEntity)
	}

	desc := string(field.Kind)
	if field.Kind == schema.KindArray && field.ElementKind != "" {
		desc = fmt.Sprintf("array of %s", field.ElementKind)
	}

	var attrs []string
	if field.Required {
		attrs = append(attrs, "required")
	}
	if field.Nullable {
		attrs = append(attrs, "nullable")
	}
	if field.MaxLength > 0 {
		attrs = append(attrs, fmt.Sprintf("max %d", field.MaxLength))
	}
	if len(field.EnumLiterals) > 0 {
		attrs = append(attrs, fmt.Sprintf("%d enum values", len(field.EnumLiterals)))
	}
	if len(attrs) > 0 {
		desc += " (" + strings.Join(attrs, ", ") + ")"
	}
	return desc
}
