package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AliSafari-IT/setup-data/internal/mock"
)

var (
	generateCount int
	generateSeed  int64
	generateOut   string
	generateCase  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate mock-data artifacts from the parsed entities",
	Long: `Parses the schema directory, resolves dependency order and writes one
JSON artifact per entity plus an import-order helper script. The same seed
always produces the same artifacts.`,
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

		if generateCount > 0 {
			cfg.Generation.Count = generateCount
		}
		if cmd.Flags().Changed("seed") {
			cfg.Generation.Seed = generateSeed
		}
		if generateOut != "" {
			cfg.OutputDir = generateOut
		}
		if generateCase != "" {
			cfg.Generation.CaseStyle = generateCase
		}

		_, err = mock.GenerateAll(batch, order, mock.BatchConfig{
			Seed:      cfg.Generation.Seed,
			Count:     cfg.Generation.Count,
			Counts:    cfg.Generation.Counts,
			OutputDir: cfg.OutputDir,
			CaseStyle: cfg.Generation.CaseStyle,
			Options: mock.Options{
				NullChance:    &cfg.Generation.NullChance,
				ArrayMinItems: cfg.Generation.ArrayMinItems,
				ArrayMaxItems: cfg.Generation.ArrayMaxItems,
				Overrides:     cfg.Generation.Generators,
			},
		})
		return err
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVar(&generateCount, "count", 0, "Records per entity (overrides config)")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "Deterministic seed (overrides config)")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "Output directory (overrides config)")
	generateCmd.Flags().StringVar(&generateCase, "case", "", "Key case style: pascal, camel, snake or kebab")
}
