package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/AliSafari-IT/setup-data/internal/importer"
	"github.com/AliSafari-IT/setup-data/internal/mock"
)

var (
	seedCount    int
	seedValue    int64
	seedTruncate bool
	seedForce    bool
	seedNoTx     bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate records and insert them into the database",
	Long: `Synthesizes mock records entity by entity in dependency order and inserts
them directly. Identifiers assigned by the database feed back into
foreign-key sampling, so children always reference rows that exist.`,
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

		if seedCount > 0 {
			cfg.Generation.Count = seedCount
		}
		if cmd.Flags().Changed("seed") {
			cfg.Generation.Seed = seedValue
		}

		ctx := context.Background()
		imp, err := importer.New(ctx, cfg, batch, order)
		if err != nil {
			return err
		}
		defer imp.Close()

		synth := mock.NewSynthesizer(mock.NewStream(cfg.Generation.Seed), batch, mock.Options{
			NullChance:    &cfg.Generation.NullChance,
			ArrayMinItems: cfg.Generation.ArrayMinItems,
			ArrayMaxItems: cfg.Generation.ArrayMaxItems,
			Overrides:     cfg.Generation.Generators,
		})

		return imp.Seed(ctx, synth, cfg.Generation.Count, cfg.Generation.Counts, importer.Options{
			Truncate:      seedTruncate,
			Force:         seedForce,
			NoTransaction: seedNoTx,
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&seedCount, "count", 0, "Records per entity (overrides config)")
	seedCmd.Flags().Int64Var(&seedValue, "seed", 0, "Deterministic seed (overrides config)")
	seedCmd.Flags().BoolVar(&seedTruncate, "truncate", false, "Truncate tables in reverse order first")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Continue past per-entity failures")
	seedCmd.Flags().BoolVar(&seedNoTx, "no-transaction", false, "Run without a wrapping transaction")
}
