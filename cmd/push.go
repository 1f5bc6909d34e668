package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AliSafari-IT/setup-data/internal/api"
	"github.com/AliSafari-IT/setup-data/internal/importer"
)

var (
	pushEntity  string
	pushFile    string
	pushBaseURL string
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send records to a REST API in dependency order",
	Long: `Posts generated artifacts (or one supplied record file) to the configured
API, one request per record. Entity routes derive from the route style.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if pushBaseURL != "" {
			cfg.API.BaseURL = pushBaseURL
		}
		if cfg.API.BaseURL == "" {
			return fmt.Errorf("api.base_url is not configured (set it in setup-data.config.yaml or pass --base-url)")
		}

		batch, err := extractBatch(cfg)
		if err != nil {
			return err
		}

		_, order := resolveOrder(batch)

		var records map[string][]map[string]any
		if pushFile != "" {
			if pushEntity == "" {
				return fmt.Errorf("--entity is required with --file")
			}
			entity := batch.Entity(pushEntity)
			if entity == nil {
				return fmt.Errorf("unknown entity %s", pushEntity)
			}
			supplied, err := importer.LoadRecordFile(pushFile)
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

		client := api.NewClient(cfg)
		return client.PushAll(context.Background(), records, order)
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)

	pushCmd.Flags().StringVar(&pushEntity, "entity", "", "Entity the supplied file belongs to")
	pushCmd.Flags().StringVar(&pushFile, "file", "", "JSON or YAML record file to push")
	pushCmd.Flags().StringVar(&pushBaseURL, "base-url", "", "API base URL (overrides config)")
}
