package cmd

import (
	"fmt"

	"github.com/AliSafari-IT/setup-data/internal/config"
	"github.com/AliSafari-IT/setup-data/internal/depgraph"
	"github.com/AliSafari-IT/setup-data/internal/schema"
)

// loadConfig reads the viper-backed configuration and validates it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// extractBatch parses the schema directory, honoring a forced dialect
// from the source_kind setting.
func extractBatch(cfg *config.Config) (*schema.Batch, error) {
	kind := schema.SourceUnknown
	if cfg.SourceKind != "" && cfg.SourceKind != "auto" {
		kind, _ = schema.ParseSourceKind(cfg.SourceKind)
	}
	return schema.ExtractDirKind(cfg.SchemaDir, kind)
}

// resolveOrder builds the dependency graph and resolves insertion order.
func resolveOrder(batch *schema.Batch) (*depgraph.Graph, []string) {
	graph := depgraph.FromBatch(batch)
	return graph, graph.Order()
}
