package mock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/AliSafari-IT/setup-data/internal/casing"
	"github.com/AliSafari-IT/setup-data/internal/schema"
)

const defaultRecordCount = 10

// BatchConfig drives one generation run.
type BatchConfig struct {
	Seed      int64
	Count     int            // records per entity unless overridden
	Counts    map[string]int // per-entity record counts
	OutputDir string         // empty disables artifact writing
	CaseStyle string         // key style for written artifacts
	Options   Options
}

// Result holds everything one run produced. Records keep the original
// field names; case transformation only applies to written artifacts.
type Result struct {
	Records   map[string][]map[string]any
	Order     []string
	Artifacts []string
	Script    string
	Total     int
}

// GenerateAll produces records for every entity strictly in dependency
// order, writing each entity's artifact as it completes so parents are on
// disk before their dependents. A single stream advances across the whole
// batch; it is never reset between entities.
func GenerateAll(batch *schema.Batch, order []string, cfg BatchConfig) (*Result, error) {
	if cfg.Count <= 0 {
		cfg.Count = defaultRecordCount
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	stream := NewStream(cfg.Seed)
	syn := NewSynthesizer(stream, batch, cfg.Options)
	style, styled := casing.ParseStyle(cfg.CaseStyle)

	color.Cyan("🌱 Generating mock data for %d entities (seed %d)...", len(order), cfg.Seed)
	color.Cyan("📋 Generation order: %s", strings.Join(order, " → "))

	result := &Result{
		Records: make(map[string][]map[string]any, len(order)),
		Order:   append([]string(nil), order...),
	}

	for _, name := range order {
		entity := batch.Entity(name)
		if entity == nil {
			color.Yellow("⚠️  Unknown entity %s in dependency order, skipping", name)
			continue
		}

		count := cfg.Count
		if override, ok := cfg.Counts[name]; ok && override > 0 {
			count = override
		}
		color.Cyan("  📝 %s (%d records)...", name, count)

		records := make([]map[string]any, count)
		for i := 0; i < count; i++ {
			records[i] = syn.SynthesizeRecord(entity, i)
		}
		syn.RegisterParentIDs(name, records)
		result.Records[name] = records
		result.Total += count

		if cfg.OutputDir != "" {
			output := records
			if styled {
				output = casing.TransformRecords(records, style)
			}
			path := filepath.Join(cfg.OutputDir, ArtifactName(name))
			if err := WriteArtifact(path, output); err != nil {
				return nil, err
			}
			result.Artifacts = append(result.Artifacts, path)
		}
		color.Green("  ✅ %s: %d records", name, count)
	}

	if cfg.OutputDir != "" {
		script, err := WriteImportScript(cfg.OutputDir, result.Order)
		if err != nil {
			return nil, err
		}
		result.Script = script
	}

	color.Green("\n✅ Generated %d records across %d entities", result.Total, len(result.Records))
	return result, nil
}

// ArtifactName is the canonical per-entity output file name.
func ArtifactName(entity string) string {
	return strings.ToLower(entity) + "-generated.json"
}

// WriteArtifact writes one entity's records as an indented JSON array.
func WriteArtifact(path string, records []map[string]any) error {
	if records == nil {
		records = []map[string]any{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteImportScript emits the helper that loads every artifact in
// dependency order.
func WriteImportScript(dir string, order []string) (string, error) {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("# Load generated data in dependency order.\n")
	b.WriteString("set -e\n\n")
	for _, name := range order {
		fmt.Fprintf(&b, "setup-data load --entity %s --file %s\n", name, ArtifactName(name))
	}

	path := filepath.Join(dir, "import-order.sh")
	if err := os.WriteFile(path, []byte(b.String()), 0755); err != nil {
		return "", fmt.Errorf("failed to write import script: %w", err)
	}
	return path, nil
}
