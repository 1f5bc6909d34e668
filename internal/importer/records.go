package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AliSafari-IT/setup-data/internal/mock"
	"github.com/AliSafari-IT/setup-data/internal/schema"
)

// LoadRecordFile reads a JSON array or YAML list of records. A file
// holding a single object yields a one-record batch.
func LoadRecordFile(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSONRecords(path, data)
	case ".yaml", ".yml":
		return decodeYAMLRecords(path, data)
	default:
		return nil, fmt.Errorf("unsupported record file %s: expected .json, .yaml or .yml", path)
	}
}

func decodeJSONRecords(path string, data []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var single map[string]any
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return []map[string]any{single}, nil
}

func decodeYAMLRecords(path string, data []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := yaml.Unmarshal(data, &records); err == nil {
		if records == nil {
			records = []map[string]any{}
		}
		return records, nil
	}

	var single map[string]any
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return []map[string]any{single}, nil
}

// LoadGenerated collects the generated artifacts present in dir, keyed
// by entity name. Entities without an artifact are simply absent.
func LoadGenerated(dir string, order []string) (map[string][]map[string]any, error) {
	byEntity := make(map[string][]map[string]any)
	for _, entity := range order {
		path := filepath.Join(dir, mock.ArtifactName(entity))
		if _, err := os.Stat(path); err != nil {
			continue
		}
		records, err := LoadRecordFile(path)
		if err != nil {
			return nil, err
		}
		byEntity[entity] = records
	}
	return byEntity, nil
}

// ValidateRecords checks every record against a JSON Schema definition
// and reports the violations per record index.
func ValidateRecords(records []map[string]any, s *schema.JSONSchema) []error {
	var violations []error
	for i, record := range records {
		for _, err := range schema.ValidateRecord(record, s) {
			violations = append(violations, fmt.Errorf("record %d: %w", i, err))
		}
	}
	return violations
}
