package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Version    string `json:"version" mapstructure:"version"`
	SchemaDir  string `json:"schema_dir" mapstructure:"schema_dir"`
	OutputDir  string `json:"output_dir" mapstructure:"output_dir"`
	SourceKind string `json:"source_kind,omitempty" mapstructure:"source_kind"`

	Generation Generation `json:"generation" mapstructure:"generation"`
	Database   Database   `json:"database" mapstructure:"database"`
	API        API        `json:"api,omitempty" mapstructure:"api"`
}

type Generation struct {
	Seed          int64             `json:"seed" mapstructure:"seed"`
	Count         int               `json:"count" mapstructure:"count"`
	Counts        map[string]int    `json:"counts,omitempty" mapstructure:"counts"`
	NullChance    float64           `json:"null_chance" mapstructure:"null_chance"`
	ArrayMinItems int               `json:"array_min_items" mapstructure:"array_min_items"`
	ArrayMaxItems int               `json:"array_max_items" mapstructure:"array_max_items"`
	CaseStyle     string            `json:"case_style,omitempty" mapstructure:"case_style"`
	Generators    map[string]string `json:"generators,omitempty" mapstructure:"generators"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

type API struct {
	BaseURL        string `json:"base_url,omitempty" mapstructure:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds" mapstructure:"timeout_seconds"`
	RouteStyle     string `json:"route_style,omitempty" mapstructure:"route_style"`
}

func DefaultConfig() *Config {
	return &Config{
		Version:   "1",
		SchemaDir: "schemas",
		OutputDir: "mock-data",
		Generation: Generation{
			Seed:          42,
			Count:         10,
			NullChance:    0.2,
			ArrayMinItems: 0,
			ArrayMaxItems: 5,
		},
		Database: Database{
			Provider: "postgresql",
			URLEnv:   "DATABASE_URL",
		},
		API: API{
			TimeoutSeconds: 30,
			RouteStyle:     "kebab",
		},
	}
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	defaults := DefaultConfig()
	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.SchemaDir == "" {
		cfg.SchemaDir = defaults.SchemaDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaults.OutputDir
	}
	if cfg.Generation.Seed == 0 && !viper.IsSet("generation.seed") {
		cfg.Generation.Seed = defaults.Generation.Seed
	}
	if cfg.Generation.Count == 0 {
		cfg.Generation.Count = defaults.Generation.Count
	}
	if cfg.Generation.NullChance == 0 && !viper.IsSet("generation.null_chance") {
		cfg.Generation.NullChance = defaults.Generation.NullChance
	}
	if cfg.Generation.ArrayMaxItems == 0 && !viper.IsSet("generation.array_max_items") {
		cfg.Generation.ArrayMaxItems = defaults.Generation.ArrayMaxItems
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = defaults.Database.Provider
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = defaults.Database.URLEnv
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = defaults.API.TimeoutSeconds
	}
	if cfg.API.RouteStyle == "" {
		cfg.API.RouteStyle = defaults.API.RouteStyle
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.SchemaDir == "" {
		return fmt.Errorf("schema_dir cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if c.Generation.Count < 0 {
		return fmt.Errorf("generation.count cannot be negative")
	}
	if c.Generation.NullChance < 0 || c.Generation.NullChance > 1 {
		return fmt.Errorf("generation.null_chance must be between 0 and 1, got %v", c.Generation.NullChance)
	}
	if c.Generation.ArrayMinItems < 0 {
		return fmt.Errorf("generation.array_min_items cannot be negative")
	}
	if c.Generation.ArrayMaxItems < c.Generation.ArrayMinItems {
		return fmt.Errorf("generation.array_max_items cannot be below array_min_items")
	}

	switch c.SourceKind {
	case "", "auto", "csharp", "cs", "c#", "typescript", "ts", "jsonschema", "json", "json-schema":
	default:
		return fmt.Errorf("unsupported source_kind: %s", c.SourceKind)
	}

	return nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.SchemaDir,
		c.OutputDir,
	}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

