package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvDSN is the environment variable holding the catalog connection string.
const EnvDSN = "DATABASE_URL"

// Config represents the complete configuration.
type Config struct {
	TypeMappings map[string]map[string]string `yaml:"typeMappings" json:"typeMappings"`
	Imports      map[string]string            `yaml:"imports" json:"imports"`
	DSN          string                       `yaml:"dsn" json:"dsn"`
	Options      Options                      `yaml:"options" json:"options"`
}

// Options represents generation options.
type Options struct {
	Target        string   `yaml:"target" json:"target"`
	Package       string   `yaml:"package" json:"package"`
	Schemas       []string `yaml:"schemas" json:"schemas"`
	IncludeTables []string `yaml:"includeTables" json:"includeTables"`
	ExcludeTables []string `yaml:"excludeTables" json:"excludeTables"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		TypeMappings: DefaultTypeMappings(),
		Imports:      DefaultImports(),
		Options:      DefaultOptions(),
	}
}

// LoadFile loads configuration from a file (YAML or JSON based on extension).
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			if err := json.Unmarshal(data, &loaded); err != nil {
				return fmt.Errorf("unable to parse config as YAML or JSON")
			}
		}
	}

	c.merge(&loaded)
	return nil
}

// LoadEnv reads a .env file if present and fills the DSN from the
// environment when the config file did not set one.
func (c *Config) LoadEnv() {
	_ = godotenv.Load()
	if c.DSN == "" {
		c.DSN = os.Getenv(EnvDSN)
	}
}

// merge merges the loaded config into the current config.
func (c *Config) merge(loaded *Config) {
	// Loaded mappings override defaults per target.
	for target, mappings := range loaded.TypeMappings {
		if c.TypeMappings[target] == nil {
			c.TypeMappings[target] = make(map[string]string, len(mappings))
		}
		for k, v := range mappings {
			c.TypeMappings[target][k] = v
		}
	}
	for k, v := range loaded.Imports {
		c.Imports[k] = v
	}
	if loaded.DSN != "" {
		c.DSN = loaded.DSN
	}

	if loaded.Options.Target != "" {
		c.Options.Target = loaded.Options.Target
	}
	if loaded.Options.Package != "" {
		c.Options.Package = loaded.Options.Package
	}
	if len(loaded.Options.Schemas) > 0 {
		c.Options.Schemas = loaded.Options.Schemas
	}
	c.Options.IncludeTables = loaded.Options.IncludeTables
	c.Options.ExcludeTables = loaded.Options.ExcludeTables
}

// MapType maps a column type to its type in target. The second result is
// false when no mapping exists.
func (c *Config) MapType(target, columnType string) (string, bool) {
	mapped, ok := c.TypeMappings[target][columnType]
	return mapped, ok
}

// ShouldIncludeTable checks if a table should be included based on config.
// Names may be bare ("products") or schema-qualified ("public.products").
func (c *Config) ShouldIncludeTable(schema, name string) bool {
	qualified := schema + "." + name

	if len(c.Options.IncludeTables) > 0 &&
		!slices.Contains(c.Options.IncludeTables, name) &&
		!slices.Contains(c.Options.IncludeTables, qualified) {
		return false
	}
	return !slices.Contains(c.Options.ExcludeTables, name) &&
		!slices.Contains(c.Options.ExcludeTables, qualified)
}
