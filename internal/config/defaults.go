// Package config provides configuration handling for storeschema.
package config

// Target names accepted by the generator.
const (
	TargetGo         = "go"
	TargetTypeScript = "typescript"
)

// DefaultTypeMappings returns default column type mappings per target.
func DefaultTypeMappings() map[string]map[string]string {
	return map[string]map[string]string{
		TargetGo: {
			"text":        "string",
			"uuid":        "string", // identifiers are opaque strings
			"integer":     "int",
			"bigint":      "int64",
			"numeric":     "decimal.Decimal",
			"real":        "float64",
			"boolean":     "bool",
			"date":        "string", // YYYY-MM-DD
			"timestamp":   "time.Time",
			"timestamptz": "time.Time",
			"json":        "json.RawMessage",
			"jsonb":       "json.RawMessage",
		},
		TargetTypeScript: {
			"text":        "string",
			"uuid":        "string",
			"integer":     "number",
			"bigint":      "number",
			"numeric":     "number",
			"real":        "number",
			"boolean":     "boolean",
			"date":        "string",
			"timestamp":   "string",
			"timestamptz": "string",
			"json":        "Json",
			"jsonb":       "Json",
		},
	}
}

// DefaultImports maps package qualifiers used in Go type mappings to their
// import paths.
func DefaultImports() map[string]string {
	return map[string]string{
		"time":    "time",
		"json":    "encoding/json",
		"decimal": "github.com/shopspring/decimal",
		"uuid":    "github.com/google/uuid",
	}
}

// DefaultOptions returns default generation options.
func DefaultOptions() Options {
	return Options{
		Target:  TargetGo,
		Package: "db",
	}
}
