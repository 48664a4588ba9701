// Package storedb describes the storefront database: seven tables in the
// public schema, their derived record shapes and the Go types generated
// from them.
package storedb

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"storeschema/internal/parser"
	"storeschema/internal/registry"
)

//go:generate go run ../../cmd/storeschema -i schema.yaml -t go -pkg storedb -o types_gen.go

//go:embed schema.yaml
var description []byte

// Registry returns the registry built from the embedded description. It is
// built once; later calls return the same registry.
var Registry = sync.OnceValues(func() (*registry.Registry, error) {
	db, err := parser.ParseDescription(description, parser.FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("storedb: %w", err)
	}
	db.Source = "schema.yaml"
	return registry.New(db)
})

// MustRegistry is like Registry but panics on error.
func MustRegistry() *registry.Registry {
	reg, err := Registry()
	if err != nil {
		panic(err)
	}
	return reg
}

// Record converts a generated struct into the column map the store
// accepts. Omitted optional fields stay absent from the map. Columns named
// in null are set to NULL, so an update can clear a nullable column.
func Record(v any, null ...string) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var record map[string]any
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	for _, col := range null {
		if record[col] != nil {
			return nil, fmt.Errorf("column %q is both set and null", col)
		}
		record[col] = nil
	}
	return record, nil
}
