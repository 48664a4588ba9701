package registry

import (
	"fmt"
	"strings"
)

// Ref addresses a relation or type by schema and name. An empty Schema
// resolves against the registry's default schema.
type Ref struct {
	Schema string
	Name   string
}

// Name returns an unqualified Ref.
func Name(name string) Ref { return Ref{Name: name} }

// ParseRef parses "name" or "schema.name".
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, fmt.Errorf("empty reference")
	}
	schema, name, ok := strings.Cut(s, ".")
	if !ok {
		return Ref{Name: s}, nil
	}
	if schema == "" || name == "" || strings.Contains(name, ".") {
		return Ref{}, fmt.Errorf("invalid reference %q", s)
	}
	return Ref{Schema: schema, Name: name}, nil
}

func (r Ref) String() string {
	if r.Schema == "" {
		return r.Name
	}
	return r.Schema + "." + r.Name
}
