// Package model defines the intermediate representation for parsed database schemas
// and the shapes derived from them.
package model

// ColumnType is the semantic type of a column, independent of any target language.
type ColumnType string

const (
	TypeText        ColumnType = "text"
	TypeUUID        ColumnType = "uuid"
	TypeInteger     ColumnType = "integer"
	TypeBigint      ColumnType = "bigint"
	TypeNumeric     ColumnType = "numeric"
	TypeReal        ColumnType = "real"
	TypeBoolean     ColumnType = "boolean"
	TypeDate        ColumnType = "date"
	TypeTimestamp   ColumnType = "timestamp"
	TypeTimestamptz ColumnType = "timestamptz"
	TypeJSON        ColumnType = "json"
	TypeJSONB       ColumnType = "jsonb"

	// TypeEnum and TypeComposite reference a named type declared in a schema.
	TypeEnum      ColumnType = "enum"
	TypeComposite ColumnType = "composite"
)

// IsBuiltin reports whether t is one of the scalar types above.
func (t ColumnType) IsBuiltin() bool {
	switch t {
	case TypeText, TypeUUID, TypeInteger, TypeBigint, TypeNumeric, TypeReal,
		TypeBoolean, TypeDate, TypeTimestamp, TypeTimestamptz, TypeJSON, TypeJSONB:
		return true
	}
	return false
}

// ShapeKind identifies which projection of a relation a Shape is.
type ShapeKind string

const (
	ShapeRow       ShapeKind = "row"
	ShapeInsert    ShapeKind = "insert"
	ShapeUpdate    ShapeKind = "update"
	ShapeComposite ShapeKind = "composite"
)

// Database represents a parsed schema description.
type Database struct {
	DefaultSchema string   // Schema used for unqualified references ("public" if empty)
	Schemas       []Schema // Declared schemas
	Source        string   // Where the description came from (file path or DSN host)
}

// Schema is one namespace of a database.
type Schema struct {
	Name           string
	Tables         []Table
	Views          []Table // Views reuse Table; Relationships may be empty
	Enums          []Enum
	CompositeTypes []CompositeType
}

// Table represents a table or view.
type Table struct {
	Name          string
	Doc           string
	Columns       []Column
	Relationships []Relationship
}

// Column represents a declared column.
type Column struct {
	Name       string
	Type       ColumnType
	TypeRef    *TypeRef // Named enum/composite type (Type is TypeEnum or TypeComposite)
	Array      bool     // Column holds a sequence of Type
	Nullable   bool
	HasDefault bool // Server assigns a value when the column is omitted
	Doc        string
}

// TypeRef names an enum or composite type, optionally schema-qualified.
type TypeRef struct {
	Schema string
	Name   string
}

// FullName returns "schema.name", or just the name when unqualified.
func (r *TypeRef) FullName() string {
	if r.Schema != "" {
		return r.Schema + "." + r.Name
	}
	return r.Name
}

// Relationship describes a foreign key from a table to another relation.
type Relationship struct {
	ForeignKeyName     string
	Columns            []string
	ReferencedSchema   string // Empty means the table's own schema
	ReferencedRelation string
	ReferencedColumns  []string
	IsOneToOne         bool
}

// Enum is a named set of allowed literal values.
type Enum struct {
	Name   string
	Values []string
}

// CompositeType is a named structured type.
type CompositeType struct {
	Name   string
	Fields []Column
}

// Shape is a derived projection of a relation or composite type.
type Shape struct {
	Kind   ShapeKind
	Schema string
	Name   string
	Fields []ShapeField
}

// ShapeField is one field of a Shape.
type ShapeField struct {
	Name     string
	Type     ColumnType
	TypeRef  *TypeRef
	Array    bool
	Nullable bool // Field accepts null
	Optional bool // Field may be omitted
}

// Field returns the named field and whether it exists.
func (s Shape) Field(name string) (ShapeField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ShapeField{}, false
}

// FieldNames returns field names in declaration order.
func (s Shape) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Required returns the names of fields that may not be omitted.
func (s Shape) Required() []string {
	var names []string
	for _, f := range s.Fields {
		if !f.Optional {
			names = append(names, f.Name)
		}
	}
	return names
}

// ValueSet is the resolved form of an enum.
type ValueSet struct {
	Schema string
	Name   string
	Values []string
}

// Contains reports whether v is an allowed value.
func (vs ValueSet) Contains(v string) bool {
	for _, x := range vs.Values {
		if x == v {
			return true
		}
	}
	return false
}
