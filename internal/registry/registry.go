// Package registry resolves schema-qualified names to the shapes derived from
// a schema description. A Registry is immutable once built and may be shared
// by any number of goroutines.
package registry

import (
	"fmt"
	"sort"

	"storeschema/internal/model"
)

// DefaultSchema is used when a description does not name one.
const DefaultSchema = "public"

// Registry holds the derived shapes of every schema in a description.
type Registry struct {
	defaultSchema string
	source        string
	schemas       map[string]*schemaEntry
}

type schemaEntry struct {
	name       string
	tables     map[string]*relation
	views      map[string]*relation
	enums      map[string]model.ValueSet
	composites map[string]model.Shape
}

type relation struct {
	table  model.Table
	row    model.Shape
	insert model.Shape
	update model.Shape
}

// New validates db and derives every shape it declares.
func New(db *model.Database) (*Registry, error) {
	if db == nil {
		return nil, fmt.Errorf("nil database")
	}
	r := &Registry{
		defaultSchema: db.DefaultSchema,
		source:        db.Source,
		schemas:       make(map[string]*schemaEntry, len(db.Schemas)),
	}
	if r.defaultSchema == "" {
		r.defaultSchema = DefaultSchema
	}

	// Declare names first so relationships and type references can point
	// across schemas regardless of declaration order.
	for _, s := range db.Schemas {
		if err := r.declare(s); err != nil {
			return nil, err
		}
	}
	if _, ok := r.schemas[r.defaultSchema]; !ok {
		return nil, fmt.Errorf("default schema %q is not declared", r.defaultSchema)
	}
	for _, s := range db.Schemas {
		if err := r.check(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) declare(s model.Schema) error {
	if s.Name == "" {
		return fmt.Errorf("schema with empty name")
	}
	if _, dup := r.schemas[s.Name]; dup {
		return fmt.Errorf("schema %q declared twice", s.Name)
	}
	e := &schemaEntry{
		name:       s.Name,
		tables:     make(map[string]*relation, len(s.Tables)),
		views:      make(map[string]*relation, len(s.Views)),
		enums:      make(map[string]model.ValueSet, len(s.Enums)),
		composites: make(map[string]model.Shape, len(s.CompositeTypes)),
	}
	r.schemas[s.Name] = e

	for _, t := range s.Tables {
		if err := e.declareRelation(e.tables, t); err != nil {
			return err
		}
	}
	for _, v := range s.Views {
		if err := e.declareRelation(e.views, v); err != nil {
			return err
		}
	}
	for _, en := range s.Enums {
		if en.Name == "" {
			return fmt.Errorf("schema %s: enum with empty name", s.Name)
		}
		if _, dup := e.enums[en.Name]; dup {
			return fmt.Errorf("schema %s: enum %q declared twice", s.Name, en.Name)
		}
		seen := make(map[string]bool, len(en.Values))
		for _, v := range en.Values {
			if v == "" {
				return fmt.Errorf("enum %s.%s: empty value", s.Name, en.Name)
			}
			if seen[v] {
				return fmt.Errorf("enum %s.%s: value %q declared twice", s.Name, en.Name, v)
			}
			seen[v] = true
		}
		e.enums[en.Name] = model.ValueSet{
			Schema: s.Name,
			Name:   en.Name,
			Values: append([]string(nil), en.Values...),
		}
	}
	for _, ct := range s.CompositeTypes {
		if ct.Name == "" {
			return fmt.Errorf("schema %s: composite type with empty name", s.Name)
		}
		if _, dup := e.composites[ct.Name]; dup {
			return fmt.Errorf("schema %s: composite type %q declared twice", s.Name, ct.Name)
		}
		if err := checkColumnNames(ct.Fields); err != nil {
			return fmt.Errorf("composite type %s.%s: %w", s.Name, ct.Name, err)
		}
		e.composites[ct.Name] = deriveComposite(s.Name, ct)
	}
	return nil
}

// declareRelation registers a table or view. Tables and views share one
// namespace, as they do in the catalog.
func (e *schemaEntry) declareRelation(into map[string]*relation, t model.Table) error {
	if t.Name == "" {
		return fmt.Errorf("schema %s: relation with empty name", e.name)
	}
	if _, dup := e.tables[t.Name]; dup {
		return fmt.Errorf("schema %s: relation %q declared twice", e.name, t.Name)
	}
	if _, dup := e.views[t.Name]; dup {
		return fmt.Errorf("schema %s: relation %q declared twice", e.name, t.Name)
	}
	if err := checkColumnNames(t.Columns); err != nil {
		return fmt.Errorf("relation %s.%s: %w", e.name, t.Name, err)
	}
	t = cloneTable(t)
	into[t.Name] = &relation{
		table:  t,
		row:    deriveShape(model.ShapeRow, e.name, t),
		insert: deriveShape(model.ShapeInsert, e.name, t),
		update: deriveShape(model.ShapeUpdate, e.name, t),
	}
	return nil
}

func checkColumnNames(cols []model.Column) error {
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c.Name == "" {
			return fmt.Errorf("column with empty name")
		}
		if seen[c.Name] {
			return fmt.Errorf("column %q declared twice", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// check validates column types and relationships once every name is declared.
func (r *Registry) check(s model.Schema) error {
	for _, t := range s.Tables {
		if err := r.checkRelation(s.Name, t); err != nil {
			return err
		}
	}
	for _, v := range s.Views {
		if err := r.checkRelation(s.Name, v); err != nil {
			return err
		}
	}
	for _, ct := range s.CompositeTypes {
		for _, c := range ct.Fields {
			if err := r.checkColumnType(s.Name, c); err != nil {
				return fmt.Errorf("composite type %s.%s: %w", s.Name, ct.Name, err)
			}
		}
	}
	return nil
}

func (r *Registry) checkRelation(schema string, t model.Table) error {
	for _, c := range t.Columns {
		if err := r.checkColumnType(schema, c); err != nil {
			return fmt.Errorf("relation %s.%s: %w", schema, t.Name, err)
		}
	}
	for _, rel := range t.Relationships {
		if err := r.checkRelationship(schema, t, rel); err != nil {
			return fmt.Errorf("relation %s.%s: relationship %q: %w", schema, t.Name, rel.ForeignKeyName, err)
		}
	}
	return nil
}

func (r *Registry) checkColumnType(schema string, c model.Column) error {
	switch {
	case c.Type.IsBuiltin():
		return nil
	case c.Type == model.TypeEnum || c.Type == model.TypeComposite:
		if c.TypeRef == nil || c.TypeRef.Name == "" {
			return fmt.Errorf("column %q: %s type without a type reference", c.Name, c.Type)
		}
		target := c.TypeRef.Schema
		if target == "" {
			target = schema
		}
		e, ok := r.schemas[target]
		if !ok {
			return fmt.Errorf("column %q: %w", c.Name, &UnknownSchemaError{Schema: target})
		}
		if c.Type == model.TypeEnum {
			if _, ok := e.enums[c.TypeRef.Name]; !ok {
				return fmt.Errorf("column %q: %w", c.Name, &UnknownEnumError{Schema: target, Name: c.TypeRef.Name})
			}
			return nil
		}
		if _, ok := e.composites[c.TypeRef.Name]; !ok {
			return fmt.Errorf("column %q: %w", c.Name, &UnknownCompositeTypeError{Schema: target, Name: c.TypeRef.Name})
		}
		return nil
	default:
		return fmt.Errorf("column %q: unknown column type %q", c.Name, c.Type)
	}
}

func (r *Registry) checkRelationship(schema string, t model.Table, rel model.Relationship) error {
	if len(rel.Columns) == 0 {
		return fmt.Errorf("no source columns")
	}
	if len(rel.Columns) != len(rel.ReferencedColumns) {
		return fmt.Errorf("%d source columns but %d referenced columns", len(rel.Columns), len(rel.ReferencedColumns))
	}
	for _, col := range rel.Columns {
		if !hasColumn(t.Columns, col) {
			return fmt.Errorf("source column %q not declared", col)
		}
	}
	target := rel.ReferencedSchema
	if target == "" {
		target = schema
	}
	e, ok := r.schemas[target]
	if !ok {
		return &UnknownSchemaError{Schema: target}
	}
	ref, ok := e.tables[rel.ReferencedRelation]
	if !ok {
		ref, ok = e.views[rel.ReferencedRelation]
	}
	if !ok {
		return &UnknownTableError{Schema: target, Name: rel.ReferencedRelation}
	}
	for _, col := range rel.ReferencedColumns {
		if !hasColumn(ref.table.Columns, col) {
			return fmt.Errorf("referenced column %s.%s.%s not declared", target, rel.ReferencedRelation, col)
		}
	}
	return nil
}

func hasColumn(cols []model.Column, name string) bool {
	for _, c := range cols {
		if c.Name == name {
			return true
		}
	}
	return false
}

// DefaultSchemaName returns the schema unqualified references resolve against.
func (r *Registry) DefaultSchemaName() string { return r.defaultSchema }

// Source returns where the description was loaded from.
func (r *Registry) Source() string { return r.source }

func (r *Registry) schema(name string) (*schemaEntry, error) {
	if name == "" {
		name = r.defaultSchema
	}
	e, ok := r.schemas[name]
	if !ok {
		return nil, &UnknownSchemaError{Schema: name}
	}
	return e, nil
}

// Row resolves the Row shape of a table or view.
func (r *Registry) Row(ref Ref) (model.Shape, error) {
	e, err := r.schema(ref.Schema)
	if err != nil {
		return model.Shape{}, err
	}
	if rel, ok := e.tables[ref.Name]; ok {
		return cloneShape(rel.row), nil
	}
	if rel, ok := e.views[ref.Name]; ok {
		return cloneShape(rel.row), nil
	}
	return model.Shape{}, &UnknownTableError{Schema: e.name, Name: ref.Name}
}

// Insert resolves the Insert shape of a table. Views have none.
func (r *Registry) Insert(ref Ref) (model.Shape, error) {
	rel, err := r.table(ref, model.ShapeInsert)
	if err != nil {
		return model.Shape{}, err
	}
	return cloneShape(rel.insert), nil
}

// Update resolves the Update shape of a table. Views have none.
func (r *Registry) Update(ref Ref) (model.Shape, error) {
	rel, err := r.table(ref, model.ShapeUpdate)
	if err != nil {
		return model.Shape{}, err
	}
	return cloneShape(rel.update), nil
}

// Shape resolves the shape of the given kind; ShapeComposite resolves a
// composite type.
func (r *Registry) Shape(kind model.ShapeKind, ref Ref) (model.Shape, error) {
	switch kind {
	case model.ShapeRow:
		return r.Row(ref)
	case model.ShapeInsert:
		return r.Insert(ref)
	case model.ShapeUpdate:
		return r.Update(ref)
	case model.ShapeComposite:
		return r.CompositeType(ref)
	}
	return model.Shape{}, fmt.Errorf("unknown shape kind %q", kind)
}

func (r *Registry) table(ref Ref, kind model.ShapeKind) (*relation, error) {
	e, err := r.schema(ref.Schema)
	if err != nil {
		return nil, err
	}
	rel, ok := e.tables[ref.Name]
	if !ok {
		return nil, &UnknownTableError{Schema: e.name, Name: ref.Name, Kind: string(kind)}
	}
	return rel, nil
}

// Relationships returns the foreign keys declared on a table or view.
func (r *Registry) Relationships(ref Ref) ([]model.Relationship, error) {
	t, err := r.Relation(ref)
	if err != nil {
		return nil, err
	}
	return t.Relationships, nil
}

// Relation returns the declared table or view a ref names.
func (r *Registry) Relation(ref Ref) (model.Table, error) {
	e, err := r.schema(ref.Schema)
	if err != nil {
		return model.Table{}, err
	}
	rel, ok := e.tables[ref.Name]
	if !ok {
		rel, ok = e.views[ref.Name]
	}
	if !ok {
		return model.Table{}, &UnknownTableError{Schema: e.name, Name: ref.Name}
	}
	return cloneTable(rel.table), nil
}

// Enum resolves the value set of an enum.
func (r *Registry) Enum(ref Ref) (model.ValueSet, error) {
	e, err := r.schema(ref.Schema)
	if err != nil {
		return model.ValueSet{}, err
	}
	vs, ok := e.enums[ref.Name]
	if !ok {
		return model.ValueSet{}, &UnknownEnumError{Schema: e.name, Name: ref.Name}
	}
	vs.Values = append([]string(nil), vs.Values...)
	return vs, nil
}

// CompositeType resolves the field shape of a composite type.
func (r *Registry) CompositeType(ref Ref) (model.Shape, error) {
	e, err := r.schema(ref.Schema)
	if err != nil {
		return model.Shape{}, err
	}
	s, ok := e.composites[ref.Name]
	if !ok {
		return model.Shape{}, &UnknownCompositeTypeError{Schema: e.name, Name: ref.Name}
	}
	return cloneShape(s), nil
}

// Schemas returns declared schema names, sorted.
func (r *Registry) Schemas() []string {
	names := make([]string, 0, len(r.schemas))
	for n := range r.schemas {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Tables returns the table names of a schema, sorted.
func (r *Registry) Tables(schema string) ([]string, error) {
	e, err := r.schema(schema)
	if err != nil {
		return nil, err
	}
	return sortedKeys(e.tables), nil
}

// Views returns the view names of a schema, sorted.
func (r *Registry) Views(schema string) ([]string, error) {
	e, err := r.schema(schema)
	if err != nil {
		return nil, err
	}
	return sortedKeys(e.views), nil
}

// Enums returns the enum names of a schema, sorted.
func (r *Registry) Enums(schema string) ([]string, error) {
	e, err := r.schema(schema)
	if err != nil {
		return nil, err
	}
	return sortedKeys(e.enums), nil
}

// CompositeTypes returns the composite type names of a schema, sorted.
func (r *Registry) CompositeTypes(schema string) ([]string, error) {
	e, err := r.schema(schema)
	if err != nil {
		return nil, err
	}
	return sortedKeys(e.composites), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
