package registry

import "storeschema/internal/model"

// deriveShape projects a table's columns into the requested shape.
//
//	row:    every field present; nullability copied from the column
//	insert: optional iff the column has a default (nullable columns default to NULL)
//	update: every field optional
func deriveShape(kind model.ShapeKind, schema string, t model.Table) model.Shape {
	s := model.Shape{
		Kind:   kind,
		Schema: schema,
		Name:   t.Name,
		Fields: make([]model.ShapeField, 0, len(t.Columns)),
	}
	for _, c := range t.Columns {
		f := fieldFromColumn(c)
		switch kind {
		case model.ShapeInsert:
			f.Optional = c.HasDefault || c.Nullable
		case model.ShapeUpdate:
			f.Optional = true
		}
		s.Fields = append(s.Fields, f)
	}
	return s
}

// deriveComposite projects a composite type. Postgres allows any attribute of
// a composite value to be null, so every field is nullable but present.
func deriveComposite(schema string, ct model.CompositeType) model.Shape {
	s := model.Shape{
		Kind:   model.ShapeComposite,
		Schema: schema,
		Name:   ct.Name,
		Fields: make([]model.ShapeField, 0, len(ct.Fields)),
	}
	for _, c := range ct.Fields {
		f := fieldFromColumn(c)
		f.Nullable = true
		s.Fields = append(s.Fields, f)
	}
	return s
}

func fieldFromColumn(c model.Column) model.ShapeField {
	f := model.ShapeField{
		Name:     c.Name,
		Type:     c.Type,
		Array:    c.Array,
		Nullable: c.Nullable,
	}
	if c.TypeRef != nil {
		ref := *c.TypeRef
		f.TypeRef = &ref
	}
	return f
}

func cloneShape(s model.Shape) model.Shape {
	out := s
	out.Fields = make([]model.ShapeField, len(s.Fields))
	for i, f := range s.Fields {
		if f.TypeRef != nil {
			ref := *f.TypeRef
			f.TypeRef = &ref
		}
		out.Fields[i] = f
	}
	return out
}

// cloneTable copies a table deeply enough that neither side can observe
// later writes to the other.
func cloneTable(t model.Table) model.Table {
	out := t
	out.Columns = make([]model.Column, len(t.Columns))
	for i, c := range t.Columns {
		if c.TypeRef != nil {
			ref := *c.TypeRef
			c.TypeRef = &ref
		}
		out.Columns[i] = c
	}
	out.Relationships = cloneRelationships(t.Relationships)
	return out
}

func cloneRelationships(rels []model.Relationship) []model.Relationship {
	out := make([]model.Relationship, len(rels))
	for i, r := range rels {
		r.Columns = append([]string(nil), r.Columns...)
		r.ReferencedColumns = append([]string(nil), r.ReferencedColumns...)
		out[i] = r
	}
	return out
}
