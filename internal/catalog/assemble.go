package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"storeschema/internal/model"
)

// udtTypes maps Postgres type names onto semantic column types.
var udtTypes = map[string]model.ColumnType{
	"text":        model.TypeText,
	"varchar":     model.TypeText,
	"bpchar":      model.TypeText,
	"citext":      model.TypeText,
	"name":        model.TypeText,
	"uuid":        model.TypeUUID,
	"int2":        model.TypeInteger,
	"int4":        model.TypeInteger,
	"int8":        model.TypeBigint,
	"numeric":     model.TypeNumeric,
	"float4":      model.TypeReal,
	"float8":      model.TypeReal,
	"bool":        model.TypeBoolean,
	"date":        model.TypeDate,
	"timestamp":   model.TypeTimestamp,
	"timestamptz": model.TypeTimestamptz,
	"json":        model.TypeJSON,
	"jsonb":       model.TypeJSONB,
}

// semanticType maps an information_schema data type and udt name onto a
// builtin column type. ok is false for user-defined and unmapped types.
func semanticType(dataType, udtName string) (typ model.ColumnType, array, ok bool) {
	if dataType == "ARRAY" {
		array = true
		udtName = strings.TrimPrefix(udtName, "_")
	}
	typ, ok = udtTypes[udtName]
	return typ, array, ok
}

type typeKey struct{ schema, name string }

// assemble builds a database description from catalog rows. Columns of
// unmapped types fall back to text. Foreign keys to relations outside the
// read schemas are dropped.
func assemble(schemas []string, s snapshot, log *zerolog.Logger) (*model.Database, error) {
	db := &model.Database{DefaultSchema: schemas[0]}
	if slices.Contains(schemas, "public") {
		db.DefaultSchema = "public"
	}

	enums := make(map[typeKey]bool)
	for _, e := range s.enums {
		enums[typeKey{e.Schema, e.Name}] = true
	}
	composites := make(map[typeKey]bool)
	for _, c := range s.composites {
		composites[typeKey{c.Schema, c.Relation}] = true
	}

	resolve := func(c columnRow) model.Column {
		col := model.Column{Name: c.Name, Nullable: c.Nullable, HasDefault: c.HasDefault}
		typ, array, ok := semanticType(c.DataType, c.UDTName)
		col.Type, col.Array = typ, array
		if ok {
			return col
		}

		key := typeKey{c.UDTSchema, strings.TrimPrefix(c.UDTName, "_")}
		ref := &model.TypeRef{Name: key.name}
		if key.schema != c.Schema {
			ref.Schema = key.schema
		}
		switch {
		case enums[key]:
			col.Type, col.TypeRef = model.TypeEnum, ref
		case composites[key]:
			col.Type, col.TypeRef = model.TypeComposite, ref
		default:
			log.Warn().
				Str("column", c.Schema+"."+c.Relation+"."+c.Name).
				Str("type", c.UDTName).
				Msg("unmapped column type, using text")
			col.Type = model.TypeText
		}
		return col
	}

	bySchema := make(map[string]*model.Schema, len(schemas))
	for _, name := range schemas {
		bySchema[name] = &model.Schema{Name: name}
	}

	columns := make(map[typeKey][]model.Column)
	for _, c := range s.columns {
		key := typeKey{c.Schema, c.Relation}
		columns[key] = append(columns[key], resolve(c))
	}

	relations := make(map[typeKey]bool)
	tables := make(map[typeKey]int)
	for _, r := range s.relations {
		schema, ok := bySchema[r.Schema]
		if !ok {
			return nil, fmt.Errorf("relation %s.%s is outside the requested schemas", r.Schema, r.Name)
		}
		key := typeKey{r.Schema, r.Name}
		relations[key] = true
		t := model.Table{Name: r.Name, Columns: columns[key]}
		if r.Type == "VIEW" {
			schema.Views = append(schema.Views, t)
			continue
		}
		tables[key] = len(schema.Tables)
		schema.Tables = append(schema.Tables, t)
	}

	for _, fk := range s.foreignKeys {
		if !relations[typeKey{fk.ReferencedSchema, fk.ReferencedTable}] {
			log.Debug().
				Str("foreign_key", fk.Name).
				Str("references", fk.ReferencedSchema+"."+fk.ReferencedTable).
				Msg("skipping foreign key to unread relation")
			continue
		}
		rel := model.Relationship{
			ForeignKeyName:     fk.Name,
			Columns:            fk.Columns,
			ReferencedRelation: fk.ReferencedTable,
			ReferencedColumns:  fk.ReferencedColumns,
			IsOneToOne:         fk.OneToOne,
		}
		if fk.ReferencedSchema != fk.Schema {
			rel.ReferencedSchema = fk.ReferencedSchema
		}
		i, ok := tables[typeKey{fk.Schema, fk.Table}]
		if !ok {
			continue
		}
		t := &bySchema[fk.Schema].Tables[i]
		t.Relationships = append(t.Relationships, rel)
	}

	for _, e := range s.enums {
		if schema, ok := bySchema[e.Schema]; ok {
			schema.Enums = append(schema.Enums, model.Enum{Name: e.Name, Values: e.Values})
		}
	}

	types := make(map[typeKey]int)
	for _, c := range s.composites {
		schema, ok := bySchema[c.Schema]
		if !ok {
			continue
		}
		key := typeKey{c.Schema, c.Relation}
		i, ok := types[key]
		if !ok {
			i = len(schema.CompositeTypes)
			types[key] = i
			schema.CompositeTypes = append(schema.CompositeTypes, model.CompositeType{Name: c.Relation})
		}
		ct := &schema.CompositeTypes[i]
		ct.Fields = append(ct.Fields, resolve(c))
	}

	seen := make(map[string]bool, len(schemas))
	for _, name := range schemas {
		if !seen[name] {
			seen[name] = true
			db.Schemas = append(db.Schemas, *bySchema[name])
		}
	}
	return db, nil
}
