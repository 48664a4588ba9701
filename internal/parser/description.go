package parser

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"storeschema/internal/model"
)

// Format selects how a description document is decoded.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// descriptionDoc is the on-disk form of a schema description.
type descriptionDoc struct {
	DefaultSchema string               `yaml:"default_schema" json:"default_schema"`
	Schemas       map[string]schemaDoc `yaml:"schemas" json:"schemas"`
}

type schemaDoc struct {
	Tables         map[string]relationDoc  `yaml:"tables" json:"tables"`
	Views          map[string]relationDoc  `yaml:"views" json:"views"`
	Enums          map[string][]string     `yaml:"enums" json:"enums"`
	CompositeTypes map[string]compositeDoc `yaml:"composite_types" json:"composite_types"`
}

type relationDoc struct {
	Doc           string            `yaml:"doc" json:"doc"`
	Columns       []columnDoc       `yaml:"columns" json:"columns"`
	Relationships []relationshipDoc `yaml:"relationships" json:"relationships"`
}

type columnDoc struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	Array    bool   `yaml:"array" json:"array"`
	Nullable bool   `yaml:"nullable" json:"nullable"`
	Default  bool   `yaml:"default" json:"default"`
	Doc      string `yaml:"doc" json:"doc"`
}

type relationshipDoc struct {
	Name              string   `yaml:"name" json:"name"`
	Columns           []string `yaml:"columns" json:"columns"`
	References        string   `yaml:"references" json:"references"`
	ReferencedColumns []string `yaml:"referenced_columns" json:"referenced_columns"`
	OneToOne          bool     `yaml:"one_to_one" json:"one_to_one"`
}

type compositeDoc struct {
	Fields []columnDoc `yaml:"fields" json:"fields"`
}

// ParseDescription decodes a schema description document.
func ParseDescription(data []byte, format Format) (*model.Database, error) {
	var doc descriptionDoc
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing JSON description: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML description: %w", err)
		}
	}
	return doc.toModel()
}

func (d descriptionDoc) toModel() (*model.Database, error) {
	if len(d.Schemas) == 0 {
		return nil, fmt.Errorf("description declares no schemas")
	}
	db := &model.Database{DefaultSchema: d.DefaultSchema}
	if db.DefaultSchema == "" {
		db.DefaultSchema = defaultSchema(sortedNames(d.Schemas))
	}

	for _, name := range sortedNames(d.Schemas) {
		sd := d.Schemas[name]
		s := model.Schema{Name: name}

		for _, tn := range sortedNames(sd.Tables) {
			t, err := sd.Tables[tn].toTable(tn)
			if err != nil {
				return nil, fmt.Errorf("table %s.%s: %w", name, tn, err)
			}
			s.Tables = append(s.Tables, t)
		}
		for _, vn := range sortedNames(sd.Views) {
			v, err := sd.Views[vn].toTable(vn)
			if err != nil {
				return nil, fmt.Errorf("view %s.%s: %w", name, vn, err)
			}
			s.Views = append(s.Views, v)
		}
		for _, en := range sortedNames(sd.Enums) {
			s.Enums = append(s.Enums, model.Enum{Name: en, Values: sd.Enums[en]})
		}
		for _, cn := range sortedNames(sd.CompositeTypes) {
			ct := model.CompositeType{Name: cn}
			for _, fd := range sd.CompositeTypes[cn].Fields {
				c, err := fd.toColumn()
				if err != nil {
					return nil, fmt.Errorf("composite type %s.%s: %w", name, cn, err)
				}
				ct.Fields = append(ct.Fields, c)
			}
			s.CompositeTypes = append(s.CompositeTypes, ct)
		}
		db.Schemas = append(db.Schemas, s)
	}
	return db, nil
}

func (r relationDoc) toTable(name string) (model.Table, error) {
	t := model.Table{Name: name, Doc: strings.TrimSpace(r.Doc)}
	for _, cd := range r.Columns {
		c, err := cd.toColumn()
		if err != nil {
			return model.Table{}, err
		}
		t.Columns = append(t.Columns, c)
	}
	for _, rd := range r.Relationships {
		rel := model.Relationship{
			ForeignKeyName:    rd.Name,
			Columns:           rd.Columns,
			ReferencedColumns: rd.ReferencedColumns,
			IsOneToOne:        rd.OneToOne,
		}
		if schema, rn, ok := strings.Cut(rd.References, "."); ok {
			rel.ReferencedSchema, rel.ReferencedRelation = schema, rn
		} else {
			rel.ReferencedRelation = rd.References
		}
		if rel.ForeignKeyName == "" && len(rel.Columns) > 0 {
			rel.ForeignKeyName = foreignKeyName(name, rel.Columns)
		}
		t.Relationships = append(t.Relationships, rel)
	}
	return t, nil
}

func (c columnDoc) toColumn() (model.Column, error) {
	typ, ref, array, err := ParseColumnType(c.Type)
	if err != nil {
		return model.Column{}, fmt.Errorf("column %q: %w", c.Name, err)
	}
	return model.Column{
		Name:       c.Name,
		Type:       typ,
		TypeRef:    ref,
		Array:      array || c.Array,
		Nullable:   c.Nullable,
		HasDefault: c.Default,
		Doc:        strings.TrimSpace(c.Doc),
	}, nil
}

// typeAliases maps common Postgres spellings onto semantic types.
var typeAliases = map[string]model.ColumnType{
	"text":                        model.TypeText,
	"varchar":                     model.TypeText,
	"character varying":           model.TypeText,
	"char":                        model.TypeText,
	"string":                      model.TypeText,
	"uuid":                        model.TypeUUID,
	"int":                         model.TypeInteger,
	"int4":                        model.TypeInteger,
	"integer":                     model.TypeInteger,
	"smallint":                    model.TypeInteger,
	"int2":                        model.TypeInteger,
	"bigint":                      model.TypeBigint,
	"int8":                        model.TypeBigint,
	"numeric":                     model.TypeNumeric,
	"decimal":                     model.TypeNumeric,
	"real":                        model.TypeReal,
	"float4":                      model.TypeReal,
	"float8":                      model.TypeReal,
	"double precision":            model.TypeReal,
	"bool":                        model.TypeBoolean,
	"boolean":                     model.TypeBoolean,
	"date":                        model.TypeDate,
	"timestamp":                   model.TypeTimestamp,
	"timestamp without time zone": model.TypeTimestamp,
	"timestamptz":                 model.TypeTimestamptz,
	"timestamp with time zone":    model.TypeTimestamptz,
	"json":                        model.TypeJSON,
	"jsonb":                       model.TypeJSONB,
}

// ParseColumnType parses a column type spelling: a builtin or alias
// ("timestamptz", "int4"), an array suffix ("text[]"), or a reference to a
// named type ("enum:order_status", "composite:shipping.address"). Referenced
// names keep their case.
func ParseColumnType(s string) (model.ColumnType, *model.TypeRef, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil, false, fmt.Errorf("missing type")
	}
	array := false
	if strings.HasSuffix(s, "[]") {
		array = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "[]"))
	}

	if kind, name, ok := strings.Cut(s, ":"); ok {
		var typ model.ColumnType
		switch strings.ToLower(strings.TrimSpace(kind)) {
		case "enum":
			typ = model.TypeEnum
		case "composite":
			typ = model.TypeComposite
		default:
			return "", nil, false, fmt.Errorf("unknown type kind %q", kind)
		}
		name = strings.TrimSpace(name)
		ref := &model.TypeRef{Name: name}
		if schema, n, ok := strings.Cut(name, "."); ok {
			ref = &model.TypeRef{Schema: schema, Name: n}
		}
		if ref.Name == "" {
			return "", nil, false, fmt.Errorf("%s type without a name", kind)
		}
		return typ, ref, array, nil
	}

	typ, ok := typeAliases[strings.ToLower(s)]
	if !ok {
		return "", nil, false, fmt.Errorf("unknown column type %q", s)
	}
	return typ, nil, array, nil
}

// foreignKeyName follows the Postgres default constraint naming.
func foreignKeyName(table string, columns []string) string {
	return table + "_" + strings.Join(columns, "_") + "_fkey"
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
