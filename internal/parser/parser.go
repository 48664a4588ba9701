// Package parser reads schema descriptions from YAML/JSON documents or from
// annotated Go source files.
package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode"

	"storeschema/internal/model"
)

const directivePrefix = "storeschema:"

// Parser parses schema description files.
type Parser struct {
	fset *token.FileSet
}

// New creates a new Parser.
func New() *Parser {
	return &Parser{
		fset: token.NewFileSet(),
	}
}

// ParseFile parses a description, choosing the decoder by file extension.
func (p *Parser) ParseFile(path string) (*model.Database, error) {
	var (
		db  *model.Database
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		db, err = p.parseGoFile(path)
	case ".json":
		db, err = parseDescriptionFile(path, FormatJSON)
	case ".yaml", ".yml":
		db, err = parseDescriptionFile(path, FormatYAML)
	default:
		return nil, fmt.Errorf("parsing %s: unsupported file type", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	db.Source = path
	return db, nil
}

func parseDescriptionFile(path string, format Format) (*model.Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDescription(data, format)
}

// goStruct is a struct declaration found in a Go source file.
type goStruct struct {
	name       string
	doc        string
	directives []directive
	fields     *ast.FieldList
}

// directive is a "//storeschema:<kind> key=value ..." comment line.
type directive struct {
	kind string
	args map[string]string
}

// parseGoFile reads structs annotated with //storeschema:table or
// //storeschema:view directives.
func (p *Parser) parseGoFile(path string) (*model.Database, error) {
	file, err := parser.ParseFile(p.fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	structs := make(map[string]*goStruct)
	var order []string

	ast.Inspect(file, func(n ast.Node) bool {
		genDecl, ok := n.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			return true
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				continue
			}
			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}
			structs[typeSpec.Name.Name] = &goStruct{
				name:       typeSpec.Name.Name,
				doc:        commentText(doc),
				directives: parseDirectives(doc),
				fields:     st.Fields,
			}
			order = append(order, typeSpec.Name.Name)
		}
		return true
	})

	schemas := make(map[string]*model.Schema)
	var schemaOrder []string
	schemaFor := func(name string) *model.Schema {
		if s, ok := schemas[name]; ok {
			return s
		}
		s := &model.Schema{Name: name}
		schemas[name] = s
		schemaOrder = append(schemaOrder, name)
		return s
	}

	for _, name := range order {
		gs := structs[name]
		for _, d := range gs.directives {
			if d.kind != "table" && d.kind != "view" {
				continue
			}
			tableName := d.args["name"]
			if tableName == "" {
				tableName = snakeCase(gs.name)
			}
			schemaName := d.args["schema"]
			if schemaName == "" {
				schemaName = "public"
			}

			t := model.Table{Name: tableName, Doc: gs.doc}
			cols, rels, err := p.extractColumns(tableName, gs.fields, structs, make(map[string]bool))
			if err != nil {
				return nil, fmt.Errorf("struct %s: %w", gs.name, err)
			}
			t.Columns = cols

			s := schemaFor(schemaName)
			if d.kind == "view" {
				s.Views = append(s.Views, t)
			} else {
				t.Relationships = rels
				s.Tables = append(s.Tables, t)
			}
		}
	}

	if len(schemas) == 0 {
		return nil, fmt.Errorf("no //%stable or //%sview directives found", directivePrefix, directivePrefix)
	}
	db := &model.Database{DefaultSchema: defaultSchema(schemaOrder)}
	for _, name := range schemaOrder {
		db.Schemas = append(db.Schemas, *schemas[name])
	}
	return db, nil
}

// defaultSchema picks "public" when it is declared, else the first schema.
func defaultSchema(names []string) string {
	for _, n := range names {
		if n == "public" {
			return n
		}
	}
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// extractColumns converts struct fields to columns, flattening embedded
// structs declared in the same file.
func (p *Parser) extractColumns(table string, fieldList *ast.FieldList, structs map[string]*goStruct, seen map[string]bool) ([]model.Column, []model.Relationship, error) {
	if fieldList == nil {
		return nil, nil, nil
	}

	var (
		cols []model.Column
		rels []model.Relationship
	)
	for _, f := range fieldList.List {
		tag := parseTag(f.Tag)

		if len(f.Names) == 0 {
			name := embeddedName(f.Type)
			embedded, ok := structs[name]
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			ec, er, err := p.extractColumns(table, embedded.fields, structs, seen)
			if err != nil {
				return nil, nil, err
			}
			delete(seen, name)
			cols = append(cols, ec...)
			rels = append(rels, er...)
			continue
		}

		for _, ident := range f.Names {
			if !ast.IsExported(ident.Name) {
				continue
			}
			colName := tagName(tag.Get("db"))
			if colName == "-" {
				continue
			}
			if colName == "" {
				colName = snakeCase(ident.Name)
			}

			opts := parseSchemaTag(tag.Get("schema"))
			col, err := columnFromField(colName, f.Type, opts)
			if err != nil {
				return nil, nil, fmt.Errorf("field %s: %w", ident.Name, err)
			}
			col.Doc = commentText(f.Doc)
			cols = append(cols, col)

			if fk, ok := opts["fk"]; ok {
				rel, err := relationshipFromTag(table, colName, fk)
				if err != nil {
					return nil, nil, fmt.Errorf("field %s: %w", ident.Name, err)
				}
				_, rel.IsOneToOne = opts["one_to_one"]
				rels = append(rels, rel)
			}
		}
	}
	return cols, rels, nil
}

func columnFromField(name string, expr ast.Expr, opts map[string]string) (model.Column, error) {
	col := model.Column{Name: name}
	_, col.HasDefault = opts["default"]
	_, col.Nullable = opts["nullable"]

	if star, ok := expr.(*ast.StarExpr); ok {
		col.Nullable = true
		expr = star.X
	}
	if arr, ok := expr.(*ast.ArrayType); ok && arr.Len == nil && !isByteSlice(arr) {
		col.Array = true
		expr = arr.Elt
		if star, ok := expr.(*ast.StarExpr); ok {
			expr = star.X
		}
	}

	if spelled, ok := opts["type"]; ok {
		typ, ref, array, err := ParseColumnType(spelled)
		if err != nil {
			return model.Column{}, err
		}
		col.Type, col.TypeRef = typ, ref
		col.Array = col.Array || array
		return col, nil
	}

	typ, ok := inferColumnType(expr)
	if !ok {
		return model.Column{}, fmt.Errorf("cannot infer column type of %s; add schema:\"type=...\"", exprString(expr))
	}
	col.Type = typ
	return col, nil
}

// goTypeColumns maps Go types onto semantic column types.
var goTypeColumns = map[string]model.ColumnType{
	"string":          model.TypeText,
	"bool":            model.TypeBoolean,
	"int":             model.TypeInteger,
	"int16":           model.TypeInteger,
	"int32":           model.TypeInteger,
	"int64":           model.TypeBigint,
	"float32":         model.TypeReal,
	"float64":         model.TypeNumeric,
	"time.Time":       model.TypeTimestamptz,
	"uuid.UUID":       model.TypeUUID,
	"decimal.Decimal": model.TypeNumeric,
	"json.RawMessage": model.TypeJSONB,
	"[]byte":          model.TypeJSONB,
}

func inferColumnType(expr ast.Expr) (model.ColumnType, bool) {
	typ, ok := goTypeColumns[exprString(expr)]
	return typ, ok
}

func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return ident.Name + "." + t.Sel.Name
		}
		return t.Sel.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + exprString(t.Elt)
		}
		return "[...]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	default:
		return "unknown"
	}
}

func isByteSlice(arr *ast.ArrayType) bool {
	ident, ok := arr.Elt.(*ast.Ident)
	return ok && (ident.Name == "byte" || ident.Name == "uint8")
}

func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	}
	return ""
}

// relationshipFromTag parses "table.column" or "schema.table.column".
func relationshipFromTag(table, column, fk string) (model.Relationship, error) {
	parts := strings.Split(fk, ".")
	rel := model.Relationship{
		ForeignKeyName: foreignKeyName(table, []string{column}),
		Columns:        []string{column},
	}
	switch len(parts) {
	case 2:
		rel.ReferencedRelation = parts[0]
		rel.ReferencedColumns = []string{parts[1]}
	case 3:
		rel.ReferencedSchema = parts[0]
		rel.ReferencedRelation = parts[1]
		rel.ReferencedColumns = []string{parts[2]}
	default:
		return model.Relationship{}, fmt.Errorf("invalid fk %q, want table.column", fk)
	}
	return rel, nil
}

// parseTag parses a struct tag literal.
func parseTag(lit *ast.BasicLit) reflect.StructTag {
	if lit == nil {
		return ""
	}
	return reflect.StructTag(strings.Trim(lit.Value, "`"))
}

// tagName returns the name part of a tag value ("id,omitempty" -> "id").
func tagName(v string) string {
	name, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(name)
}

// parseSchemaTag parses `schema:"type=uuid,default,fk=products.id"`.
func parseSchemaTag(v string) map[string]string {
	opts := make(map[string]string)
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, val, _ := strings.Cut(part, "=")
		opts[strings.TrimSpace(k)] = strings.TrimSpace(val)
	}
	return opts
}

// parseDirectives reads storeschema directives from raw comment lines.
// CommentGroup.Text drops directive-style lines, so the list is scanned directly.
func parseDirectives(cg *ast.CommentGroup) []directive {
	if cg == nil {
		return nil
	}
	var out []directive
	for _, c := range cg.List {
		line := strings.TrimPrefix(c.Text, "//")
		if !strings.HasPrefix(line, directivePrefix) {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, directivePrefix))
		if len(fields) == 0 {
			continue
		}
		d := directive{kind: fields[0], args: make(map[string]string)}
		for _, f := range fields[1:] {
			k, v, _ := strings.Cut(f, "=")
			d.args[k] = strings.Trim(v, `"`)
		}
		out = append(out, d)
	}
	return out
}

// commentText extracts text from a comment group.
func commentText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return strings.TrimSpace(cg.Text())
}

// snakeCase converts a Go identifier to snake_case ("ProductID" -> "product_id").
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
