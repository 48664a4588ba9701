// Package generator renders registry shapes through templates.
package generator

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"storeschema/internal/config"
	"storeschema/internal/model"
	"storeschema/internal/registry"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// Generator executes templates against a registry.
type Generator struct {
	config        *config.Config
	template      *template.Template
	target        string
	defaultSchema string
}

// New creates a new Generator.
func New(cfg *config.Config) *Generator {
	return &Generator{
		config: cfg,
		target: cfg.Options.Target,
	}
}

// UseBuiltin selects one of the embedded templates ("go" or "typescript").
func (g *Generator) UseBuiltin(target string) error {
	name := target + ".tmpl"
	tmpl, err := template.New(name).
		Funcs(g.templateFuncs()).
		ParseFS(builtinTemplates, "templates/"+name)
	if err != nil {
		return fmt.Errorf("loading builtin template %q: %w", target, err)
	}
	g.template = tmpl
	g.target = target
	return nil
}

// LoadTemplate loads a template from file. Output is gofmt'ed when the
// configured target is "go".
func (g *Generator) LoadTemplate(path string) error {
	tmpl, err := template.New(filepath.Base(path)).
		Funcs(g.templateFuncs()).
		ParseFiles(path)
	if err != nil {
		return fmt.Errorf("loading template: %w", err)
	}
	g.template = tmpl
	return nil
}

// TemplateData represents data passed to templates.
type TemplateData struct {
	Package       string
	Source        string
	DefaultSchema string
	Imports       []string
	Schemas       []SchemaData
	Config        *config.Config
}

// SchemaData is one schema's worth of resolved shapes.
type SchemaData struct {
	Name           string
	Tables         []TableData
	Views          []TableData
	Enums          []model.ValueSet
	CompositeTypes []model.Shape
}

// TableData holds a relation with its derived shapes.
type TableData struct {
	Schema        string
	Name          string
	Doc           string
	Row           model.Shape
	Insert        model.Shape // Empty for views
	Update        model.Shape // Empty for views
	Relationships []model.Relationship
}

// Generate renders the registry to w.
func (g *Generator) Generate(reg *registry.Registry, w io.Writer) error {
	if g.template == nil {
		return fmt.Errorf("no template loaded")
	}
	g.defaultSchema = reg.DefaultSchemaName()

	data, err := g.collect(reg)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := g.template.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}

	out := buf.Bytes()
	if g.target == config.TargetGo {
		formatted, err := format.Source(out)
		if err != nil {
			return fmt.Errorf("formatting generated Go: %w", err)
		}
		out = formatted
	}
	_, err = w.Write(out)
	return err
}

// collect resolves every shape the configured schemas expose.
func (g *Generator) collect(reg *registry.Registry) (*TemplateData, error) {
	data := &TemplateData{
		Package:       g.config.Options.Package,
		Source:        filepath.Base(reg.Source()),
		DefaultSchema: reg.DefaultSchemaName(),
		Config:        g.config,
	}

	schemas := g.config.Options.Schemas
	if len(schemas) == 0 {
		schemas = reg.Schemas()
	}

	for _, name := range schemas {
		sd := SchemaData{Name: name}

		tables, err := reg.Tables(name)
		if err != nil {
			return nil, err
		}
		for _, tn := range tables {
			if !g.config.ShouldIncludeTable(name, tn) {
				continue
			}
			td, err := collectRelation(reg, registry.Ref{Schema: name, Name: tn}, false)
			if err != nil {
				return nil, err
			}
			sd.Tables = append(sd.Tables, td)
		}

		views, err := reg.Views(name)
		if err != nil {
			return nil, err
		}
		for _, vn := range views {
			if !g.config.ShouldIncludeTable(name, vn) {
				continue
			}
			td, err := collectRelation(reg, registry.Ref{Schema: name, Name: vn}, true)
			if err != nil {
				return nil, err
			}
			sd.Views = append(sd.Views, td)
		}

		enums, err := reg.Enums(name)
		if err != nil {
			return nil, err
		}
		for _, en := range enums {
			vs, err := reg.Enum(registry.Ref{Schema: name, Name: en})
			if err != nil {
				return nil, err
			}
			sd.Enums = append(sd.Enums, vs)
		}

		composites, err := reg.CompositeTypes(name)
		if err != nil {
			return nil, err
		}
		for _, cn := range composites {
			ct, err := reg.CompositeType(registry.Ref{Schema: name, Name: cn})
			if err != nil {
				return nil, err
			}
			sd.CompositeTypes = append(sd.CompositeTypes, ct)
		}

		data.Schemas = append(data.Schemas, sd)
	}

	data.Imports = g.imports(data)
	return data, nil
}

func collectRelation(reg *registry.Registry, ref registry.Ref, view bool) (TableData, error) {
	t, err := reg.Relation(ref)
	if err != nil {
		return TableData{}, err
	}
	td := TableData{
		Schema:        ref.Schema,
		Name:          ref.Name,
		Doc:           t.Doc,
		Relationships: t.Relationships,
	}
	if td.Row, err = reg.Row(ref); err != nil {
		return TableData{}, err
	}
	if view {
		return td, nil
	}
	if td.Insert, err = reg.Insert(ref); err != nil {
		return TableData{}, err
	}
	if td.Update, err = reg.Update(ref); err != nil {
		return TableData{}, err
	}
	return td, nil
}

// imports returns the import paths needed by the Go types of every field.
func (g *Generator) imports(data *TemplateData) []string {
	seen := make(map[string]bool)
	visit := func(s model.Shape) {
		for _, f := range s.Fields {
			goType := strings.TrimLeft(g.goType(s.Schema, f), "*[]")
			pkg, _, ok := strings.Cut(goType, ".")
			if !ok {
				continue
			}
			if path, ok := g.config.Imports[pkg]; ok {
				seen[path] = true
			}
		}
	}
	for _, sd := range data.Schemas {
		for _, td := range sd.Tables {
			visit(td.Row)
			visit(td.Insert)
			visit(td.Update)
		}
		for _, td := range sd.Views {
			visit(td.Row)
		}
		for _, ct := range sd.CompositeTypes {
			visit(ct)
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
