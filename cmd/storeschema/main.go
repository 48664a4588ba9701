// storeschema derives Row, Insert and Update record shapes from a database
// schema description and generates code from them using templates.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"storeschema/internal/catalog"
	"storeschema/internal/config"
	"storeschema/internal/generator"
	"storeschema/internal/model"
	"storeschema/internal/parser"
	"storeschema/internal/registry"
)

var (
	inputFile    string
	dsn          string
	schemas      string
	templateName string
	configFile   string
	outputFile   string
	pkg          string
	tables       string
	exclude      string
	describeRef  string
	verbose      bool
	showHelp     bool
)

func init() {
	flag.StringVar(&inputFile, "input", "", "Schema description (.yaml, .json or annotated .go)")
	flag.StringVar(&inputFile, "i", "", "Schema description (shorthand)")

	flag.StringVar(&dsn, "dsn", "", "Postgres connection string to introspect (default: $"+config.EnvDSN+")")
	flag.StringVar(&schemas, "schemas", "", "Schemas to generate (comma-separated)")

	flag.StringVar(&templateName, "template", "", `Template file, or "go" / "typescript" for a builtin`)
	flag.StringVar(&templateName, "t", "", "Template (shorthand)")

	flag.StringVar(&configFile, "config", "", "Config file (YAML/JSON)")
	flag.StringVar(&configFile, "c", "", "Config file (shorthand)")

	flag.StringVar(&outputFile, "output", "", "Output file (default: stdout)")
	flag.StringVar(&outputFile, "o", "", "Output file (shorthand)")

	flag.StringVar(&pkg, "pkg", "", "Package name for generated Go code")
	flag.StringVar(&tables, "tables", "", "Only generate these tables (comma-separated)")
	flag.StringVar(&tables, "T", "", "Only generate these tables (shorthand)")
	flag.StringVar(&exclude, "exclude", "", "Exclude these tables (comma-separated)")
	flag.StringVar(&exclude, "X", "", "Exclude these tables (shorthand)")
	flag.StringVar(&describeRef, "describe", "", "Print the shapes of one table or view and exit")
	flag.BoolVar(&verbose, "v", false, "Verbose output")
	flag.BoolVar(&showHelp, "h", false, "Show help")
	flag.BoolVar(&showHelp, "help", false, "Show help")

	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, `storeschema - record shapes and code generation for Postgres schemas

Usage:
    storeschema -i <schema.yaml> -t <go|typescript|template.tmpl> [options]
    storeschema -dsn <postgres-url> -t <go|typescript|template.tmpl> [options]

Options:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
    # Generate Go types from a description
    storeschema -i schema.yaml -t go -pkg storedb -o types_gen.go

    # Generate the TypeScript Database type from a live database
    storeschema -dsn postgres://localhost/shop -t typescript -o database.types.ts

    # Only some tables, with a custom template
    storeschema -i schema.yaml -t zod.tmpl -T products,reviews -o schemas.ts

    # Several schemas, excluding one table
    storeschema -i schema.yaml -t go -schemas public,shipping -X audit_log

    # Show what an insert into products must contain
    storeschema -i schema.yaml -describe public.products

`)
}

func main() {
	if err := run(); err != nil {
		zlog.Error().Err(err).Msg("storeschema failed")
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if showHelp {
		flag.Usage()
		return nil
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// Load configuration
	cfg := config.New()
	if configFile != "" {
		if err := cfg.LoadFile(configFile); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}
	if dsn != "" {
		cfg.DSN = dsn
	}
	cfg.LoadEnv()

	// Apply CLI overrides
	if schemas != "" {
		cfg.Options.Schemas = parseCommaSeparated(schemas)
	}
	if pkg != "" {
		cfg.Options.Package = pkg
	}
	if tables != "" {
		cfg.Options.IncludeTables = parseCommaSeparated(tables)
	}
	if exclude != "" {
		cfg.Options.ExcludeTables = parseCommaSeparated(exclude)
	}

	if describeRef == "" && templateName == "" {
		return fmt.Errorf("template is required (-t or --template)")
	}

	ctx := zlog.Logger.WithContext(context.Background())
	db, err := load(ctx, cfg)
	if err != nil {
		return err
	}

	reg, err := registry.New(db)
	if err != nil {
		return fmt.Errorf("building registry: %w", err)
	}

	if verbose {
		for _, s := range reg.Schemas() {
			names, _ := reg.Tables(s)
			views, _ := reg.Views(s)
			zlog.Debug().Str("schema", s).Strs("tables", names).Strs("views", views).Msg("loaded schema")
		}
	}

	// Determine output destination
	var output io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	if describeRef != "" {
		ref, err := registry.ParseRef(describeRef)
		if err != nil {
			return err
		}
		return describe(output, reg, ref)
	}

	gen := generator.New(cfg)
	switch templateName {
	case config.TargetGo, config.TargetTypeScript:
		cfg.Options.Target = templateName
		err = gen.UseBuiltin(templateName)
	default:
		err = gen.LoadTemplate(templateName)
	}
	if err != nil {
		return err
	}

	if err := gen.Generate(reg, output); err != nil {
		return err
	}

	if outputFile != "" {
		zlog.Debug().Str("output", outputFile).Msg("generated output")
	}
	return nil
}

// load reads the schema description from the input file, or from the
// database catalog when no input file is given.
func load(ctx context.Context, cfg *config.Config) (*model.Database, error) {
	if inputFile != "" {
		db, err := parser.New().ParseFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("parsing input: %w", err)
		}
		return db, nil
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("input file or connection string is required (-i, -dsn or $%s)", config.EnvDSN)
	}

	pool, err := catalog.Connect(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	db, err := catalog.Introspect(ctx, pool, cfg.Options.Schemas...)
	if err != nil {
		return nil, fmt.Errorf("introspecting database: %w", err)
	}
	if db.Source == "" {
		db.Source = pool.Config().ConnConfig.Database
	}
	return db, nil
}

// parseCommaSeparated splits a comma-separated string into a slice of trimmed strings.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
