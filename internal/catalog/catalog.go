// Package catalog reads a schema description from a live Postgres catalog.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"storeschema/internal/model"
)

const queryTimeout = 10 * time.Second

// Querier runs a query. *pgxpool.Pool and *pgx.Conn satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Connect opens a pool and checks that the server answers.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return pool, nil
}

type relationRow struct {
	Schema string
	Name   string
	Type   string // "BASE TABLE" or "VIEW"
}

// columnRow is a column of a relation, or an attribute of a composite type
// when Relation names the type.
type columnRow struct {
	Schema     string
	Relation   string
	Name       string
	DataType   string
	UDTSchema  string
	UDTName    string
	Nullable   bool
	HasDefault bool
}

type foreignKeyRow struct {
	Schema            string
	Table             string
	Name              string
	Columns           []string
	ReferencedSchema  string
	ReferencedTable   string
	ReferencedColumns []string
	OneToOne          bool
}

type enumRow struct {
	Schema string
	Name   string
	Values []string
}

// snapshot is everything read from the catalog for a set of schemas.
type snapshot struct {
	relations   []relationRow
	columns     []columnRow
	foreignKeys []foreignKeyRow
	enums       []enumRow
	composites  []columnRow
}

const relationsQuery = `
	SELECT table_schema::text, table_name::text, table_type::text
	FROM information_schema.tables
	WHERE table_schema = ANY($1) AND table_type IN ('BASE TABLE', 'VIEW')
	ORDER BY table_schema, table_name`

const columnsQuery = `
	SELECT c.table_schema::text, c.table_name::text, c.column_name::text,
	       c.data_type::text, c.udt_schema::text, c.udt_name::text,
	       c.is_nullable = 'YES',
	       c.column_default IS NOT NULL OR c.is_identity = 'YES' OR c.is_generated = 'ALWAYS'
	FROM information_schema.columns c
	WHERE c.table_schema = ANY($1)
	ORDER BY c.table_schema, c.table_name, c.ordinal_position`

const foreignKeysQuery = `
	SELECT ns.nspname::text, cl.relname::text, con.conname::text,
	       ARRAY(SELECT a.attname::text
	             FROM unnest(con.conkey) WITH ORDINALITY AS k(attnum, ord)
	             JOIN pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = k.attnum
	             ORDER BY k.ord),
	       rns.nspname::text, rcl.relname::text,
	       ARRAY(SELECT a.attname::text
	             FROM unnest(con.confkey) WITH ORDINALITY AS k(attnum, ord)
	             JOIN pg_attribute a ON a.attrelid = con.confrelid AND a.attnum = k.attnum
	             ORDER BY k.ord),
	       EXISTS (SELECT 1 FROM pg_constraint u
	               WHERE u.conrelid = con.conrelid AND u.contype IN ('p', 'u')
	                 AND u.conkey <@ con.conkey AND con.conkey <@ u.conkey)
	FROM pg_constraint con
	JOIN pg_class cl ON cl.oid = con.conrelid
	JOIN pg_namespace ns ON ns.oid = cl.relnamespace
	JOIN pg_class rcl ON rcl.oid = con.confrelid
	JOIN pg_namespace rns ON rns.oid = rcl.relnamespace
	WHERE con.contype = 'f' AND ns.nspname = ANY($1)
	ORDER BY ns.nspname, cl.relname, con.conname`

const enumsQuery = `
	SELECT n.nspname::text, t.typname::text, array_agg(e.enumlabel::text ORDER BY e.enumsortorder)
	FROM pg_type t
	JOIN pg_enum e ON e.enumtypid = t.oid
	JOIN pg_namespace n ON n.oid = t.typnamespace
	WHERE n.nspname = ANY($1)
	GROUP BY n.nspname, t.typname
	ORDER BY n.nspname, t.typname`

const compositesQuery = `
	SELECT n.nspname::text, t.typname::text, a.attname::text,
	       CASE WHEN at.typcategory = 'A' THEN 'ARRAY'
	            WHEN at.typtype IN ('e', 'c') THEN 'USER-DEFINED'
	            ELSE format_type(at.oid, NULL) END,
	       atn.nspname::text, at.typname::text,
	       true, false
	FROM pg_type t
	JOIN pg_namespace n ON n.oid = t.typnamespace
	JOIN pg_class c ON c.oid = t.typrelid AND c.relkind = 'c'
	JOIN pg_attribute a ON a.attrelid = c.oid AND a.attnum > 0 AND NOT a.attisdropped
	JOIN pg_type at ON at.oid = a.atttypid
	JOIN pg_namespace atn ON atn.oid = at.typnamespace
	WHERE t.typtype = 'c' AND n.nspname = ANY($1)
	ORDER BY n.nspname, t.typname, a.attnum`

// Introspect reads the tables, views, enums, composite types and foreign
// keys of the given schemas ("public" when none are given). The first
// schema becomes the default unless "public" is among them.
func Introspect(ctx context.Context, q Querier, schemas ...string) (*model.Database, error) {
	if len(schemas) == 0 {
		schemas = []string{"public"}
	}
	log := zerolog.Ctx(ctx)

	var (
		s   snapshot
		err error
	)
	if s.relations, err = query[relationRow](ctx, q, relationsQuery, schemas); err != nil {
		return nil, fmt.Errorf("reading relations: %w", err)
	}
	if s.columns, err = query[columnRow](ctx, q, columnsQuery, schemas); err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	if s.foreignKeys, err = query[foreignKeyRow](ctx, q, foreignKeysQuery, schemas); err != nil {
		return nil, fmt.Errorf("reading foreign keys: %w", err)
	}
	if s.enums, err = query[enumRow](ctx, q, enumsQuery, schemas); err != nil {
		return nil, fmt.Errorf("reading enums: %w", err)
	}
	if s.composites, err = query[columnRow](ctx, q, compositesQuery, schemas); err != nil {
		return nil, fmt.Errorf("reading composite types: %w", err)
	}
	log.Debug().
		Strs("schemas", schemas).
		Int("relations", len(s.relations)).
		Int("foreign_keys", len(s.foreignKeys)).
		Int("enums", len(s.enums)).
		Msg("read catalog")

	return assemble(schemas, s, log)
}

func query[T any](ctx context.Context, q Querier, sql string, schemas []string) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := q.Query(ctx, sql, schemas)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[T])
}
