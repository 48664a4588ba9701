package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storeschema/internal/registry"
)

// statements records the SQL gorm builds in dry-run mode.
type statements struct {
	sql []string
}

func (s *statements) record(db *gorm.DB) {
	s.sql = append(s.sql, db.Statement.SQL.String())
}

func (s *statements) last(t *testing.T) string {
	t.Helper()
	if len(s.sql) == 0 {
		t.Fatal("no statement was built")
	}
	return s.sql[len(s.sql)-1]
}

// dryRunClient returns a client whose gorm handle builds statements without
// connecting to a server.
func dryRunClient(t *testing.T) (*Client, *statements) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=store dbname=store sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true, SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	stmts := &statements{}
	cb := db.Callback()
	for _, err := range []error{
		cb.Create().After("gorm:create").Register("store:record", stmts.record),
		cb.Update().After("gorm:update").Register("store:record", stmts.record),
		cb.Query().After("gorm:query").Register("store:record", stmts.record),
		cb.Raw().After("gorm:raw").Register("store:record", stmts.record),
	} {
		if err != nil {
			t.Fatalf("registering callback: %v", err)
		}
	}
	return New(db, testRegistry(t), zerolog.Nop()), stmts
}

func TestInsertValidatesBeforeWriting(t *testing.T) {
	c, stmts := dryRunClient(t)
	ctx := context.Background()

	if err := c.Insert(ctx, registry.Name("orders"), map[string]any{"total_amount": "10.00", "status": "pending"}); err != nil {
		t.Errorf("Insert: %v", err)
	}
	if got, want := stmts.last(t), `INSERT INTO "public"."orders" ("status","total_amount") VALUES ($1,$2)`; got != want {
		t.Errorf("sql = %s, want %s", got, want)
	}
	built := len(stmts.sql)

	err := c.Insert(ctx, registry.Name("orders"), map[string]any{"status": "pending"})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("err = %v, want ErrShapeMismatch", err)
	}

	err = c.Insert(ctx, registry.Name("order_totals"), map[string]any{"total": 1})
	if !errors.Is(err, registry.ErrUnknownTable) {
		t.Errorf("view insert: err = %v, want ErrUnknownTable", err)
	}

	err = c.Insert(ctx, registry.Name("nonexistent_table"), map[string]any{})
	if !errors.Is(err, registry.ErrUnknownTable) {
		t.Errorf("err = %v, want ErrUnknownTable", err)
	}
	if len(stmts.sql) != built {
		t.Errorf("rejected records reached the database: %v", stmts.sql[built:])
	}
}

func TestStatements(t *testing.T) {
	c, stmts := dryRunClient(t)
	ctx := context.Background()
	orders := registry.Name("orders")

	// Dry runs affect no rows.
	if err := c.Update(ctx, orders, "1", map[string]any{"status": "shipped"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: err = %v, want ErrNotFound", err)
	}
	if got, want := stmts.last(t), `UPDATE "public"."orders" SET "status"=$1 WHERE id = $2`; got != want {
		t.Errorf("update sql = %s, want %s", got, want)
	}

	if _, err := c.Get(ctx, orders, "1"); err != nil {
		t.Errorf("Get: %v", err)
	}
	if got := stmts.last(t); !strings.HasPrefix(got, `SELECT * FROM "public"."orders" WHERE id = $1 LIMIT`) {
		t.Errorf("get sql = %s", got)
	}

	if _, err := c.List(ctx, orders, Query{Where: map[string]any{"status": "paid"}, OrderBy: "-placed_on", Limit: 500}); err != nil {
		t.Errorf("List: %v", err)
	}
	got := stmts.last(t)
	for _, want := range []string{`SELECT * FROM "public"."orders" WHERE`, `"status" = $1`, "ORDER BY placed_on DESC", "LIMIT $2"} {
		if !strings.Contains(got, want) {
			t.Errorf("list sql = %s, missing %s", got, want)
		}
	}

	existed, err := c.Delete(ctx, registry.Ref{Schema: "public", Name: "orders"}, "1")
	if err != nil || existed {
		t.Errorf("Delete = %v, %v", existed, err)
	}
	if got, want := stmts.last(t), `DELETE FROM "public"."orders" WHERE id = $1`; got != want {
		t.Errorf("delete sql = %s, want %s", got, want)
	}
}

func TestUpdateRejectsBadPatches(t *testing.T) {
	c, _ := dryRunClient(t)
	ctx := context.Background()
	orders := registry.Name("orders")

	if err := c.Update(ctx, orders, "1", map[string]any{}); !errors.Is(err, ErrEmptyPatch) {
		t.Errorf("err = %v, want ErrEmptyPatch", err)
	}
	if err := c.Update(ctx, orders, "1", map[string]any{"status": "lost"}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("err = %v, want ErrShapeMismatch", err)
	}
	if err := c.Update(ctx, registry.Name("order_totals"), "1", map[string]any{"total": 2}); !errors.Is(err, registry.ErrUnknownTable) {
		t.Errorf("view update: err = %v, want ErrUnknownTable", err)
	}
}

func TestReadsRequireKeyColumn(t *testing.T) {
	c, _ := dryRunClient(t)
	ctx := context.Background()

	if _, err := c.Get(ctx, registry.Name("order_totals"), "1"); err == nil {
		t.Error("Get on a relation without id: expected error")
	}
	if _, err := c.Get(ctx, registry.Name("missing"), "1"); !errors.Is(err, registry.ErrUnknownTable) {
		t.Errorf("err = %v, want ErrUnknownTable", err)
	}
	_, err := c.Delete(ctx, registry.Name("order_totals"), "1")
	if !errors.Is(err, registry.ErrUnknownTable) {
		t.Errorf("view delete: err = %v, want ErrUnknownTable", err)
	}
	if err != nil && err.Error() != "deleting from public.order_totals: unknown table public.order_totals" {
		t.Errorf("view delete: message = %q", err.Error())
	}
}

func TestListChecksColumns(t *testing.T) {
	c, _ := dryRunClient(t)

	_, err := c.List(context.Background(), registry.Name("orders"), Query{
		Where:   map[string]any{"colour": "red", "status": "paid"},
		OrderBy: "-placed",
	})
	got := problems(t, err)
	if got["colour"] != "unknown filter column" || got["placed"] != "unknown order column" {
		t.Errorf("problems = %v", got)
	}
	if _, ok := got["status"]; ok {
		t.Error("declared column reported")
	}

	if _, err := c.List(context.Background(), registry.Name("missing"), Query{}); !errors.Is(err, registry.ErrUnknownTable) {
		t.Errorf("err = %v, want ErrUnknownTable", err)
	}
}

func TestOrderClause(t *testing.T) {
	tests := map[string]string{
		"created_at":  "created_at ASC",
		"-created_at": "created_at DESC",
	}
	for in, want := range tests {
		if got := orderClause(in); got != want {
			t.Errorf("orderClause(%q) = %q, want %q", in, got, want)
		}
	}
}
