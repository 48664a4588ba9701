// Package store is the data-access boundary: it checks records against the
// shapes in a registry before handing them to the backing Postgres store.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storeschema/internal/model"
	"storeschema/internal/registry"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmptyPatch = errors.New("empty patch")
)

const (
	defaultTimeout = 5 * time.Second
	defaultLimit   = 20
	maxLimit       = 100
	keyColumn      = "id"
)

// Query selects rows of a relation.
type Query struct {
	Where   map[string]any // Equality filters by column
	OrderBy string         // Column name; prefix with "-" for descending
	Limit   int
	Offset  int
}

// Client reads and writes rows as maps keyed by column name.
type Client struct {
	db      *gorm.DB
	reg     *registry.Registry
	checker *Checker
	log     zerolog.Logger
	timeout time.Duration
}

// Open connects to Postgres through gorm.
func Open(dsn string, reg *registry.Registry, log zerolog.Logger) (*Client, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return New(db, reg, log), nil
}

// New wraps an open gorm handle.
func New(db *gorm.DB, reg *registry.Registry, log zerolog.Logger) *Client {
	return &Client{
		db:      db,
		reg:     reg,
		checker: NewChecker(reg),
		log:     log.With().Str("component", "store").Logger(),
		timeout: defaultTimeout,
	}
}

// tableName returns the schema-qualified name gorm should quote.
func (c *Client) tableName(ref registry.Ref) string {
	schema := ref.Schema
	if schema == "" {
		schema = c.reg.DefaultSchemaName()
	}
	return schema + "." + ref.Name
}

// Insert validates record against the Insert shape and inserts it.
func (c *Client) Insert(ctx context.Context, ref registry.Ref, record map[string]any) error {
	if err := c.checker.Check(model.ShapeInsert, ref, record); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	table := c.tableName(ref)
	if err := c.db.WithContext(ctx).Table(table).Create(record).Error; err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	c.log.Debug().Str("table", table).Int("fields", len(record)).Msg("inserted row")
	return nil
}

// Update applies a partial patch to the row with the given id.
func (c *Client) Update(ctx context.Context, ref registry.Ref, id string, patch map[string]any) error {
	if len(patch) == 0 {
		return ErrEmptyPatch
	}
	if err := c.checker.Check(model.ShapeUpdate, ref, patch); err != nil {
		return err
	}
	if err := c.requireKey(ref); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	table := c.tableName(ref)
	res := c.db.WithContext(ctx).Table(table).Where(keyColumn+" = ?", id).Updates(patch)
	if res.Error != nil {
		return fmt.Errorf("updating %s: %w", table, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	c.log.Debug().Str("table", table).Str("id", id).Int("fields", len(patch)).Msg("updated row")
	return nil
}

// Get returns the row with the given id.
func (c *Client) Get(ctx context.Context, ref registry.Ref, id string) (map[string]any, error) {
	if err := c.requireKey(ref); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	table := c.tableName(ref)
	row := map[string]any{}
	err := c.db.WithContext(ctx).Table(table).Where(keyColumn+" = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", table, err)
	}
	return row, nil
}

// List returns rows matching q. Filter and order columns must belong to the
// relation's Row shape.
func (c *Client) List(ctx context.Context, ref registry.Ref, q Query) ([]map[string]any, error) {
	shape, err := c.reg.Row(ref)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(shape, q); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	table := c.tableName(ref)
	tx := c.db.WithContext(ctx).Table(table)
	if len(q.Where) > 0 {
		tx = tx.Where(q.Where)
	}
	if q.OrderBy != "" {
		tx = tx.Order(orderClause(q.OrderBy))
	}

	var rows []map[string]any
	if err := tx.Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	return rows, nil
}

// Delete removes the row with the given id and reports whether it existed.
func (c *Client) Delete(ctx context.Context, ref registry.Ref, id string) (bool, error) {
	if _, err := c.reg.Insert(ref); err != nil {
		var ute *registry.UnknownTableError
		if errors.As(err, &ute) {
			// views are read-only
			err = &registry.UnknownTableError{Schema: ute.Schema, Name: ute.Name}
		}
		return false, fmt.Errorf("deleting from %s: %w", c.tableName(ref), err)
	}
	if err := c.requireKey(ref); err != nil {
		return false, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	table := c.tableName(ref)
	res := c.db.WithContext(ctx).Exec("DELETE FROM ? WHERE "+keyColumn+" = ?", clause.Table{Name: table}, id)
	if res.Error != nil {
		return false, fmt.Errorf("deleting from %s: %w", table, res.Error)
	}
	c.log.Debug().Str("table", table).Str("id", id).Int64("rows", res.RowsAffected).Msg("deleted row")
	return res.RowsAffected > 0, nil
}

// requireKey checks that the relation has an id column to address rows by.
func (c *Client) requireKey(ref registry.Ref) error {
	shape, err := c.reg.Row(ref)
	if err != nil {
		return err
	}
	if _, ok := shape.Field(keyColumn); !ok {
		return fmt.Errorf("%s has no %q column", c.tableName(ref), keyColumn)
	}
	return nil
}

func checkColumns(shape model.Shape, q Query) error {
	var problems []FieldProblem
	for col := range q.Where {
		if _, ok := shape.Field(col); !ok {
			problems = append(problems, FieldProblem{Field: col, Reason: "unknown filter column"})
		}
	}
	if q.OrderBy != "" {
		col := q.OrderBy
		if col[0] == '-' {
			col = col[1:]
		}
		if _, ok := shape.Field(col); !ok {
			problems = append(problems, FieldProblem{Field: col, Reason: "unknown order column"})
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].Field < problems[j].Field })
	return &ShapeMismatchError{Kind: shape.Kind, Schema: shape.Schema, Name: shape.Name, Problems: problems}
}

func orderClause(orderBy string) string {
	if orderBy[0] == '-' {
		return orderBy[1:] + " DESC"
	}
	return orderBy + " ASC"
}
