package parser

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"storeschema/internal/model"
	"storeschema/internal/registry"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const yamlDescription = `
default_schema: public
schemas:
  public:
    tables:
      reviews:
        doc: Customer reviews.
        columns:
          - {name: id, type: uuid, default: true}
          - {name: product_id, type: uuid, nullable: true}
          - {name: rating, type: int4}
          - {name: tags, type: "text[]", nullable: true}
          - {name: status, type: "enum:review_status"}
        relationships:
          - columns: [product_id]
            references: products
            referenced_columns: [id]
      products:
        columns:
          - {name: id, type: uuid, default: true}
          - {name: price, type: numeric}
    enums:
      review_status: [pending, approved]
    composite_types:
      money:
        fields:
          - {name: amount, type: numeric}
          - {name: currency, type: text}
`

func TestParseYAMLDescription(t *testing.T) {
	path := writeFile(t, "schema.yaml", yamlDescription)

	db, err := New().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if db.Source != path || db.DefaultSchema != "public" {
		t.Errorf("db header = %q %q", db.Source, db.DefaultSchema)
	}
	if len(db.Schemas) != 1 {
		t.Fatalf("got %d schemas", len(db.Schemas))
	}
	s := db.Schemas[0]

	// Tables are sorted by name.
	if s.Tables[0].Name != "products" || s.Tables[1].Name != "reviews" {
		t.Fatalf("tables = %s, %s", s.Tables[0].Name, s.Tables[1].Name)
	}
	reviews := s.Tables[1]
	if reviews.Doc != "Customer reviews." {
		t.Errorf("doc = %q", reviews.Doc)
	}

	want := []model.Column{
		{Name: "id", Type: model.TypeUUID, HasDefault: true},
		{Name: "product_id", Type: model.TypeUUID, Nullable: true},
		{Name: "rating", Type: model.TypeInteger},
		{Name: "tags", Type: model.TypeText, Array: true, Nullable: true},
		{Name: "status", Type: model.TypeEnum, TypeRef: &model.TypeRef{Name: "review_status"}},
	}
	if !reflect.DeepEqual(reviews.Columns, want) {
		t.Errorf("columns =\n%+v\nwant\n%+v", reviews.Columns, want)
	}

	if len(reviews.Relationships) != 1 {
		t.Fatalf("relationships = %+v", reviews.Relationships)
	}
	rel := reviews.Relationships[0]
	if rel.ForeignKeyName != "reviews_product_id_fkey" || rel.ReferencedRelation != "products" {
		t.Errorf("relationship = %+v", rel)
	}

	if len(s.Enums) != 1 || !reflect.DeepEqual(s.Enums[0].Values, []string{"pending", "approved"}) {
		t.Errorf("enums = %+v", s.Enums)
	}
	if len(s.CompositeTypes) != 1 || len(s.CompositeTypes[0].Fields) != 2 {
		t.Errorf("composite types = %+v", s.CompositeTypes)
	}
}

func TestParseJSONDescription(t *testing.T) {
	path := writeFile(t, "schema.json", `{
  "schemas": {
    "public": {
      "tables": {
        "orders": {
          "columns": [
            {"name": "id", "type": "uuid", "default": true},
            {"name": "total_amount", "type": "numeric"},
            {"name": "created_at", "type": "timestamp with time zone", "default": true}
          ]
        }
      },
      "views": {
        "order_totals": {"columns": [{"name": "total", "type": "numeric", "nullable": true}]}
      }
    }
  }
}`)

	db, err := New().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	s := db.Schemas[0]
	if got := s.Tables[0].Columns[2].Type; got != model.TypeTimestamptz {
		t.Errorf("created_at type = %s", got)
	}
	if len(s.Views) != 1 || s.Views[0].Name != "order_totals" {
		t.Errorf("views = %+v", s.Views)
	}
}

func TestParseDescriptionErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"no schemas", "default_schema: public\n", "no schemas"},
		{"bad type", "schemas:\n  public:\n    tables:\n      t:\n        columns:\n          - {name: a, type: money}\n", `unknown column type "money"`},
		{"bad kind", "schemas:\n  public:\n    tables:\n      t:\n        columns:\n          - {name: a, type: \"domain:x\"}\n", `unknown type kind "domain"`},
		{"missing type", "schemas:\n  public:\n    tables:\n      t:\n        columns:\n          - {name: a}\n", "missing type"},
		{"malformed", "schemas: [", "parsing YAML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescription([]byte(tt.doc), FormatYAML)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestParseColumnType(t *testing.T) {
	tests := []struct {
		in    string
		typ   model.ColumnType
		ref   *model.TypeRef
		array bool
	}{
		{"text", model.TypeText, nil, false},
		{"  VARCHAR ", model.TypeText, nil, false},
		{"text[]", model.TypeText, nil, true},
		{"int8", model.TypeBigint, nil, false},
		{"double precision", model.TypeReal, nil, false},
		{"enum:order_status", model.TypeEnum, &model.TypeRef{Name: "order_status"}, false},
		{"composite:shipping.address[]", model.TypeComposite, &model.TypeRef{Schema: "shipping", Name: "address"}, true},
		{"ENUM:OrderStatus", model.TypeEnum, &model.TypeRef{Name: "OrderStatus"}, false},
		{"Composite: Billing.PostalAddress", model.TypeComposite, &model.TypeRef{Schema: "Billing", Name: "PostalAddress"}, false},
		{"TIMESTAMPTZ[]", model.TypeTimestamptz, nil, true},
	}
	for _, tt := range tests {
		typ, ref, array, err := ParseColumnType(tt.in)
		if err != nil {
			t.Errorf("ParseColumnType(%q): %v", tt.in, err)
			continue
		}
		if typ != tt.typ || array != tt.array || !reflect.DeepEqual(ref, tt.ref) {
			t.Errorf("ParseColumnType(%q) = %s %+v %v", tt.in, typ, ref, array)
		}
	}
}

func TestParseDescriptionKeepsTypeNameCase(t *testing.T) {
	db, err := ParseDescription([]byte(`
schemas:
  shop:
    tables:
      orders:
        columns:
          - {name: status, type: "enum:OrderStatus"}
    enums:
      OrderStatus: [Pending, Paid]
`), FormatYAML)
	if err != nil {
		t.Fatalf("ParseDescription: %v", err)
	}
	if db.DefaultSchema != "shop" {
		t.Errorf("default schema = %q, want shop", db.DefaultSchema)
	}
	if ref := db.Schemas[0].Tables[0].Columns[0].TypeRef; ref == nil || ref.Name != "OrderStatus" {
		t.Errorf("type ref = %+v", ref)
	}
	if _, err := registry.New(db); err != nil {
		t.Errorf("registry.New: %v", err)
	}
}

const goSource = `package storefront

import (
	"time"

	"github.com/google/uuid"
)

// Timestamps is embedded into tables.
type Timestamps struct {
	CreatedAt time.Time ` + "`db:\"created_at\" schema:\"default\"`" + `
	UpdatedAt time.Time ` + "`db:\"updated_at\" schema:\"default\"`" + `
}

// CartItem is a line in a shopping cart.
//
//storeschema:table name=cart_items
type CartItem struct {
	ID        uuid.UUID  ` + "`db:\"id\" schema:\"default\"`" + `
	UserID    string     ` + "`db:\"user_id\" schema:\"type=uuid\"`" + `
	ProductID *uuid.UUID ` + "`db:\"product_id\" schema:\"fk=products.id\"`" + `
	Color     *string
	Quantity  int        ` + "`schema:\"default\"`" + `
	Labels    []string   ` + "`db:\"labels\" schema:\"nullable\"`" + `
	Internal  string     ` + "`db:\"-\"`" + `
	secret    string
	Timestamps
}

//storeschema:table
type Product struct {
	ID uuid.UUID ` + "`db:\"id\" schema:\"default\"`" + `
}

//storeschema:view name=cart_totals schema=reporting
type CartTotal struct {
	UserID string  ` + "`db:\"user_id\" schema:\"type=uuid\"`" + `
	Total  float64
}
`

func TestParseGoFile(t *testing.T) {
	path := writeFile(t, "models.go", goSource)

	db, err := New().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(db.Schemas) != 2 {
		t.Fatalf("schemas = %d, want 2", len(db.Schemas))
	}
	public := db.Schemas[0]
	if public.Name != "public" || len(public.Tables) != 2 {
		t.Fatalf("public = %+v", public)
	}

	cart := public.Tables[0]
	if cart.Name != "cart_items" {
		t.Errorf("table name = %q", cart.Name)
	}
	if cart.Doc != "CartItem is a line in a shopping cart." {
		t.Errorf("doc = %q", cart.Doc)
	}
	want := []model.Column{
		{Name: "id", Type: model.TypeUUID, HasDefault: true},
		{Name: "user_id", Type: model.TypeUUID},
		{Name: "product_id", Type: model.TypeUUID, Nullable: true},
		{Name: "color", Type: model.TypeText, Nullable: true},
		{Name: "quantity", Type: model.TypeInteger, HasDefault: true},
		{Name: "labels", Type: model.TypeText, Array: true, Nullable: true},
		{Name: "created_at", Type: model.TypeTimestamptz, HasDefault: true},
		{Name: "updated_at", Type: model.TypeTimestamptz, HasDefault: true},
	}
	if !reflect.DeepEqual(cart.Columns, want) {
		t.Errorf("columns =\n%+v\nwant\n%+v", cart.Columns, want)
	}
	if len(cart.Relationships) != 1 {
		t.Fatalf("relationships = %+v", cart.Relationships)
	}
	rel := cart.Relationships[0]
	if rel.ForeignKeyName != "cart_items_product_id_fkey" || rel.ReferencedRelation != "products" || rel.IsOneToOne {
		t.Errorf("relationship = %+v", rel)
	}

	if public.Tables[1].Name != "product" {
		t.Errorf("default table name = %q, want product", public.Tables[1].Name)
	}

	reporting := db.Schemas[1]
	if reporting.Name != "reporting" || len(reporting.Views) != 1 || reporting.Views[0].Name != "cart_totals" {
		t.Fatalf("reporting = %+v", reporting)
	}
	if got := reporting.Views[0].Columns[1].Type; got != model.TypeNumeric {
		t.Errorf("total type = %s", got)
	}
}

func TestParseGoFileDefaultSchema(t *testing.T) {
	path := writeFile(t, "parcels.go", `package shipping

//storeschema:table name=parcels schema=shipping
type Parcel struct {
	ID     string `+"`schema:\"type=uuid,default\"`"+`
	Weight float64
}
`)
	db, err := New().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if db.DefaultSchema != "shipping" {
		t.Errorf("default schema = %q, want shipping", db.DefaultSchema)
	}
	reg, err := registry.New(db)
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	if _, err := reg.Insert(registry.Name("parcels")); err != nil {
		t.Errorf("Insert: %v", err)
	}

	db, err = New().ParseFile(writeFile(t, "models.go", goSource))
	if err != nil {
		t.Fatal(err)
	}
	if db.DefaultSchema != "public" {
		t.Errorf("default schema = %q, want public", db.DefaultSchema)
	}
}

func TestParseGoFileErrors(t *testing.T) {
	t.Run("no directives", func(t *testing.T) {
		path := writeFile(t, "plain.go", "package x\n\ntype A struct{ B string }\n")
		if _, err := New().ParseFile(path); err == nil || !strings.Contains(err.Error(), "no //storeschema:table") {
			t.Errorf("err = %v", err)
		}
	})
	t.Run("uninferable type", func(t *testing.T) {
		path := writeFile(t, "bad.go", "package x\n\n//storeschema:table\ntype A struct{ B map[string]int }\n")
		if _, err := New().ParseFile(path); err == nil || !strings.Contains(err.Error(), "cannot infer column type") {
			t.Errorf("err = %v", err)
		}
	})
	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "schema.toml", "")
		if _, err := New().ParseFile(path); err == nil || !strings.Contains(err.Error(), "unsupported file type") {
			t.Errorf("err = %v", err)
		}
	})
}

func TestSnakeCase(t *testing.T) {
	tests := map[string]string{
		"ProductID":         "product_id",
		"CartItem":          "cart_item",
		"ID":                "id",
		"StaffNotification": "staff_notification",
		"HTTPServer":        "http_server",
	}
	for in, want := range tests {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseExampleInput(t *testing.T) {
	db, err := New().ParseFile(filepath.Join("..", "..", "examples", "input.go"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(db.Schemas) != 2 || db.Schemas[0].Name != "public" || db.Schemas[1].Name != "reporting" {
		t.Fatalf("schemas = %+v", db.Schemas)
	}

	var names []string
	for _, tbl := range db.Schemas[0].Tables {
		names = append(names, tbl.Name)
	}
	if want := []string{"loyalty_members", "points_ledger", "member_cards"}; !reflect.DeepEqual(names, want) {
		t.Errorf("tables = %v, want %v", names, want)
	}

	ledger := db.Schemas[0].Tables[1]
	var cols []string
	for _, c := range ledger.Columns {
		cols = append(cols, c.Name)
	}
	if want := []string{"id", "member_id", "order_id", "delta", "value", "reasons", "created_at", "updated_at"}; !reflect.DeepEqual(cols, want) {
		t.Errorf("points_ledger columns = %v, want %v", cols, want)
	}

	card := db.Schemas[0].Tables[2]
	if len(card.Relationships) != 1 || !card.Relationships[0].IsOneToOne || card.Relationships[0].ReferencedRelation != "loyalty_members" {
		t.Errorf("member_cards relationships = %+v", card.Relationships)
	}
	if issued := card.Columns[3]; issued.Type != model.TypeDate {
		t.Errorf("issued_on = %+v", issued)
	}
}
