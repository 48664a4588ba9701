package main

import (
	"bytes"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"storeschema/internal/model"
	"storeschema/internal/registry"
	"storeschema/internal/storedb"
)

func TestParseCommaSeparated(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"products", []string{"products"}},
		{"products, reviews", []string{"products", "reviews"}},
		{" public.orders ,,shipping.parcels ", []string{"public.orders", "shipping.parcels"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := parseCommaSeparated(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseCommaSeparated(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

var spaces = regexp.MustCompile(`[ \t]+`)

func TestDescribe(t *testing.T) {
	reg, err := storedb.Registry()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := describe(&buf, reg, registry.Ref{Schema: "public", Name: "reviews"}); err != nil {
		t.Fatalf("describe: %v", err)
	}
	out := spaces.ReplaceAllString(buf.String(), " ")

	for _, want := range []string{
		"public.reviews\n",
		"\nrow:\n",
		" rating integer \n",
		" product_id uuid nullable\n",
		"\ninsert:\n",
		" id uuid optional\n",
		" comment text nullable optional\n",
		"\nupdate:\n",
		" rating integer optional\n",
		"\nrelationships:\n",
		" reviews_product_id_fkey (product_id) -> products(id) many-to-one\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestDescribeUnknownTable(t *testing.T) {
	reg, err := storedb.Registry()
	if err != nil {
		t.Fatal(err)
	}
	err = describe(&bytes.Buffer{}, reg, registry.Name("nonexistent_table"))
	if !errors.Is(err, registry.ErrUnknownTable) {
		t.Errorf("err = %v, want ErrUnknownTable", err)
	}
}

func TestFieldType(t *testing.T) {
	tests := []struct {
		f    model.ShapeField
		want string
	}{
		{model.ShapeField{Type: model.TypeText}, "text"},
		{model.ShapeField{Type: model.TypeText, Array: true}, "text[]"},
		{model.ShapeField{Type: model.TypeEnum, TypeRef: &model.TypeRef{Name: "order_status"}}, "enum:order_status"},
		{model.ShapeField{Type: model.TypeComposite, TypeRef: &model.TypeRef{Schema: "shipping", Name: "address"}}, "composite:shipping.address"},
	}
	for _, tt := range tests {
		if got := fieldType(tt.f); got != tt.want {
			t.Errorf("fieldType(%+v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}
