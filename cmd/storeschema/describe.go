package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"storeschema/internal/model"
	"storeschema/internal/registry"
)

// describe prints the shapes and relationships of one relation. Views only
// have a row shape.
func describe(w io.Writer, reg *registry.Registry, ref registry.Ref) error {
	rel, err := reg.Relation(ref)
	if err != nil {
		return err
	}
	row, err := reg.Row(ref)
	if err != nil {
		return err
	}
	shapes := []model.Shape{row}
	for _, resolve := range []func(registry.Ref) (model.Shape, error){reg.Insert, reg.Update} {
		s, err := resolve(ref)
		if errors.Is(err, registry.ErrUnknownTable) {
			break
		}
		if err != nil {
			return err
		}
		shapes = append(shapes, s)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s.%s\n", row.Schema, row.Name)
	if rel.Doc != "" {
		fmt.Fprintf(tw, "  %s\n", rel.Doc)
	}
	for _, s := range shapes {
		fmt.Fprintf(tw, "\n%s:\n", s.Kind)
		for _, f := range s.Fields {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.Name, fieldType(f), fieldFlags(f))
		}
	}
	if len(rel.Relationships) > 0 {
		fmt.Fprintf(tw, "\nrelationships:\n")
		for _, r := range rel.Relationships {
			target := r.ReferencedRelation
			if r.ReferencedSchema != "" {
				target = r.ReferencedSchema + "." + target
			}
			kind := "many-to-one"
			if r.IsOneToOne {
				kind = "one-to-one"
			}
			fmt.Fprintf(tw, "  %s\t(%s) -> %s(%s)\t%s\n",
				r.ForeignKeyName, strings.Join(r.Columns, ", "), target, strings.Join(r.ReferencedColumns, ", "), kind)
		}
	}
	return tw.Flush()
}

func fieldType(f model.ShapeField) string {
	t := string(f.Type)
	if f.TypeRef != nil {
		t += ":" + f.TypeRef.FullName()
	}
	if f.Array {
		t += "[]"
	}
	return t
}

func fieldFlags(f model.ShapeField) string {
	var flags []string
	if f.Nullable {
		flags = append(flags, "nullable")
	}
	if f.Optional {
		flags = append(flags, "optional")
	}
	return strings.Join(flags, " ")
}
