package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storeschema/internal/model"
	"storeschema/internal/registry"
)

// ErrShapeMismatch is matched by *ShapeMismatchError via errors.Is.
var ErrShapeMismatch = errors.New("shape mismatch")

// FieldProblem is one reason a record does not conform to a shape.
type FieldProblem struct {
	Field  string
	Reason string
}

// ShapeMismatchError reports every problem found in a record.
type ShapeMismatchError struct {
	Kind     model.ShapeKind
	Schema   string
	Name     string
	Problems []FieldProblem
}

func (e *ShapeMismatchError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.Field + ": " + p.Reason
	}
	return fmt.Sprintf("record does not match %s shape of %s.%s: %s", e.Kind, e.Schema, e.Name, strings.Join(parts, "; "))
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// Validate checks record against shape. Enum values are checked only for
// being strings; use a Checker to check them against their value sets.
func Validate(shape model.Shape, record map[string]any) error {
	return validate(shape, record, nil)
}

// Checker validates records against shapes resolved from a registry.
type Checker struct {
	reg *registry.Registry
}

// NewChecker returns a Checker backed by reg.
func NewChecker(reg *registry.Registry) *Checker {
	return &Checker{reg: reg}
}

// Check resolves the shape of kind for ref and validates record against it.
// Resolution errors are returned unchanged.
func (c *Checker) Check(kind model.ShapeKind, ref registry.Ref, record map[string]any) error {
	shape, err := c.reg.Shape(kind, ref)
	if err != nil {
		return err
	}
	return validate(shape, record, c.reg)
}

func validate(shape model.Shape, record map[string]any, reg *registry.Registry) error {
	var problems []FieldProblem
	add := func(field, format string, args ...any) {
		problems = append(problems, FieldProblem{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	for name := range record {
		if _, ok := shape.Field(name); !ok {
			add(name, "unknown field")
		}
	}

	for _, f := range shape.Fields {
		v, present := record[f.Name]
		if !present {
			if !f.Optional {
				add(f.Name, "missing required field")
			}
			continue
		}
		if v == nil {
			if !f.Nullable {
				add(f.Name, "null not allowed")
			}
			continue
		}
		if reason := checkValue(f, v, shape.Schema, reg); reason != "" {
			add(f.Name, "%s", reason)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].Field < problems[j].Field })
	return &ShapeMismatchError{
		Kind:     shape.Kind,
		Schema:   shape.Schema,
		Name:     shape.Name,
		Problems: problems,
	}
}

// checkValue returns an empty string when v conforms to f's semantic type.
func checkValue(f model.ShapeField, v any, schema string, reg *registry.Registry) string {
	if !f.Array {
		return checkScalar(f, v, schema, reg)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Sprintf("expected array of %s, got %T", f.Type, v)
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i).Interface()
		if elem == nil {
			continue // Postgres arrays may hold nulls
		}
		if reason := checkScalar(f, elem, schema, reg); reason != "" {
			return fmt.Sprintf("element %d: %s", i, reason)
		}
	}
	return ""
}

func checkScalar(f model.ShapeField, v any, schema string, reg *registry.Registry) string {
	mismatch := func() string { return fmt.Sprintf("expected %s, got %T", f.Type, v) }

	switch f.Type {
	case model.TypeText:
		if _, ok := v.(string); !ok {
			return mismatch()
		}
	case model.TypeUUID:
		switch x := v.(type) {
		case uuid.UUID:
		case string:
			if _, err := uuid.Parse(x); err != nil {
				return fmt.Sprintf("invalid uuid %q", x)
			}
		default:
			return mismatch()
		}
	case model.TypeInteger, model.TypeBigint:
		if !isInteger(v) {
			return mismatch()
		}
	case model.TypeNumeric:
		switch x := v.(type) {
		case decimal.Decimal:
		case string:
			if _, err := decimal.NewFromString(x); err != nil {
				return fmt.Sprintf("invalid numeric %q", x)
			}
		default:
			if !isNumber(v) {
				return mismatch()
			}
		}
	case model.TypeReal:
		if !isNumber(v) {
			return mismatch()
		}
	case model.TypeBoolean:
		if _, ok := v.(bool); !ok {
			return mismatch()
		}
	case model.TypeDate:
		switch x := v.(type) {
		case time.Time:
		case string:
			if _, err := time.Parse(time.DateOnly, x); err != nil {
				return fmt.Sprintf("invalid date %q", x)
			}
		default:
			return mismatch()
		}
	case model.TypeTimestamp, model.TypeTimestamptz:
		switch x := v.(type) {
		case time.Time:
		case string:
			if _, err := time.Parse(time.RFC3339Nano, x); err != nil {
				return fmt.Sprintf("invalid timestamp %q", x)
			}
		default:
			return mismatch()
		}
	case model.TypeJSON, model.TypeJSONB:
		// any value encodes as JSON
	case model.TypeEnum:
		s, ok := v.(string)
		if !ok {
			return mismatch()
		}
		if reg == nil || f.TypeRef == nil {
			return ""
		}
		vs, err := reg.Enum(typeRef(f.TypeRef, schema))
		if err != nil {
			return err.Error()
		}
		if !vs.Contains(s) {
			return fmt.Sprintf("%q is not a value of enum %s.%s", s, vs.Schema, vs.Name)
		}
	case model.TypeComposite:
		m, ok := v.(map[string]any)
		if !ok {
			return mismatch()
		}
		if reg == nil || f.TypeRef == nil {
			return ""
		}
		ct, err := reg.CompositeType(typeRef(f.TypeRef, schema))
		if err != nil {
			return err.Error()
		}
		// Omitted attributes of a composite value are null.
		for i := range ct.Fields {
			ct.Fields[i].Optional = true
		}
		if err := validate(ct, m, reg); err != nil {
			return err.Error()
		}
	default:
		return fmt.Sprintf("unsupported type %s", f.Type)
	}
	return ""
}

func typeRef(ref *model.TypeRef, schema string) registry.Ref {
	if ref.Schema != "" {
		schema = ref.Schema
	}
	return registry.Ref{Schema: schema, Name: ref.Name}
}

func isInteger(v any) bool {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return x == math.Trunc(x) && !math.IsInf(x, 0)
	case float32:
		return float64(x) == math.Trunc(float64(x))
	case json.Number:
		_, err := x.Int64()
		return err == nil
	}
	return false
}

func isNumber(v any) bool {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case json.Number:
		_, err := x.Float64()
		return err == nil
	case decimal.Decimal:
		return true
	}
	return false
}
