package registry

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below via errors.Is.
var (
	ErrUnknownSchema        = errors.New("unknown schema")
	ErrUnknownTable         = errors.New("unknown table")
	ErrUnknownEnum          = errors.New("unknown enum")
	ErrUnknownCompositeType = errors.New("unknown composite type")
)

// UnknownSchemaError is returned when a schema qualifier is not declared.
type UnknownSchemaError struct {
	Schema string
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf("unknown schema %q", e.Schema)
}

func (e *UnknownSchemaError) Is(target error) bool { return target == ErrUnknownSchema }

// UnknownTableError is returned when a table or view is not declared in the
// resolved schema. Kind is the shape that was requested.
type UnknownTableError struct {
	Schema string
	Name   string
	Kind   string
}

func (e *UnknownTableError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("unknown table %s.%s", e.Schema, e.Name)
	}
	return fmt.Sprintf("unknown table %s.%s (no %s shape)", e.Schema, e.Name, e.Kind)
}

func (e *UnknownTableError) Is(target error) bool { return target == ErrUnknownTable }

// UnknownEnumError is returned when an enum is not declared.
type UnknownEnumError struct {
	Schema string
	Name   string
}

func (e *UnknownEnumError) Error() string {
	return fmt.Sprintf("unknown enum %s.%s", e.Schema, e.Name)
}

func (e *UnknownEnumError) Is(target error) bool { return target == ErrUnknownEnum }

// UnknownCompositeTypeError is returned when a composite type is not declared.
type UnknownCompositeTypeError struct {
	Schema string
	Name   string
}

func (e *UnknownCompositeTypeError) Error() string {
	return fmt.Sprintf("unknown composite type %s.%s", e.Schema, e.Name)
}

func (e *UnknownCompositeTypeError) Is(target error) bool { return target == ErrUnknownCompositeType }
