package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGrammarMismatch indicates a record without enough components to
	// hold the prefix and at least one tail field.
	ErrGrammarMismatch = errors.New("record does not match grammar")

	// ErrFieldCount indicates a record tail shorter than the schema.
	ErrFieldCount = errors.New("field count mismatch")

	// ErrUnknownSchema indicates a lookup of an unregistered schema.
	ErrUnknownSchema = errors.New("unknown schema")
)

// GrammarError reports a record with too few comma-separated components.
type GrammarError struct {
	Prefix     int
	Components int
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("record has %d components, need %d prefix components and at least one tail field", e.Components, e.Prefix)
}

// Is implements errors.Is support
func (e *GrammarError) Is(target error) bool {
	return target == ErrGrammarMismatch
}

// FieldCountError reports a tail with fewer fields than the schema needs.
type FieldCountError struct {
	Schema string
	Want   int
	Got    int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("schema %s needs %d fields, record has %d", e.Schema, e.Want, e.Got)
}

// Is implements errors.Is support
func (e *FieldCountError) Is(target error) bool {
	return target == ErrFieldCount
}

type NotFoundError struct {
	Name  string
	Known []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schema %q not registered (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrUnknownSchema
}
