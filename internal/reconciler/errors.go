package reconciler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPrecondition indicates value sequences that cannot be paired.
	ErrPrecondition = errors.New("precondition violated")

	// ErrNumericParse indicates a non-empty value that is not a number.
	ErrNumericParse = errors.New("numeric parse failure")

	// ErrColumnNotFound indicates a column name missing from a header.
	ErrColumnNotFound = errors.New("column not found")
)

// PreconditionError reports empty or unequal value sequences.
type PreconditionError struct {
	LeftLen  int
	RightLen int
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("need non-empty data files with the same number of lines (left %d, right %d)", e.LeftLen, e.RightLen)
}

// Is implements errors.Is support
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// ParseError reports a price that could not be parsed.
type ParseError struct {
	Line  int
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: cannot parse %q as a number: %v", e.Line, e.Value, e.Err)
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrNumericParse
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

type ColumnError struct {
	Column  string
	Headers []string
}

func (e *ColumnError) Error() string {
	quoted := make([]string, len(e.Headers))
	for i, h := range e.Headers {
		quoted[i] = fmt.Sprintf("%q", h)
	}
	return fmt.Sprintf("column %q not in header [%s]", e.Column, strings.Join(quoted, " "))
}

// Is implements errors.Is support
func (e *ColumnError) Is(target error) bool {
	return target == ErrColumnNotFound
}
