package extractor

import "fmt"

// LineError locates a record that could not be normalized.
type LineError struct {
	File string
	Line int
	Raw  string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.File, e.Line, e.Err, e.Raw)
}

// Unwrap implements errors.Unwrap
func (e *LineError) Unwrap() error {
	return e.Err
}
